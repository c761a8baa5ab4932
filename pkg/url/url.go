package url

import (
	"fmt"
	"net/url"
)

type URL = url.URL

func MustParse(value string) *url.URL {
	url, err := url.Parse(value)
	if err != nil {
		panic(fmt.Sprintf("Invalid URL: %s", value))
	}
	return url
}

// Get resolves a link extracted from a document against the document's base
// URL. Relative links (including query-only ones) are absolutized.
func Get(base *url.URL, link string) (*url.URL, error) {
	url, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("got an invalid link: %q", link)
	}

	if url.IsAbs() {
		return url, nil
	}

	return base.ResolveReference(url), nil
}
