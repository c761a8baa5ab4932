package fetch

import "github.com/samber/mo"

type Option func(o *options)

type options struct {
	userAgent mo.Option[string]
}

// UserAgent overrides the default User-Agent header. Some providers serve
// reduced previews to unknown clients, so a scraper may need to introduce
// itself as a regular browser.
func UserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = mo.Some(userAgent)
	}
}
