package fetch

import (
	"context"
	"io"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
)

func RSS(ctx context.Context, url *url.URL, options ...Option) (*rss.Feed, error) {
	return fetch(ctx, url, rss.PossibleContentTypes, rss.Read, options...)
}

func Feed(ctx context.Context, url *url.URL, options ...Option) (*gofeed.Feed, error) {
	contentTypes := append(
		[]string{"application/atom+xml"},
		rss.PossibleContentTypes...)

	return fetch(ctx, url, contentTypes, func(body io.Reader) (*gofeed.Feed, error) {
		return gofeed.NewParser().Parse(body)
	}, options...)
}
