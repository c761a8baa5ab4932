package feed

import (
	"context"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
)

// Params describes feed parameters decoded from the request URL. Parameter
// structs are processed by httpin, so they carry its field tags.
type Params any

// Feed generates an RSS feed for the requested parameters.
type Feed[P Params] interface {
	// Name identifies the feed. It's used as the first segment of the feed
	// URL path and as a metric label.
	Name() string

	// Path returns the rest of the feed URL path which may contain httpin
	// path placeholders. Feeds without a custom path are served at
	// /<name>.rss.
	Path() (string, bool)

	Get(ctx context.Context, params P) (*rss.Feed, error)
}
