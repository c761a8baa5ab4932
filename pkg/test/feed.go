package test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/feed"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/fetch"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/test/testutil"
)

// Feed generates the feed with the given params and checks the invariants all
// feeds must provide. The feed is returned for generator-specific checks.
func Feed[P feed.Params](t *testing.T, generator feed.Feed[P], params P, opts ...FeedOption) *rss.Feed {
	var options options
	for _, opt := range opts {
		opt(&options)
	}

	ctx := testutil.Context(t)
	ctx = fetch.WithContext(ctx, prometheus.NewHistogram(prometheus.HistogramOpts{}))

	feed, err := generator.Get(ctx, params)
	require.NoError(t, err)
	require.NoError(t, feed.Validate())

	if !options.mayBeEmpty {
		require.NotEmpty(t, feed.Items)
	}

	for _, item := range feed.Items {
		require.NotEmpty(t, item.Description)
	}

	return feed
}

type options struct {
	mayBeEmpty bool
}

type FeedOption func(o *options)

func MayBeEmpty() FeedOption {
	return func(o *options) {
		o.mayBeEmpty = true
	}
}
