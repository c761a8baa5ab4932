package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/test/testutil"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

type testParams struct {
	Channel string `in:"path=channel"`
}

type testFeed struct {
	get func(ctx context.Context, params testParams) (*rss.Feed, error)
}

func (f *testFeed) Name() string         { return "test" }
func (f *testFeed) Path() (string, bool) { return "{channel}.rss", true }

func (f *testFeed) Get(ctx context.Context, params testParams) (*rss.Feed, error) {
	return f.get(ctx, params)
}

type invalidInputError struct{}

func (invalidInputError) Error() string      { return "invalid channel name" }
func (invalidInputError) InvalidInput() bool { return true }

type temporaryError struct{}

func (temporaryError) Error() string   { return "connection timed out" }
func (temporaryError) Temporary() bool { return true }

func TestScrape(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name        string
		get         func(ctx context.Context, params testParams) (*rss.Feed, error)
		status      int
		contentType string
	}{
		{
			name: "success",
			get: func(ctx context.Context, params testParams) (*rss.Feed, error) {
				feed := rss.NewFeed("Some channel", url.MustParse("https://t.me/s/channel"))
				feed.AddItem(time.Now(), "New post", url.MustParse("https://t.me/s/channel/1"), "Some post")
				return feed, nil
			},
			status:      http.StatusOK,
			contentType: rss.ContentType,
		},
		{
			name: "invalid input",
			get: func(ctx context.Context, params testParams) (*rss.Feed, error) {
				return nil, invalidInputError{}
			},
			status:      http.StatusBadRequest,
			contentType: "text/plain",
		},
		{
			name: "temporary error",
			get: func(ctx context.Context, params testParams) (*rss.Feed, error) {
				return nil, temporaryError{}
			},
			status:      http.StatusGatewayTimeout,
			contentType: "text/plain",
		},
		{
			name: "generator error",
			get: func(ctx context.Context, params testParams) (*rss.Feed, error) {
				return nil, errors.New("unexpected page structure")
			},
			status:      http.StatusBadGateway,
			contentType: "text/plain",
		},
		{
			name: "generator panic",
			get: func(ctx context.Context, params testParams) (*rss.Feed, error) {
				panic("broken feed generator")
			},
			status:      http.StatusInternalServerError,
			contentType: "text/plain",
		},
		{
			name: "invalid feed",
			get: func(ctx context.Context, params testParams) (*rss.Feed, error) {
				feed := rss.NewFeed("Some channel", url.MustParse("https://t.me/s/channel"))
				feed.Items = append(feed.Items, &rss.Item{Title: "Post without a permalink"})
				return feed, nil
			},
			status:      http.StatusInternalServerError,
			contentType: "text/plain",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			scraper, err := Add(NewRegistry(), &testFeed{get: test.get})
			require.NoError(t, err)

			result := scraper.Scrape(testutil.Context(t), testParams{Channel: "channel"})
			require.Equal(t, test.status, result.HTTPStatus)
			require.Equal(t, test.contentType, result.ContentType)
			require.NotEmpty(t, result.Data)

			if test.status == http.StatusOK {
				feed, err := rss.Parse(result.Data)
				require.NoError(t, err)
				require.Len(t, feed.Items, 1)
			}
		})
	}
}

func TestScrapeInvalidInputMessage(t *testing.T) {
	t.Parallel()

	scraper, err := Add(NewRegistry(), &testFeed{
		get: func(ctx context.Context, params testParams) (*rss.Feed, error) {
			return nil, invalidInputError{}
		},
	})
	require.NoError(t, err)

	// The caller should be told what's wrong with the request, but upstream
	// failures must not leak any details.
	result := scraper.Scrape(testutil.Context(t), testParams{Channel: "bad name"})
	require.Equal(t, "invalid channel name", string(result.Data))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	feed := &testFeed{}
	_, err := Add(registry, feed)
	require.NoError(t, err)

	_, err = Add(registry, feed)
	require.EqualError(t, err, `"test" feed is already registered`)
}
