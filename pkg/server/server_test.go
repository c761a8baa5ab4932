package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

type testParams struct {
	Channel string `in:"path=channel"`
}

type testFeed struct{}

func (f *testFeed) Name() string         { return "telegram" }
func (f *testFeed) Path() (string, bool) { return "{channel}.rss", true }

func (f *testFeed) Get(ctx context.Context, params testParams) (*rss.Feed, error) {
	if params.Channel == "unknown" {
		return nil, upstreamError{}
	}

	link := url.MustParse("https://t.me/s/" + params.Channel)
	feed := rss.NewFeed("Some channel", link)
	feed.AddItem(time.Now(), "New post", link.JoinPath("1"), "Some post")
	return feed, nil
}

type upstreamError struct{}

func (upstreamError) Error() string     { return "the server returned an error" }
func (upstreamError) Unavailable() bool { return true }

func TestServer(t *testing.T) {
	t.Parallel()

	server := testServer(t, "secret")

	for _, test := range []struct {
		name   string
		path   string
		status int
	}{
		{"missing key", "/telegram/channel.rss", http.StatusUnauthorized},
		{"wrong key", "/telegram/channel.rss?key=guess", http.StatusUnauthorized},
		{"success", "/telegram/channel.rss?key=secret", http.StatusOK},
		{"upstream failure", "/telegram/unknown.rss?key=secret", http.StatusBadGateway},
		{"root", "/", http.StatusNotFound},
		{"unknown path", "/telegram/channel.atom?key=secret", http.StatusNotFound},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			response, body := get(t, server.URL+test.path)
			require.Equal(t, test.status, response.StatusCode)

			if test.status == http.StatusOK {
				require.Equal(t, rss.ContentType, response.Header.Get("Content-Type"))
				require.Equal(t, "max-age=60, public", response.Header.Get("Cache-Control"))

				feed, err := rss.Parse(body)
				require.NoError(t, err)
				require.Len(t, feed.Items, 1)
				require.Equal(t, "https://t.me/s/channel/1", feed.Items[0].GUID.ID)
			}
		})
	}
}

func TestServerWithoutAPIKey(t *testing.T) {
	t.Parallel()

	server := testServer(t, "")

	response, _ := get(t, server.URL+"/telegram/channel.rss")
	require.Equal(t, http.StatusOK, response.StatusCode)
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	s := New("")
	require.NoError(t, Register(s, &testFeed{}))
	require.Error(t, Register(s, &testFeed{}))
}

func testServer(t *testing.T, apiKey string) *httptest.Server {
	s := New(apiKey)
	require.NoError(t, Register(s, &testFeed{}))

	logger := zaptest.NewLogger(t).Sugar()
	handler := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := logging.WithLogger(request.Context(), logger)
		s.router.ServeHTTP(writer, request.WithContext(ctx))
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	response, err := http.Get(url) //nolint:gosec
	require.NoError(t, err)
	defer func() {
		require.NoError(t, response.Body.Close())
	}()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response, body
}
