package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/hleb-kastseika/tg-channel-to-rss/internal/util"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/query"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/test/testutil"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

func TestHTML(t *testing.T) {
	t.Parallel()

	userAgents := make(chan string, 2)
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		userAgents <- request.UserAgent()
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = writer.Write([]byte(heredoc.Doc(`
			<html>
			<head><title>Some channel</title></head>
			<body><div class="post">Some post</div></body>
			</html>`,
		)))
	}))
	defer server.Close()

	doc, err := HTML(testContext(t), url.MustParse(server.URL))
	require.NoError(t, err)
	require.Equal(t, "Some channel", query.Text(doc.Find("title")))
	require.Equal(t, "Some post", query.Text(doc.Find("div.post")))
	require.Equal(t, defaultUserAgent, <-userAgents)

	_, err = HTML(testContext(t), url.MustParse(server.URL), UserAgent("Mozilla/5.0 (test)"))
	require.NoError(t, err)
	require.Equal(t, "Mozilla/5.0 (test)", <-userAgents)
}

func TestHTMLWithCustomCharset(t *testing.T) {
	t.Parallel()

	page, err := charmap.Windows1251.NewEncoder().String(heredoc.Doc(`
		<html>
		<head>
			<meta http-equiv="Content-Type" content="text/html; charset=windows-1251">
			<title>Русскоязычный канал</title>
		</head>
		<body></body>
		</html>`,
	))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/html")
		_, _ = writer.Write([]byte(page))
	}))
	defer server.Close()

	doc, err := HTML(testContext(t), url.MustParse(server.URL))
	require.NoError(t, err)
	require.Equal(t, "Русскоязычный канал", query.Text(doc.Find("title")))
}

func TestFetchErrors(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name        string
		handler     http.HandlerFunc
		temporary   bool
		unavailable bool
	}{
		{
			name: "not found",
			handler: func(writer http.ResponseWriter, request *http.Request) {
				http.NotFound(writer, request)
			},
			temporary:   false,
			unavailable: true,
		},
		{
			name: "server error",
			handler: func(writer http.ResponseWriter, request *http.Request) {
				http.Error(writer, "Internal server error", http.StatusInternalServerError)
			},
			temporary:   true,
			unavailable: true,
		},
		{
			name: "invalid content type",
			handler: func(writer http.ResponseWriter, request *http.Request) {
				writer.Header().Set("Content-Type", "application/json")
				_, _ = writer.Write([]byte(`{}`))
			},
			temporary:   false,
			unavailable: false,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(test.handler)
			defer server.Close()

			_, err := HTML(testContext(t), url.MustParse(server.URL))
			require.Error(t, err)
			require.Equal(t, test.temporary, util.IsTemporaryError(err))
			require.Equal(t, test.unavailable, util.IsUnavailableError(err))
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-request.Context().Done():
		case <-time.After(time.Minute):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(testContext(t), 50*time.Millisecond)
	defer cancel()

	_, err := HTML(ctx, url.MustParse(server.URL))
	require.Error(t, err)
	require.True(t, util.IsTemporaryError(err))
}

func TestFeedParsers(t *testing.T) {
	t.Parallel()

	document := heredoc.Doc(`
		<?xml version="1.0" encoding="UTF-8"?>
		<rss version="2.0">
		    <channel>
		        <title>Some channel</title>
		        <link>https://example.com/</link>
		        <description>Some description</description>
		        <item>
		            <title>Some post</title>
		            <guid isPermaLink="true">https://example.com/posts/1</guid>
		            <link>https://example.com/posts/1</link>
		            <description>Post description</description>
		            <pubDate>Mon, 01 Jan 2024 12:00:00 GMT</pubDate>
		        </item>
		    </channel>
		</rss>`,
	)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		_, _ = writer.Write([]byte(document))
	}))
	defer server.Close()

	feed, err := RSS(testContext(t), url.MustParse(server.URL))
	require.NoError(t, err)
	require.Equal(t, "Some channel", feed.Title)
	require.Len(t, feed.Items, 1)
	require.Equal(t, "https://example.com/posts/1", feed.Items[0].Link)

	parsed, err := Feed(testContext(t), url.MustParse(server.URL))
	require.NoError(t, err)
	require.Equal(t, "Some channel", parsed.Title)
	require.Len(t, parsed.Items, 1)
	require.Equal(t, "https://example.com/posts/1", parsed.Items[0].GUID)
}

func testContext(t *testing.T) context.Context {
	return WithContext(testutil.Context(t), prometheus.NewHistogram(prometheus.HistogramOpts{}))
}
