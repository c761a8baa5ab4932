package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	logging "github.com/KonishchevDmitry/go-easy-logging"

	"github.com/hleb-kastseika/tg-channel-to-rss/internal/util"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/feed"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/fetch"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
)

// Scraper generates a feed on demand. The daemon is stateless: every request
// triggers a single fetch of the upstream page, so there is nothing to keep
// or synchronize between requests.
type Scraper[P feed.Params] struct {
	feed    feed.Feed[P]
	metrics observers
}

func Add[P feed.Params](registry *Registry, feed feed.Feed[P]) (*Scraper[P], error) {
	metrics, err := registry.add(feed.Name())
	if err != nil {
		return nil, err
	}

	return &Scraper[P]{
		feed:    feed,
		metrics: metrics,
	}, nil
}

func (s *Scraper[P]) Scrape(ctx context.Context, params P) ScrapeResult {
	ctx = fetch.WithContext(ctx, s.metrics.fetchDuration)
	logging.L(ctx).Infof("Scraping %q feed...", s.feed.Name())

	var panicErr error
	startTime := time.Now()
	feed, err := func() (*rss.Feed, error) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				panicErr = fmt.Errorf("feed generator has panicked: %v\n%s", err, bytes.TrimRight(stack, "\n"))
			}
		}()
		return s.feed.Get(ctx, params)
	}()
	s.metrics.scrapeDuration.Observe(time.Since(startTime).Seconds())

	if panicErr != nil {
		logging.L(ctx).Errorf("Failed to scrape %q feed: %s", s.feed.Name(), panicErr)
		s.metrics.feedStatus.WithLabelValues(feedStatusPanic).Inc()
		return makeErrorResult(http.StatusInternalServerError)
	} else if util.IsInvalidInputError(err) {
		logging.L(ctx).Warnf("Failed to scrape %q feed: %s.", s.feed.Name(), err)
		s.metrics.feedStatus.WithLabelValues(feedStatusInvalidInput).Inc()
		return makeScrapeResult(http.StatusBadRequest, "text/plain", []byte(err.Error()))
	} else if util.IsTemporaryError(err) {
		logging.L(ctx).Warnf("Failed to scrape %q feed: %s.", s.feed.Name(), err)
		s.metrics.feedStatus.WithLabelValues(feedStatusUnavailable).Inc()
		return makeErrorResult(http.StatusGatewayTimeout)
	} else if err != nil {
		logging.L(ctx).Errorf("Failed to scrape %q feed: %s.", s.feed.Name(), err)
		s.metrics.feedStatus.WithLabelValues(feedStatusError).Inc()
		return makeErrorResult(http.StatusBadGateway)
	}

	logging.L(ctx).Infof("%q feed scraped.", s.feed.Name())
	feed.Normalize()

	data, err := renderFeed(feed)
	if err != nil {
		logging.L(ctx).Errorf("Failed to render %q RSS feed: %s.", s.feed.Name(), err)
		s.metrics.feedStatus.WithLabelValues(feedStatusError).Inc()
		return makeErrorResult(http.StatusInternalServerError)
	}

	s.metrics.feedTime.SetToCurrentTime()
	s.metrics.feedStatus.WithLabelValues(feedStatusSuccess).Inc()
	return makeScrapeResult(http.StatusOK, rss.ContentType, data)
}

func renderFeed(feed *rss.Feed) ([]byte, error) {
	// A feed which violates the identification invariants is a bug in the
	// feed generator, not a runtime condition.
	if err := feed.Validate(); err != nil {
		return nil, err
	}
	return rss.Generate(feed)
}

type ScrapeResult struct {
	HTTPStatus  int
	ContentType string
	Data        []byte
}

func makeScrapeResult(status int, contentType string, data []byte) ScrapeResult {
	return ScrapeResult{
		HTTPStatus:  status,
		ContentType: contentType,
		Data:        data,
	}
}

func makeErrorResult(status int) ScrapeResult {
	return makeScrapeResult(status, "text/plain", []byte("Failed to generate the RSS feed"))
}

func (r ScrapeResult) Write(ctx context.Context, writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", r.ContentType)
	if r.HTTPStatus == http.StatusOK {
		// Upstream previews change rarely, so let clients and proxies
		// reuse the response instead of hammering the provider.
		writer.Header().Set("Cache-Control", "max-age=60, public")
	}
	writer.WriteHeader(r.HTTPStatus)

	if _, err := writer.Write(r.Data); err != nil {
		logging.L(ctx).Debugf("Failed to write the response: %s.", err)
	}
}
