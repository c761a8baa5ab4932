// Package telegram generates RSS feeds for public Telegram channels by
// scraping their web preview pages (https://t.me/s/<channel>).
//
// The provider gives no markup guarantees, so the extraction is tolerant:
// optional message elements degrade to empty values and unidentifiable
// message blocks are skipped. Channels with a protected or geo-restricted
// preview render an empty page which produces a valid empty feed — there is
// no way to tell such a page from a channel with no posts.
package telegram

import (
	"context"
	"fmt"
	"regexp"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/hleb-kastseika/tg-channel-to-rss/internal/util"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/feed"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/fetch"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/filter"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/parse"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/query"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

// Telegram redirects unknown clients to the application download page, so we
// introduce ourselves as a regular desktop browser.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

var providerURL = url.MustParse("https://t.me/")

// Channel names are Telegram usernames. Validating them before building the
// preview URL guarantees that a malicious name can't escape the /s/ path.
var channelNameRe = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

type Params struct {
	Channel string `in:"path=channel"`
}

type Feed struct {
	base        *url.URL
	blockedTags filter.Blacklist
}

var _ feed.Feed[Params] = &Feed{}

func NewFeed(opts ...Option) *Feed {
	feed := &Feed{base: providerURL}
	for _, opt := range opts {
		opt(feed)
	}
	return feed
}

type Option func(f *Feed)

// WithBlockedTags drops posts marked with any of the given hashtags.
func WithBlockedTags(tags ...string) Option {
	return func(f *Feed) {
		f.blockedTags = filter.MakeBlacklist(tags...)
	}
}

// WithBaseURL points the feed at a custom provider host. Tests use it to
// serve fixture pages from a local server.
func WithBaseURL(base *url.URL) Option {
	return func(f *Feed) {
		f.base = base
	}
}

func (f *Feed) Name() string {
	return "telegram"
}

func (f *Feed) Path() (string, bool) {
	return "{channel}.rss", true
}

func (f *Feed) Get(ctx context.Context, params Params) (*rss.Feed, error) {
	channel := params.Channel
	if !channelNameRe.MatchString(channel) {
		return nil, invalidChannelNameError{channel}
	}

	pageURL := f.base.JoinPath("s", channel)

	doc, err := fetch.HTML(ctx, pageURL, fetch.UserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	title := query.Text(doc.Find("title"))
	if title == "" {
		title = channel
	}

	feed := rss.NewFeed(title, pageURL)
	feed.Generator = "tg-channel-to-rss"

	if description, ok := metaProperty(doc, "og:description").Get(); ok {
		feed.Description = description
	} else {
		feed.Description = fmt.Sprintf("Posts from %s", title)
	}

	if image, ok := metaProperty(doc, "og:image").Get(); ok {
		feed.Image = &rss.Image{
			URL:   image,
			Title: feed.Title,
			Link:  feed.Link,
		}
	}

	// An empty page is an ordinary result: it's either an empty channel or
	// a channel whose preview is protected by the provider.
	if err := query.ForEach(doc.Find("div.tgme_widget_message_bubble"), func(bubble *goquery.Selection) error {
		message, err := parseMessage(ctx, bubble)
		if err != nil {
			logging.L(ctx).Debugf("Failed to parse a message:\n%s", query.HTMLOrError(bubble))
			return err
		}

		if message, ok := message.Get(); ok {
			feed.Items = append(feed.Items, message.item(channel))
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	feed.BlockCategories(f.blockedTags)

	// The feed time must not depend on the generation time: readers poll
	// the feed, and an unchanged page should produce an unchanged document.
	if newest := lo.MaxBy(feed.Items, func(a *rss.Item, b *rss.Item) bool {
		return a.Date.After(b.Date.Time)
	}); newest != nil {
		feed.Date = newest.Date
	}

	return feed, nil
}

func metaProperty(doc *goquery.Document, name string) mo.Option[string] {
	selector := fmt.Sprintf("meta[property=%q]", name)

	return query.Attr(doc.Find(selector), "content").Map(func(value string) (string, bool) {
		value = parse.TrimText(value)
		return value, value != ""
	})
}

type invalidChannelNameError struct {
	name string
}

var _ util.InvalidInput = invalidChannelNameError{}

func (e invalidChannelNameError) InvalidInput() bool {
	return true
}

func (e invalidChannelNameError) Error() string {
	return fmt.Sprintf("invalid channel name: %q", e.name)
}
