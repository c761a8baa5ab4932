package telegram

import (
	"context"
	"fmt"
	"html"
	"path"
	"strings"
	"time"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/parse"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/query"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/rss"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

type message struct {
	permalink *url.URL
	time      time.Time

	// bodyHTML is a minimal rendering of the post text (links and line
	// breaks only), contentHTML preserves the full provider markup.
	bodyHTML    string
	contentHTML string

	tags   []string
	photos []string
}

// parseMessage extracts a post from its message bubble. Bubbles which don't
// represent posts (service notices for example) produce None, and so do
// messages we aren't able to identify.
func parseMessage(ctx context.Context, bubble *goquery.Selection) (mo.Option[message], error) {
	none := mo.None[message]()

	dateLink, ok, err := query.Optional(bubble, "the message permalink", "a.tgme_widget_message_date")
	if err != nil || !ok {
		return none, err
	}

	href, ok := query.Attr(dateLink, "href").Get()
	if !ok {
		return none, nil
	}

	permalink, err := getPermalink(href)
	if err != nil {
		logging.L(ctx).Warnf("Got a message with an invalid permalink: %s. Skipping it.", err)
		return none, nil
	}

	timeTag, ok, err := query.Optional(bubble, "the publication time", "time.time")
	if err != nil {
		return none, err
	} else if !ok {
		return none, nil
	}

	datetime, ok := query.Attr(timeTag, "datetime").Get()
	if !ok {
		return none, nil
	}

	messageTime, err := parse.Time(datetime)
	if err != nil {
		logging.L(ctx).Warnf("%q message has an invalid publication time: %s. Skipping it.", permalink, err)
		return none, nil
	}

	msg := message{
		permalink: permalink,
		time:      messageTime,
		photos:    getPhotos(bubble),
	}

	// Reply quotes duplicate the text selector, so take the first match
	// only: it's always the message's own text.
	if body := bubble.Find("div.tgme_widget_message_text").First(); body.Length() != 0 {
		bodyHTML, err := renderBody(body)
		if err != nil {
			return none, err
		}

		if bodyHTML == "" {
			if text := query.Text(body); text != "" {
				bodyHTML = strings.TrimSuffix(parse.TextToHTML(text), "<br/>\n")
			}
		}
		if bodyHTML != "" {
			msg.bodyHTML = fmt.Sprintf("<p>%s</p>", bodyHTML)
		}

		contentHTML, err := query.Description(body, providerURL)
		if err != nil {
			return none, err
		}
		msg.contentHTML = strings.TrimSpace(contentHTML)

		msg.tags = getHashtags(body)
	}

	return mo.Some(msg), nil
}

func (m *message) item(channel string) *rss.Item {
	var media strings.Builder
	for _, photo := range m.photos {
		fmt.Fprintf(&media, `<p><img src="%s" referrerpolicy="no-referrer"/></p>`, html.EscapeString(photo))
	}

	description := m.bodyHTML + media.String()

	content := m.contentHTML + media.String()
	if content == "" {
		// Some post types (polls for example) have nothing we can render,
		// so at least point the reader at the original.
		content = m.permalink.String()
	}

	item := rss.NewItem(m.time, fmt.Sprintf("New post in channel @%s", channel), m.permalink, description)
	item.GUID = rss.MakeGUID(m.permalink.String(), true)
	item.Content = content
	item.Categories = m.tags

	if len(m.photos) != 0 {
		item.Enclosure = append(item.Enclosure, &rss.Enclosure{
			URL:  m.photos[0],
			Type: guessMIMEType(m.photos[0]),
		})
	}

	return item
}

// getPermalink converts a message date link into a canonical post permalink.
// Plain post URLs redirect logged out users to the application download page,
// so we point readers at the web preview instead.
func getPermalink(href string) (*url.URL, error) {
	permalink, err := url.Get(providerURL, href)
	if err != nil {
		return nil, err
	}

	if permalink.Host == providerURL.Host && !strings.HasPrefix(permalink.Path, "/s/") {
		permalink.Path = "/s" + permalink.Path
	}

	return permalink, nil
}

func getHashtags(body *goquery.Selection) []string {
	var tags []string

	body.Find("a").Each(func(_ int, link *goquery.Selection) {
		if text := query.Text(link); strings.HasPrefix(text, "#") && len(text) > 1 {
			tags = append(tags, strings.TrimPrefix(text, "#"))
		}
	})

	return lo.Uniq(tags)
}

func guessMIMEType(link string) string {
	// CDN links may carry size selection parameters in the query.
	link, _, _ = strings.Cut(link, "?")

	switch strings.ToLower(path.Ext(link)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
