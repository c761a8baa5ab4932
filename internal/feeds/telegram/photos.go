package telegram

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/query"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

// Photo attachments have no <img> tag: the image is drawn as a CSS background
// of the wrapping element.
var backgroundImageRe = regexp.MustCompile(`(?i)background-image:\s*url\(['"]?([^'")]+)['"]?\)`)

var emojiSrcMarkers = []string{"/emoji/", "/stickers/", "emoji-static", "emoji-animated"}

// getPhotos collects photo attachment and link preview image URLs of a
// message in document order. Emoji, reaction and sticker artwork isn't post
// content and is filtered out.
func getPhotos(bubble *goquery.Selection) []string {
	var photos []string

	add := func(link string) {
		// A malformed URL makes the photo unusable, but doesn't invalidate
		// the message itself.
		if photo, err := url.Get(providerURL, link); err == nil {
			photos = append(photos, photo.String())
		}
	}

	bubble.Find("[style]").Each(func(_ int, element *goquery.Selection) {
		match := backgroundImageRe.FindStringSubmatch(element.AttrOr("style", ""))
		if match != nil && !isEmojiOrReaction(element) {
			add(match[1])
		}
	})

	preview := bubble.Find("a.tgme_widget_message_link_preview img").First()
	if src, ok := query.Attr(preview, "src").Get(); ok && !isEmojiOrReaction(preview) {
		add(src)
	}

	bubble.Find("img[src]").Each(func(_ int, image *goquery.Selection) {
		if src, ok := query.Attr(image, "src").Get(); ok && !isEmojiOrReaction(image) {
			add(src)
		}
	})

	return lo.Uniq(photos)
}

func isEmojiOrReaction(element *goquery.Selection) bool {
	if element.ParentsFiltered(`[class*="tgme_widget_message_reactions"]`).Length() != 0 {
		return true
	}

	if class, ok := query.Attr(element, "class").Get(); ok && strings.Contains(class, "emoji") {
		return true
	}

	if src, ok := query.Attr(element, "src").Get(); ok {
		if lo.SomeBy(emojiSrcMarkers, func(marker string) bool { return strings.Contains(src, marker) }) {
			return true
		}
	}

	if style, ok := query.Attr(element, "style").Get(); ok {
		if strings.Contains(style, "emoji") || strings.Contains(style, "sticker") {
			return true
		}
	}

	return false
}
