package query

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/parse"
)

func Text(selection *goquery.Selection) string {
	return parse.TrimText(selection.Text())
}
