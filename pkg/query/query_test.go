package query

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

func TestSelection(t *testing.T) {
	t.Parallel()

	doc := document(t, heredoc.Doc(`
		<div class="post">
			<a class="permalink" href="/channel/1">permalink</a>
			<time datetime="2024-01-01T12:00:00+00:00">12:00</time>
			<span class="tag">#news</span>
			<span class="tag">#golang</span>
		</div>`,
	))

	permalink, err := One(doc.Selection, "the permalink", "a.permalink")
	require.NoError(t, err)
	require.Equal(t, "/channel/1", Attr(permalink, "href").OrEmpty())
	require.True(t, Attr(permalink, "title").IsAbsent())

	_, err = One(doc.Selection, "the author", ".author")
	require.EqualError(t, err, "unable to find the author")

	_, err = One(doc.Selection, "the tag", ".tag")
	require.EqualError(t, err, `unable to find the tag: got 2 elements that match ".tag" selector`)

	time, ok, err := Optional(doc.Selection, "the time", "time")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "12:00", Text(time))

	_, ok, err = Optional(doc.Selection, "the author", ".author")
	require.NoError(t, err)
	require.False(t, ok)

	tags, err := Many(doc.Selection, "tags", ".tag")
	require.NoError(t, err)

	names, err := Map(tags, func(tag *goquery.Selection) (string, error) {
		return Text(tag), nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"#news", "#golang"}, names)
}

func TestDescription(t *testing.T) {
	t.Parallel()

	doc := document(t, heredoc.Doc(`
		<div class="body">See <a href="/channel/2">the post</a> and <img src="/photo.jpg"/>
		<script>alert(1)</script><a href="https://example.com/page">an external link</a></div>`,
	))

	description, err := Description(doc.Find(".body"), url.MustParse("https://t.me/"))
	require.NoError(t, err)

	require.Contains(t, description, `<a href="https://t.me/channel/2">the post</a>`)
	require.Contains(t, description, `<img src="https://t.me/photo.jpg"/>`)
	require.Contains(t, description, `<a href="https://example.com/page">an external link</a>`)
	require.NotContains(t, description, "script")
}

func document(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}
