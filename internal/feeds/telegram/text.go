package telegram

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/url"
)

// renderBody renders a message body as minimal safe HTML: inline links and
// line breaks are preserved, any other markup is unwrapped to its text.
func renderBody(body *goquery.Selection) (string, error) {
	var result strings.Builder

	for _, node := range body.Nodes {
		if err := renderChildren(&result, node); err != nil {
			return "", err
		}
	}

	return strings.TrimSpace(result.String()), nil
}

func renderChildren(result *strings.Builder, parent *html.Node) error {
	for node := parent.FirstChild; node != nil; node = node.NextSibling {
		if err := renderNode(result, node); err != nil {
			return err
		}
	}
	return nil
}

func renderNode(result *strings.Builder, node *html.Node) error {
	switch node.Type {
	case html.TextNode:
		result.WriteString(html.EscapeString(node.Data))
		return nil

	case html.ElementNode:
		switch node.Data {
		case "a":
			return renderLink(result, node)
		case "br":
			result.WriteString("<br/>")
			return nil
		case "script", "style":
			return nil
		default:
			return renderChildren(result, node)
		}

	default:
		return nil
	}
}

func renderLink(result *strings.Builder, node *html.Node) error {
	var href string
	for _, attr := range node.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}

	if href == "" {
		return renderChildren(result, node)
	}

	link, err := url.Get(providerURL, href)
	if err != nil {
		return fmt.Errorf("the message body contains an invalid link: %w", err)
	}

	fmt.Fprintf(result, `<a href="%s" rel="noopener" target="_blank">`, html.EscapeString(link.String()))
	if err := renderChildren(result, node); err != nil {
		return err
	}
	result.WriteString("</a>")

	return nil
}
