package adapter

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnsureScheme prefixes links without a scheme with https://.
func EnsureScheme(link string) string {
	trimmed := strings.TrimSpace(link)
	switch {
	case trimmed == "":
		return ""
	case strings.Contains(trimmed, "://"), strings.HasPrefix(strings.ToLower(trimmed), "mailto:"):
		return trimmed
	case strings.HasPrefix(trimmed, "//"):
		return "https:" + trimmed
	default:
		return "https://" + trimmed
	}
}

// PlainText strips the inline markup of a bot reply for clients that cannot
// render HTML. Anchors become "label (url)" unless the label already is the url.
func PlainText(markup string) string {
	if !strings.Contains(markup, "<") {
		return markup
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	doc.Find("br").Remove()
	doc.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		label := strings.TrimSpace(anchor.Text())
		href := strings.TrimSpace(anchor.AttrOr("href", ""))

		text := label
		if href != "" && href != label {
			if label == "" {
				text = href
			} else {
				text = label + " (" + href + ")"
			}
		}
		anchor.ReplaceWithHtml(html.EscapeString(text))
	})

	return strings.TrimSpace(doc.Find("body").Text())
}
