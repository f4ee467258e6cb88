package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Tags that terminate a visual line. Rows and block containers become
// newlines so the downstream line-oriented matchers see one field per line.
var blockTags = map[string]bool{
	"br": true, "p": true, "tr": true, "div": true, "li": true,
	"table": true, "h1": true, "h2": true, "h3": true, "h4": true,
}

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{2,}`)
)

// FlattenHTML renders an HTML fragment to plain text: block-level tags become
// newlines, all other tags are dropped, and entities are decoded by the
// parser. Falls back to a crude tag strip when parsing fails. Callers with an
// HTML-only message run detection over this text.
func FlattenHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return stripTags(fragment)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if blockTags[n.Data] {
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			if blockTags[n.Data] {
				b.WriteString("\n")
			} else if n.Data == "td" || n.Data == "th" {
				// Cells on the same row stay on one line, separated.
				b.WriteString(" ")
			}
		}
	}
	walk(doc)

	return tidyText(b.String())
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags is the lossy fallback for unparseable fragments.
func stripTags(fragment string) string {
	text := regexp.MustCompile(`(?i)<(br|p|tr|div|li)[^>]*>`).ReplaceAllString(fragment, "\n")
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&#36;", "$", "&lt;", "<", "&gt;", ">").Replace(text)
	return tidyText(text)
}

// tidyText collapses whitespace runs and trims each line.
func tidyText(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = spaceRun.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(newlineRun.ReplaceAllString(text, "\n"))
}
