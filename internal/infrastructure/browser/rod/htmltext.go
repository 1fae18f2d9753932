package rod

import (
	"strings"

	"golang.org/x/net/html"
)

const maxPageTextChars = 1200

var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
	"head":     true,
	"title":    true,
	"template": true,
}

// VisibleText extracts the human-readable text from an HTML fragment,
// dropping script/style and other non-content subtrees, collapsing
// whitespace and truncating at limit. Unparseable input yields "".
func VisibleText(rawHTML string, limit int) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	out := b.String()
	if limit > 0 && len(out) > limit {
		out = strings.ToValidUTF8(out[:limit], "") + " ..."
	}
	return out
}
