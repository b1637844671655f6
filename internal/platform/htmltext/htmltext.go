// Package htmltext reduces stored article HTML to plain text for excerpts and prompts.
package htmltext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

const ellipsis = "…"

var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"head":     {},
	"noscript": {},
	"template": {},
}

var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "ul": {}, "ol": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"section": {}, "article": {}, "blockquote": {}, "tr": {}, "table": {},
}

// Extract returns the visible text of the HTML fragment with whitespace collapsed to single spaces.
func Extract(fragment string) (string, error) {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(trimmed))
	if err != nil {
		return "", eris.Wrap(err, "parsing html content")
	}

	var builder strings.Builder
	collectText(&builder, doc)

	return strings.Join(strings.Fields(builder.String()), " "), nil
}

// Truncate shortens text to at most maxRunes runes, cutting at the last word
// boundary and appending an ellipsis when anything was removed.
func Truncate(text string, maxRunes int) string {
	text = strings.TrimSpace(text)
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes])

	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}

	cut = strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})

	return cut + ellipsis
}

func collectText(builder *strings.Builder, node *html.Node) {
	if node == nil {
		return
	}

	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		name := strings.ToLower(node.Data)
		if _, skip := skippedElements[name]; skip {
			return
		}
		if _, block := blockElements[name]; block {
			builder.WriteByte(' ')
			defer builder.WriteByte(' ')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(builder, child)
	}
}
