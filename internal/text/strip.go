// Package text derives plain text from the html rendering of page content.
package text

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip removes every tag from markup and returns the decoded text content.
// Comments and doctypes are dropped, whitespace is kept as written.
func Strip(markup string) string {
	if markup == "" {
		return ""
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail, either way everything readable is collected
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

// StrippedOrNil returns nil for empty markup, otherwise the stripped text.
func StrippedOrNil(markup string) *string {
	if markup == "" {
		return nil
	}

	stripped := Strip(markup)
	return &stripped
}
