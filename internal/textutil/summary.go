// Package textutil holds the text shortening used by list views.
package textutil

import "strings"

const Ellipsis = "..."

// Summarize keeps the first limit whitespace-separated words of text and
// appends an ellipsis when anything was cut. A non-positive limit disables it.
func Summarize(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ") + Ellipsis
}

// Truncate keeps the first limit runes of text, appending an ellipsis when cut.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + Ellipsis
}
