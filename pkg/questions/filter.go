package questions

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// Filter keeps the questions whose title contains query, ignoring case. An
// empty query keeps every question. The input slice is not modified.
func Filter(qs []Question, query string) []Question {
	needle := strings.ToLower(query)
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if strings.Contains(strings.ToLower(q.Title), needle) {
			out = append(out, q)
		}
	}
	return out
}

// PlainText strips every tag from s and decodes entities.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// Excerpt returns the description as plain text, truncated to at most n
// runes with an ellipsis. n <= 0 disables truncation.
func Excerpt(q Question, n int) string {
	text := strings.Join(strings.Fields(PlainText(q.Description)), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimRight(string(runes[:n]), " ,.;:")
	return cut + "..."
}
