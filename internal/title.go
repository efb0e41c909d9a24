package internal

import "strings"

const (
	titleMaxWords = 6
	titleEllipsis = "..."
)

// DeriveTitle builds a chat title from its first user message: the first six
// whitespace-separated words, with an ellipsis if any were cut.
func DeriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) <= titleMaxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleMaxWords], " ") + titleEllipsis
}
