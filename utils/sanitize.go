package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripAll = bluemonday.StrictPolicy()

// CleanText trims surrounding whitespace. Text is stored as typed and escaped only when rendered.
func CleanText(input string) string {
	return strings.TrimSpace(input)
}

// Blank reports whether input has no visible content once all markup is stripped,
// so "<script>...</script>" counts as empty. The stripped text is never stored.
func Blank(input string) bool {
	return strings.TrimSpace(stripAll.Sanitize(input)) == ""
}
