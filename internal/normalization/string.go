package normalization

import (
	"strings"
	"unicode"
)

// Name canonicalizes a restaurant or curator name for comparison:
// lowercase, punctuation stripped, runs of whitespace collapsed.
func Name(input string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))
	var b strings.Builder
	b.Grow(len(lowered))
	lastSpace := false
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// punctuation and symbols are dropped
		}
	}
	return strings.TrimSpace(b.String())
}

// Field trims surrounding whitespace; used when comparing free-text
// fields such as descriptions where case is significant.
func Field(input string) string {
	return strings.TrimSpace(input)
}
