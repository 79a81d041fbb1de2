package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize prepares chunk text for pattern matching: compatibility forms
// are composed, full-width ASCII is folded to its narrow form (so "：" and
// "（" match the same patterns as ":" and "(") and runs of whitespace
// collapse to single spaces.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// RuneLen returns the number of runes in the normalized text
func RuneLen(s string) int {
	return len([]rune(Normalize(s)))
}
