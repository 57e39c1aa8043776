package content

import (
	"slices"
	"strings"
	"unicode"
)

// ExcerptRadius is the number of runes kept on each side of a match.
const ExcerptRadius = 50

const ellipsis = "..."

// matchExcerpt finds the first case-insensitive occurrence of query in text and
// returns the surrounding excerpt. Matching works on runes so multi-byte scripts
// are never cut mid-character.
func matchExcerpt(text, query string) (string, bool) {
	haystack := []rune(text)
	needle := foldRunes([]rune(query))
	if len(needle) == 0 || len(needle) > len(haystack) {
		return "", false
	}
	folded := foldRunes(haystack)

	index := -1
	for i := 0; i+len(needle) <= len(folded); i++ {
		if slices.Equal(folded[i:i+len(needle)], needle) {
			index = i
			break
		}
	}
	if index < 0 {
		return "", false
	}

	start := max(index-ExcerptRadius, 0)
	end := min(index+len(needle)+ExcerptRadius, len(haystack))

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(haystack[start:end]))
	if end < len(haystack) {
		b.WriteString(ellipsis)
	}
	return b.String(), true
}

func foldRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}

