package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSeparators   = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts s to a lowercase ASCII slug. Accents are folded into their
// base letters, other non-ASCII characters are dropped, and runs of whitespace
// or hyphens become a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)

	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(ascii), "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-_")
}
