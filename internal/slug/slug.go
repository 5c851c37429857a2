// Package slug derives and checks URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds derived slugs.
const MaxLength = 100

var (
	// Matches any run of characters outside the slug alphabet.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	valid           = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// foldMarks decomposes accented characters and drops the combining marks,
// so "Café" becomes "Cafe".
var foldMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts a title or name to a slug.
// "Hello, World!" -> "hello-world".
// "Crème Brûlée 101" -> "creme-brulee-101".
// Characters with no ASCII form are dropped; the result may be empty.
func Make(s string) string {
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		folded = s
	}

	folded = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '-'
		}
		return r
	}, folded)

	out := nonAlphanumeric.ReplaceAllString(strings.ToLower(folded), "-")
	out = strings.Trim(out, "-")

	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	return out
}

// Valid reports whether s is a well-formed slug: lowercase letters and
// digits in hyphen-separated groups.
func Valid(s string) bool {
	return valid.MatchString(s)
}
