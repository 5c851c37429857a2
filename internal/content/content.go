// Package content converts stored post bodies for export and previews.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// SummaryLength is the number of runes kept by Summary.
const SummaryLength = 200

// htmlTagPattern detects common block and inline tags.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|pre|code|img|table)[\s>/]`)

var (
	mdLink       = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdDecoration = regexp.MustCompile("(?m)^\\s{0,3}(#{1,6}\\s+|>\\s?|[-*+]\\s+|\\d+\\.\\s+)|[*_`~]+")
	whitespace   = regexp.MustCompile(`\s+`)
)

// ContainsHTML reports whether s appears to contain HTML markup.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// ToMarkdown converts HTML content to Markdown. Content without markup is
// returned trimmed but otherwise unchanged.
func ToMarkdown(s string) (string, error) {
	if !ContainsHTML(s) {
		return strings.TrimSpace(s), nil
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// PlainText strips markup and collapses whitespace.
func PlainText(s string) string {
	md, err := ToMarkdown(s)
	if err != nil {
		md = s
	}
	md = mdLink.ReplaceAllString(md, "$1")
	md = mdDecoration.ReplaceAllString(md, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(md, " "))
}

// Summary returns the first SummaryLength runes of the plain text, with an
// ellipsis when truncated.
func Summary(s string) string {
	text := PlainText(s)
	if utf8.RuneCountInString(text) <= SummaryLength {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:SummaryLength])) + "…"
}
