package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown("<h2>Intro</h2><p>Hello <strong>world</strong></p>")
	require.NoError(t, err)
	assert.Contains(t, md, "## Intro")
	assert.Contains(t, md, "**world**")
}

func TestToMarkdown_PlainPassthrough(t *testing.T) {
	md, err := ToMarkdown("  just text  ")
	require.NoError(t, err)
	assert.Equal(t, "just text", md)
}

func TestPlainText(t *testing.T) {
	got := PlainText(`<h1>Title</h1><p>Read <a href="https://example.com">the docs</a> and <em>enjoy</em>.</p>`)
	assert.Equal(t, "Title Read the docs and enjoy.", got)
}

func TestSummary(t *testing.T) {
	short := "<p>Short post.</p>"
	assert.Equal(t, "Short post.", Summary(short))

	long := "<p>" + strings.Repeat("é", 250) + "</p>"
	got := Summary(long)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, SummaryLength+1, utf8.RuneCountInString(got))
}

func TestContainsHTML(t *testing.T) {
	assert.True(t, ContainsHTML("<P>x</P>"))
	assert.False(t, ContainsHTML("a < b > c"))
}
