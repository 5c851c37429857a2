package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Science   Fiction  ", "science-fiction"},
		{"Crème Brûlée 101", "creme-brulee-101"},
		{"Go/Rust & C++", "go-rust-c"},
		{"already-a-slug", "already-a-slug"},
		{"日本語", ""},
		{"Tokyo 東京 Guide", "tokyo-guide"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Make(tt.in)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.True(t, Valid(got))
			}
		})
	}
}

func TestMake_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := Make(long)
	assert.LessOrEqual(t, len(got), MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.True(t, Valid(got))
}

func TestValid(t *testing.T) {
	for _, s := range []string{"a", "go", "go-1", "2026-review"} {
		assert.True(t, Valid(s), s)
	}
	for _, s := range []string{"", "Go", "go_lang", "-go", "go-", "go--lang", "go lang", "café"} {
		assert.False(t, Valid(s), s)
	}
}
