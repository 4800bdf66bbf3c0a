package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain text", "  hello   world ", "hello world"},
		{"Paragraphs", "<p>Hello</p><p>World</p>", "Hello World"},
		{"Entities", "Fish &amp; Chips", "Fish & Chips"},
		{"Script dropped", "<p>Body</p><script>alert(1)</script>", "Body"},
		{"Style dropped", "<style>p{color:red}</style>Text", "Text"},
		{"Inline tags", "a<b>bold</b>b<br/>c", "a bold b c"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.input))
		})
	}
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a b", JoinNonEmpty(" ", "a", "", "  ", "b"))
	assert.Equal(t, "", JoinNonEmpty(" "))
	assert.Equal(t, "x, y", JoinNonEmpty(", ", " x ", "y"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "héé", Truncate("héééé", 3))
	assert.Equal(t, "", Truncate("hello", 0))
}
