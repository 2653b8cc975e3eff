package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMarker(t *testing.T) {
	tests := []struct {
		in    string
		text  string
		depth int
	}{
		{"- Foo", "Foo", 1},
		{"— — Bar", "Bar", 2},
		{"Plain text", "Plain text", 0},
		{"- - - Baz", "- Baz", 2},
		{"–Qux", "Qux", 1},
		{"--deep", "deep", 2},
		{"-\tTabbed", "Tabbed", 1},
		{"Pre-paid", "Pre-paid", 0},
		{"—", "", 1},
		{"- -", "", 2},
		{"", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			text, depth := ParseMarker(tt.in)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.depth, depth)
		})
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		level int
		ok    bool
	}{
		{"Heading 1", 0, true},
		{"Heading 4", 3, true},
		{"Заголовок 2", 1, true},
		{"Заголовок 3", 2, true},
		{"Heading 5", 0, false},
		{"Title", 0, false},
		{"heading 1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		level, ok := HeadingLevel(tt.style)
		assert.Equal(t, tt.ok, ok, tt.style)
		assert.Equal(t, tt.level, level, tt.style)
	}
}
