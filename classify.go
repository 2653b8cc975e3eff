package convert

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// headingStyles maps the named cell styles recognized as headings to their level.
var headingStyles = map[string]int{
	"Heading 1":   0,
	"Heading 2":   1,
	"Heading 3":   2,
	"Heading 4":   3,
	"Заголовок 1": 0,
	"Заголовок 2": 1,
	"Заголовок 3": 2,
	"Заголовок 4": 3,
}

// HeadingLevel returns the heading level for a cell style name, or false for
// plain rows.
func HeadingLevel(style string) (int, bool) {
	level, ok := headingStyles[style]
	return level, ok
}

// MaxItemDepth is the deepest list nesting a marker prefix can produce.
const MaxItemDepth = 2

func isMarker(r rune) bool {
	return r == '-' || r == '—' || r == '–'
}

// ParseMarker strips up to MaxItemDepth leading list markers (hyphen, em or
// en dash) from trimmed text and returns the remaining text and the number of
// markers stripped. Whitespace after each marker is dropped.
func ParseMarker(text string) (string, int) {
	depth := 0
	for depth < MaxItemDepth {
		r, size := utf8.DecodeRuneInString(text)
		if !isMarker(r) {
			break
		}
		text = strings.TrimLeftFunc(text[size:], unicode.IsSpace)
		depth++
	}
	return strings.TrimRightFunc(text, unicode.IsSpace), depth
}
