package convert

import (
	"strconv"
	"strings"
)

// MaxDepth is the number of numbering levels: four heading levels, one item
// level below the deepest heading and two marker levels, plus one spare.
const MaxDepth = 8

// State holds one counter per numbering level.
type State [MaxDepth]int

// Advance returns the state after numbering an entry at level and the entry's
// dotted index. Level 0 is unnumbered and leaves the state unchanged. Levels
// past MaxDepth are clamped to it.
func Advance(s State, level int) (State, string) {
	if level <= 0 {
		return s, ""
	}
	level = min(level, MaxDepth)
	s[level-1]++
	for i := level; i < MaxDepth; i++ {
		s[i] = 0
	}
	parts := make([]string, level)
	for i := range parts {
		parts[i] = strconv.Itoa(s[i])
	}
	return s, strings.Join(parts, ".")
}

// Numbering assigns hierarchical indexes to the headings and items of one run.
// Items nest one level below the most recent heading.
type Numbering struct {
	state        State
	headingDepth int
}

// Heading numbers a heading of the given level (0 for "Heading 1").
func (n *Numbering) Heading(level int) string {
	n.headingDepth = level + 1
	var idx string
	n.state, idx = Advance(n.state, n.headingDepth)
	return idx
}

// Item numbers a list item of the given marker depth.
func (n *Numbering) Item(depth int) string {
	var idx string
	n.state, idx = Advance(n.state, n.headingDepth+1+depth)
	return idx
}

// State returns a copy of the counters.
func (n *Numbering) State() State { return n.state }
