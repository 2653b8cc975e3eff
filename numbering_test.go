package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberingHeadings(t *testing.T) {
	var n Numbering
	var got []string
	for _, level := range []int{0, 1, 0, 1, 2, 0} {
		got = append(got, n.Heading(level))
	}
	assert.Equal(t, []string{"1", "1.1", "2", "2.1", "2.1.1", "3"}, got)
}

func TestNumberingItems(t *testing.T) {
	var n Numbering
	assert.Equal(t, "1", n.Item(0), "items before any heading start at the top level")
	assert.Equal(t, "1.1", n.Item(1))
	assert.Equal(t, "2", n.Heading(0))
	assert.Equal(t, "2.1", n.Item(0))
	assert.Equal(t, "2.1.1", n.Item(1))
	assert.Equal(t, "2.1.1.1", n.Item(2))
	assert.Equal(t, "2.2", n.Item(0))
	assert.Equal(t, "2.3", n.Heading(1))
	assert.Equal(t, "2.3.1", n.Item(0))
	assert.Equal(t, "3", n.Heading(0))
	assert.Equal(t, "3.1", n.Item(0))
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name  string
		state State
		level int
		want  State
		index string
	}{
		{name: "top level is unnumbered", state: State{3, 1}, level: 0, want: State{3, 1}, index: ""},
		{name: "first entry", level: 1, want: State{1}, index: "1"},
		{name: "deeper", state: State{2}, level: 3, want: State{2, 0, 1}, index: "2.0.1"},
		{name: "reset on ascent", state: State{1, 4, 2, 7}, level: 2, want: State{1, 5}, index: "1.5"},
		{name: "clamped", state: State{1, 1, 1, 1, 1, 1, 1, 1}, level: 12, want: State{1, 1, 1, 1, 1, 1, 1, 2}, index: "1.1.1.1.1.1.1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.state
			got, index := Advance(tt.state, tt.level)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, before, tt.state, "Advance must not mutate its input")
		})
	}
}
