package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/rfpconvert/workbook"
)

func TestReadCriteria(t *testing.T) {
	sh := newSheet("S", []string{" A ", "B", "", "C"})
	m, err := ReadCriteria(sh)
	require.NoError(t, err)
	assert.Equal(t, CriteriaMap{"A": 2, "B": 3}, m, "scanning stops at the first empty header")
	assert.Equal(t, []string{"A", "B"}, m.Names())

	m, err = ReadCriteria(newSheet("S", nil))
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestReadCriteriaDuplicate(t *testing.T) {
	_, err := ReadCriteria(newSheet("S", []string{"A", "A "}))
	var de *DuplicateCriterionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "A", de.Name)
	assert.Contains(t, err.Error(), `sheet "S"`)
}

func TestFilterKeep(t *testing.T) {
	criteria := CriteriaMap{"A": 2, "B": 3}
	sh := newSheet("S", []string{"A", "B"},
		req(txt("r1"), txt("x")),
		req(txt("r2"), txt(""), txt("y")),
		req(txt("r3"), num(1)),
		req(txt("r4"), num(0), txt("y")),
		req(txt("r5"), workbook.Cell{Kind: workbook.Bool, Number: 1}),
		req(txt("r6"), txt("  ")),
		req(txt("r7")),
	)
	tests := []struct {
		name     string
		selected []string
		want     []bool // rows 1..7
	}{
		{"no selection keeps all", nil, []bool{true, true, true, true, true, true, true}},
		{"A", []string{"A"}, []bool{true, false, true, false, true, false, false}},
		{"B", []string{"B"}, []bool{false, true, false, true, false, false, false}},
		{"A or B", []string{"A", "B"}, []bool{true, true, true, true, true, false, false}},
		{"unknown ignored", []string{"Z", "A"}, []bool{true, false, true, false, true, false, false}},
		{"only unknown", []string{"Z"}, []bool{false, false, false, false, false, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.selected, sh, criteria)
			for i, want := range tt.want {
				got, err := f.Keep(i + 1)
				require.NoError(t, err)
				assert.Equal(t, want, got, "row %d", i+1)
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	sh := newSheet("S", []string{"A"})
	criteria := CriteriaMap{"A": 2}
	assert.True(t, NewFilter(nil, sh, criteria).Matches())
	assert.True(t, NewFilter([]string{"Z", "A"}, sh, criteria).Matches())
	assert.False(t, NewFilter([]string{"Z"}, sh, criteria).Matches())
}

func TestFilterUnsupportedCell(t *testing.T) {
	sh := newSheet("S", []string{"A"}, req(txt("r"), workbook.Cell{Kind: workbook.Error, Text: "#REF!"}))
	_, err := NewFilter([]string{"A"}, sh, CriteriaMap{"A": 2}).Keep(1)
	var ue *UnsupportedCellTypeError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "#REF!", ue.Value)
	assert.Contains(t, err.Error(), "line 2")
}
