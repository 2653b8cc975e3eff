package convert

import (
	"strings"

	"github.com/aerissecure/rfpconvert/workbook"
)

// Sheet layout: column 0 is reserved, column 1 holds the requirement text and
// criteria columns start at column 2 of the header row.
const (
	TextColumn     = 1
	CriteriaColumn = 2
)

// CriteriaMap maps a criterion name to its zero-based column.
type CriteriaMap map[string]int

// Names returns the criterion names in column order.
func (m CriteriaMap) Names() []string {
	names := make([]string, len(m))
	for name, col := range m {
		names[col-CriteriaColumn] = name
	}
	return names
}

// ReadCriteria scans the header row of sh from CriteriaColumn up to the first
// empty header cell.
func ReadCriteria(sh *workbook.Sheet) (CriteriaMap, error) {
	m := make(CriteriaMap)
	for col := CriteriaColumn; col < sh.NumCols(); col++ {
		name := strings.TrimSpace(sh.Cell(0, col).Value())
		if name == "" {
			break
		}
		if first, ok := m[name]; ok {
			return nil, &DuplicateCriterionError{Sheet: sh.Name, Name: name, First: first, Second: col}
		}
		m[name] = col
	}
	return m, nil
}

// Filter decides which rows of a sheet are kept for a set of selected criteria.
type Filter struct {
	selected []string
	sheet    *workbook.Sheet
	criteria CriteriaMap
}

// NewFilter builds the filter for sh. An empty selection keeps every row.
func NewFilter(selected []string, sh *workbook.Sheet, criteria CriteriaMap) *Filter {
	return &Filter{selected: selected, sheet: sh, criteria: criteria}
}

// Matches reports whether any selected criterion is a column of the sheet.
// A non-empty selection without matches skips every row.
func (f *Filter) Matches() bool {
	if len(f.selected) == 0 {
		return true
	}
	for _, name := range f.selected {
		if _, ok := f.criteria[name]; ok {
			return true
		}
	}
	return false
}

// Keep reports whether the zero-based row is kept.
func (f *Filter) Keep(row int) (bool, error) {
	if len(f.selected) == 0 {
		return true, nil
	}
	for _, name := range f.selected {
		col, ok := f.criteria[name]
		if !ok {
			continue
		}
		c := f.sheet.Cell(row, col)
		on, ok := checked(c)
		if !ok {
			return false, &UnsupportedCellTypeError{Sheet: f.sheet.Name, Line: row + 1, Column: col, Value: c.Value()}
		}
		if on {
			return true, nil
		}
	}
	return false, nil
}

// checked evaluates a criterion cell; ok is false for kinds that cannot hold
// a checkmark.
func checked(c workbook.Cell) (on, ok bool) {
	switch c.Kind {
	case workbook.Text:
		return strings.TrimSpace(c.Text) != "", true
	case workbook.Number, workbook.Bool:
		return c.Number != 0, true
	case workbook.Empty:
		return false, true
	}
	return false, false
}
