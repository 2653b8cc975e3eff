// Package workbook holds the format-neutral intermediate representation that
// the xls and xlsx readers produce and the conversion engine consumes.
package workbook

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind is the type of the value stored in a cell.
type CellKind int

const (
	Empty CellKind = iota
	Text
	Number
	Bool
	Error
)

func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Text:
		return "text"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Error:
		return "error"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Cell is the IR for a single cell.
type Cell struct {
	Kind   CellKind
	Text   string  // Text cells, also the error name for Error cells
	Number float64 // Number cells, 1/0 for Bool cells
	Style  string  // resolved named cell style, e.g. "Heading 1"; empty if unknown
}

// Value returns the cell value the way a user would read it in the sheet.
func (c Cell) Value() string {
	switch c.Kind {
	case Text, Error:
		return c.Text
	case Number:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case Bool:
		if c.Number != 0 {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}

func (c Cell) String() string {
	return fmt.Sprintf("Kind: %s, Value: %q, Style: %q", c.Kind, c.Value(), c.Style)
}

// Sheet is the intermediate representation of a worksheet. Rows are dense from
// row 0; a row slice may be shorter than the widest row of the sheet.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// Cell returns the cell at the zero-based row and column, or an empty cell
// when the position lies outside the stored data.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return Cell{}
	}
	return s.Rows[row][col]
}

// NumRows returns the number of rows including the header row.
func (s *Sheet) NumRows() int { return len(s.Rows) }

// NumCols returns the width of the widest row.
func (s *Sheet) NumCols() int {
	n := 0
	for _, r := range s.Rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// Set stores c at row, col, growing the sheet as needed. Negative positions
// are ignored.
func (s *Sheet) Set(row, col int, c Cell) {
	if row < 0 || col < 0 {
		return
	}
	for len(s.Rows) <= row {
		s.Rows = append(s.Rows, nil)
	}
	r := s.Rows[row]
	if len(r) <= col {
		r = append(r, make([]Cell, col-len(r)+1)...)
	}
	r[col] = c
	s.Rows[row] = r
}

func (s *Sheet) String() string {
	return fmt.Sprintf("Name: %s, Rows: %d, Cols: %d", s.Name, s.NumRows(), s.NumCols())
}

// Properties carries the document summary of the source file, as far as the
// format stores one.
type Properties struct {
	Title    string
	Subject  string
	Author   string
	Keywords string
	Comments string
}

func (p Properties) String() string {
	return fmt.Sprintf("Title: %q, Subject: %q, Author: %q, Keywords: %q, Comments: %q",
		p.Title, p.Subject, p.Author, p.Keywords, p.Comments)
}

// Workbook is the top-level IR containing all sheets in workbook order.
type Workbook struct {
	Path       string
	Sheets     []*Sheet
	Properties Properties
}

// SheetNames returns the names of all sheets in order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

func (w *Workbook) String() string {
	return fmt.Sprintf("Path: %s, Sheets: [%s], Properties: [%s]",
		w.Path, strings.Join(w.SheetNames(), ", "), w.Properties.String())
}
