package docx

import (
	"fmt"
	"time"
)

// Intermediate representation (IR) of a generated DOCX document, as far as
// inspecting the output of the emitters needs it.

// DocProperties captures the core document properties.
type DocProperties struct {
	Title    string
	Author   string
	Created  time.Time
	Modified time.Time
}

func (p DocProperties) String() string {
	return fmt.Sprintf("Title: %q, Author: %q, Created: %s, Modified: %s",
		p.Title, p.Author, p.Created.Format(time.RFC3339), p.Modified.Format(time.RFC3339))
}

// RunStyle captures the character formatting checked on runs.
type RunStyle struct {
	FontSizePt float64 // 0 when inherited
	FontColor  string  // "RRGGBB", empty when inherited
}

func (s RunStyle) String() string {
	return fmt.Sprintf("FontSizePt: %g, FontColor: %s", s.FontSizePt, s.FontColor)
}

// RenderRun represents a single run (\<w:r>) within a paragraph.
type RenderRun struct {
	Text  string
	Style RunStyle
}

func (r RenderRun) String() string {
	return fmt.Sprintf("Text: %q, Style: [%s]", r.Text, r.Style.String())
}

// ParagraphStyle captures paragraph-level formatting.
type ParagraphStyle struct {
	StyleID      string // e.g. "Heading2", "ListBullet2"
	HeadingLevel int    // 0 means normal paragraph, 1-9 for HeadingN styles
	ListLevel    int    // numbering level, -1 when the paragraph is not numbered
}

func (s ParagraphStyle) String() string {
	return fmt.Sprintf("StyleID: %s, HeadingLevel: %d, ListLevel: %d", s.StyleID, s.HeadingLevel, s.ListLevel)
}

// RenderParagraph is the IR for a paragraph.
type RenderParagraph struct {
	Runs  []RenderRun
	Style ParagraphStyle
}

// Text returns the concatenated text of all runs.
func (p RenderParagraph) Text() string {
	var s string
	for _, r := range p.Runs {
		s += r.Text
	}
	return s
}

func (p RenderParagraph) String() string {
	return fmt.Sprintf("Runs: %d, Text: %q, Style: [%s]", len(p.Runs), p.Text(), p.Style.String())
}

// CellBorders holds the border type of the top and bottom edges ("single",
// "double"), empty when unset.
type CellBorders struct {
	Top, Bottom string
}

// RenderTableCell is the IR for a single table cell. It can contain multiple
// paragraphs.
type RenderTableCell struct {
	Paragraphs []RenderParagraph
	ColSpan    int // 1 if not horizontally merged
	Borders    CellBorders
}

// Text returns the paragraphs' text joined by newlines.
func (c RenderTableCell) Text() string {
	var s string
	for i, p := range c.Paragraphs {
		if i > 0 {
			s += "\n"
		}
		s += p.Text()
	}
	return s
}

func (c RenderTableCell) String() string {
	return fmt.Sprintf("Paragraphs: %d, ColSpan: %d, Borders: %+v", len(c.Paragraphs), c.ColSpan, c.Borders)
}

// RenderTableRow represents a row within a table.
type RenderTableRow struct {
	Cells  []RenderTableCell
	Header bool // repeated at the top of each page
}

func (r RenderTableRow) String() string {
	return fmt.Sprintf("Cells: %d, Header: %t", len(r.Cells), r.Header)
}

// RenderTable is the IR for a table, rows in order.
type RenderTable struct {
	Rows    []RenderTableRow
	Borders CellBorders // table-wide borders
}

func (t RenderTable) String() string {
	return fmt.Sprintf("Rows: %d, Borders: %+v", len(t.Rows), t.Borders)
}

// DocumentBlock represents a top-level block element in the DOCX body, either
// a paragraph or a table. Exactly one of Paragraph/Table will be non-nil.
type DocumentBlock struct {
	Paragraph *RenderParagraph
	Table     *RenderTable
}

// DocumentModel is the top-level IR of a document.
type DocumentModel struct {
	Properties DocProperties
	Blocks     []DocumentBlock
	Paragraphs []RenderParagraph
	Tables     []RenderTable
}

func (d DocumentModel) String() string {
	return fmt.Sprintf("Blocks: %d, Paragraphs: %d, Tables: %d, Properties: [%s]", len(d.Blocks), len(d.Paragraphs), len(d.Tables), d.Properties.String())
}
