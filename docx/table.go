package docx

import (
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"

	convert "github.com/aerissecure/rfpconvert"
)

// Column widths of the requirement tables: index, requirement, yes/no.
var columnWidths = [3]measurement.Distance{
	16 * measurement.Millimeter,
	120 * measurement.Millimeter,
	12 * measurement.Millimeter,
}

var headerTexts = [3]string{"№ пп", "Требование", "Да/Нет"}

// Bullet styles for requirement text inside table cells, by item depth.
var cellListStyles = [...]string{"", "ListBullet", "ListBullet2"}

const borderWidth = 0.5 * measurement.Point

// Table renders a three column requirement table with the header repeated on
// every page. Headings span the full table width.
type Table struct {
	out output
	tbl document.Table
}

// NewTable returns a Table emitter writing to path.
func NewTable(path string, opts ...Option) *Table {
	return &Table{out: newOutput(path, opts)}
}

func (t *Table) SetDocumentInfo(info convert.DocumentInfo) { t.out.info = info }

func (t *Table) Prefix() error {
	t.tbl = addRequirementTable(t.out.doc)
	for _, c := range addHeaderRow(t.tbl) {
		singleBorder(c)
	}
	return nil
}

func (t *Table) Heading(h convert.HeadingEvent) error {
	row := t.tbl.AddRow()
	c := row.AddCell()
	c.Properties().SetColumnSpan(len(columnWidths))
	p := c.AddParagraph()
	p.SetStyle(headingStyle(t.out.doc, h.Level))
	p.AddRun().AddText(h.Index + "  " + h.Text)
	return nil
}

func (t *Table) Item(it convert.RequirementItem) error {
	addItemRow(t.out.doc, t.tbl, it)
	return nil
}

func (t *Table) Finalize() error { return t.out.finalize() }

// PlainTable renders the same three column table as Table with a full grid
// and headings on ordinary rows, index and text in separate cells.
type PlainTable struct {
	out output
	tbl document.Table
}

// NewPlainTable returns a PlainTable emitter writing to path.
func NewPlainTable(path string, opts ...Option) *PlainTable {
	return &PlainTable{out: newOutput(path, opts)}
}

func (t *PlainTable) SetDocumentInfo(info convert.DocumentInfo) { t.out.info = info }

func (t *PlainTable) Prefix() error {
	t.tbl = addRequirementTable(t.out.doc)
	t.tbl.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, borderWidth)
	for _, c := range addHeaderRow(t.tbl) {
		headBorder(c)
	}
	return nil
}

func (t *PlainTable) Heading(h convert.HeadingEvent) error {
	cells := addRow(t.tbl)
	textCell(cells[0], h.Index)
	textCell(cells[1], h.Text)
	textCell(cells[2], "")
	return nil
}

func (t *PlainTable) Item(it convert.RequirementItem) error {
	addItemRow(t.out.doc, t.tbl, it)
	return nil
}

func (t *PlainTable) Finalize() error { return t.out.finalize() }

func addRequirementTable(doc *document.Document) document.Table {
	tbl := doc.AddTable()
	tbl.Properties().SetLayout(wml.ST_TblLayoutTypeFixed)
	var total measurement.Distance
	for _, w := range columnWidths {
		total += w
	}
	tbl.Properties().SetWidth(total)
	return tbl
}

// addRow appends a row with one cell per column, widths set.
func addRow(tbl document.Table) [3]document.Cell {
	row := tbl.AddRow()
	var cells [3]document.Cell
	for i, w := range columnWidths {
		cells[i] = row.AddCell()
		cells[i].Properties().SetWidth(w)
	}
	return cells
}

// addHeaderRow appends the column titles as a row repeated on each page.
func addHeaderRow(tbl document.Table) [3]document.Cell {
	cells := addRow(tbl)
	rows := tbl.Rows()
	setRepeatHeader(rows[len(rows)-1])
	for i, c := range cells {
		textCell(c, headerTexts[i])
	}
	return cells
}

func addItemRow(doc *document.Document, tbl document.Table, it convert.RequirementItem) {
	cells := addRow(tbl)
	textCell(cells[0], it.Index)
	p := cells[1].AddParagraph()
	if depth := min(max(it.Depth, 0), len(cellListStyles)-1); depth > 0 {
		ensureStyle(doc, cellListStyles[depth], listStyleName(depth), 0, false)
		p.SetStyle(cellListStyles[depth])
	}
	p.AddRun().AddText(it.Text)
	singleBorder(cells[2])
	textCell(cells[2], " ")
}

func listStyleName(depth int) string {
	if depth == 1 {
		return "List Bullet"
	}
	return "List Bullet 2"
}

func textCell(c document.Cell, text string) {
	c.AddParagraph().AddRun().AddText(text)
}

func setRepeatHeader(row document.Row) {
	x := row.X()
	if x.TrPr == nil {
		x.TrPr = wml.NewCT_TrPr()
	}
	x.TrPr.TblHeader = []*wml.CT_OnOff{wml.NewCT_OnOff()}
}

func singleBorder(c document.Cell) {
	b := c.Properties().Borders()
	b.SetTop(wml.ST_BorderSingle, color.Auto, borderWidth)
	b.SetBottom(wml.ST_BorderSingle, color.Auto, borderWidth)
	b.SetLeft(wml.ST_BorderSingle, color.Auto, borderWidth)
	b.SetRight(wml.ST_BorderSingle, color.Auto, borderWidth)
}

func headBorder(c document.Cell) {
	singleBorder(c)
	c.Properties().Borders().SetBottom(wml.ST_BorderDouble, color.Auto, 2*borderWidth)
}
