package xlsx

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/aerissecure/rfpconvert/workbook"
)

// addNamedStyle registers a cell style called name (optionally a built-in)
// and returns the cell format ID that applies it.
func addNamedStyle(ss spreadsheet.StyleSheet, name string, builtin *uint32) uint32 {
	x := ss.X()
	if x.CellStyleXfs == nil {
		x.CellStyleXfs = sml.NewCT_CellStyleXfs()
	}
	if x.CellXfs == nil {
		x.CellXfs = sml.NewCT_CellXfs()
	}
	if x.CellStyles == nil {
		x.CellStyles = sml.NewCT_CellStyles()
	}
	styleXf := uint32(len(x.CellStyleXfs.Xf))
	x.CellStyleXfs.Xf = append(x.CellStyleXfs.Xf, sml.NewCT_Xf())

	cs := sml.NewCT_CellStyle()
	cs.NameAttr = unioffice.String(name)
	cs.XfIdAttr = styleXf
	cs.BuiltinIdAttr = builtin
	x.CellStyles.CellStyle = append(x.CellStyles.CellStyle, cs)

	xf := sml.NewCT_Xf()
	xf.XfIdAttr = unioffice.Uint32(styleXf)
	id := uint32(len(x.CellXfs.Xf))
	x.CellXfs.Xf = append(x.CellXfs.Xf, xf)
	return id
}

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	wb := spreadsheet.New()
	wb.CoreProperties.SetTitle("Requirements")
	wb.CoreProperties.SetAuthor("QA")

	h1 := addNamedStyle(wb.StyleSheet, "Заголовок 1", nil)
	h2 := addNamedStyle(wb.StyleSheet, "Überschrift 2", unioffice.Uint32(0x11))

	first := wb.AddSheet()
	first.SetName("About")
	first.AddRow().AddCell().SetString("cover")

	sheet := wb.AddSheet()
	sheet.SetName("Reqs")
	hdr := sheet.AddRow()
	hdr.AddCell().SetString("Requirement")
	hdr.AddCell().SetString("Core")

	r := sheet.AddRow()
	c := r.AddCell()
	c.SetString("Section")
	c.X().SAttr = unioffice.Uint32(h1)
	r.AddCell().SetNumber(1)

	r = sheet.AddRow()
	c = r.AddCell()
	c.SetString("Subsection")
	c.X().SAttr = unioffice.Uint32(h2)
	r.AddCell().SetBool(true)

	r = sheet.AddRow()
	r.AddCell().SetString("merged")
	r.AddCell().SetString("hidden by merge")
	sheet.AddMergedCells("A4", "B4")

	r = sheet.AddRow()
	r.AddCell().SetString("broken")
	e := r.AddCell()
	e.X().TAttr = sml.ST_CellTypeE
	e.X().V = unioffice.String("#N/A")

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))
	return buf.Bytes()
}

func TestParseWorkbookModel(t *testing.T) {
	b := buildWorkbook(t)
	wb, err := ParseWorkbookModel(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	require.Equal(t, []string{"About", "Reqs"}, wb.SheetNames())
	assert.Equal(t, "Requirements", wb.Properties.Title)
	assert.Equal(t, "QA", wb.Properties.Author)

	s := wb.Sheets[1]
	tests := []struct {
		name     string
		row, col int
		want     workbook.Cell
	}{
		{"header", 0, 0, workbook.Cell{Kind: workbook.Text, Text: "Requirement"}},
		{"user style name", 1, 0, workbook.Cell{Kind: workbook.Text, Text: "Section", Style: "Заголовок 1"}},
		{"number", 1, 1, workbook.Cell{Kind: workbook.Number, Number: 1}},
		{"builtin style wins over translation", 2, 0, workbook.Cell{Kind: workbook.Text, Text: "Subsection", Style: "Heading 2"}},
		{"bool", 2, 1, workbook.Cell{Kind: workbook.Bool, Number: 1}},
		{"merge master", 3, 0, workbook.Cell{Kind: workbook.Text, Text: "merged"}},
		{"merge covered", 3, 1, workbook.Cell{}},
		{"error", 4, 1, workbook.Cell{Kind: workbook.Error, Text: "#N/A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Cell(tt.row, tt.col)
			assert.Equal(t, tt.want, got, "\n%s", SprintXML(got))
		})
	}
}

func TestParseWorkbookModelImplicitReferences(t *testing.T) {
	wb := spreadsheet.New()
	wb.AddSheet().SetName("About")
	sheet := wb.AddSheet()
	sheet.SetName("Reqs")
	for _, texts := range [][]string{{"Requirement", "Core"}, {"first", "x"}, {"second", "y"}} {
		r := sheet.AddRow()
		for _, text := range texts {
			r.AddCell().SetString(text)
		}
	}
	rows := sheet.X().SheetData.Row
	rows[1].RAttr = nil
	for _, c := range rows[1].C {
		c.RAttr = nil
	}
	rows[2].RAttr = unioffice.Uint32(5)
	rows[2].C[1].RAttr = nil

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))
	got, err := ParseWorkbookModel(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	s := got.Sheets[1]
	assert.Equal(t, 5, s.NumRows())
	assert.Equal(t, "first", s.Cell(1, 0).Text)
	assert.Equal(t, "x", s.Cell(1, 1).Text)
	assert.Equal(t, "second", s.Cell(4, 0).Text)
	assert.Equal(t, "y", s.Cell(4, 1).Text)
	assert.Equal(t, workbook.Cell{}, s.Cell(2, 0))
}

func TestStyleNameUnknownID(t *testing.T) {
	wb := spreadsheet.New()
	assert.Equal(t, "", StyleName(wb.StyleSheet, 999))
	assert.Nil(t, GetCellXf(wb.StyleSheet, 999))
}

func TestParseWorkbookModelNotZip(t *testing.T) {
	b := []byte("plain text")
	_, err := ParseWorkbookModel(bytes.NewReader(b), int64(len(b)))
	assert.Error(t, err)
}

func SprintXML(a any) string {
	var b strings.Builder
	enc := xml.NewEncoder(&b)
	enc.Indent("", "  ")
	enc.Encode(a)
	return b.String()
}
