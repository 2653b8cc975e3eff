// Package testbook writes small xlsx requirement workbooks for tests.
package testbook

import (
	"bytes"
	"os"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

// Row is one requirement row. Heading is the built-in heading level (1-4)
// of the text cell, 0 for a plain row. Marks are the criteria column values.
type Row struct {
	Text    string
	Heading int
	Marks   []string
}

// Sheet is a requirement sheet: the criteria header and its rows.
type Sheet struct {
	Name     string
	Criteria []string
	Rows     []Row
}

// Write saves a workbook with a "Cover" sheet followed by sheets to path.
func Write(path string, sheets ...Sheet) error {
	wb := spreadsheet.New()
	headings := headingStyles(wb.StyleSheet.X())

	wb.AddSheet().SetName("Cover")
	for _, s := range sheets {
		sheet := wb.AddSheet()
		sheet.SetName(s.Name)
		hdr := sheet.AddRow()
		hdr.AddCell()
		hdr.AddCell().SetString("Requirement")
		for _, c := range s.Criteria {
			hdr.AddCell().SetString(c)
		}
		for _, r := range s.Rows {
			row := sheet.AddRow()
			row.AddCell()
			c := row.AddCell()
			c.SetString(r.Text)
			if r.Heading > 0 {
				c.X().SAttr = unioffice.Uint32(headings[r.Heading-1])
			}
			for _, m := range r.Marks {
				row.AddCell().SetString(m)
			}
		}
	}

	var buf bytes.Buffer
	if err := wb.Save(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// headingStyles registers the built-in "Heading 1".."Heading 4" cell styles
// and returns their cell format indexes.
func headingStyles(ss *sml.StyleSheet) [4]uint32 {
	if ss.CellStyleXfs == nil {
		ss.CellStyleXfs = sml.NewCT_CellStyleXfs()
	}
	if ss.CellXfs == nil {
		ss.CellXfs = sml.NewCT_CellXfs()
	}
	if ss.CellStyles == nil {
		ss.CellStyles = sml.NewCT_CellStyles()
	}
	var ids [4]uint32
	for i := range ids {
		styleXf := uint32(len(ss.CellStyleXfs.Xf))
		ss.CellStyleXfs.Xf = append(ss.CellStyleXfs.Xf, sml.NewCT_Xf())
		cs := sml.NewCT_CellStyle()
		cs.NameAttr = unioffice.String("Heading")
		cs.XfIdAttr = styleXf
		cs.BuiltinIdAttr = unioffice.Uint32(uint32(0x10 + i))
		ss.CellStyles.CellStyle = append(ss.CellStyles.CellStyle, cs)

		xf := sml.NewCT_Xf()
		xf.XfIdAttr = unioffice.Uint32(styleXf)
		ids[i] = uint32(len(ss.CellXfs.Xf))
		ss.CellXfs.Xf = append(ss.CellXfs.Xf, xf)
	}
	return ids
}
