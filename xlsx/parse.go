// Package xlsx reads Office Open XML workbooks into the workbook IR.
package xlsx

import (
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/aerissecure/rfpconvert/workbook"
)

// Open reads the workbook at path.
func Open(path string) (*workbook.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open "+path)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat "+path)
	}
	wb, err := ParseWorkbookModel(f, fi.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", path)
	}
	wb.Path = path
	return wb, nil
}

// ParseWorkbookModel reads an XLSX from r/size and returns the intermediate representation.
func ParseWorkbookModel(r io.ReaderAt, size int64) (*workbook.Workbook, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, err
	}

	model := &workbook.Workbook{
		Properties: workbook.Properties{
			Title:    wb.CoreProperties.Title(),
			Author:   wb.CoreProperties.Author(),
			Comments: wb.CoreProperties.Description(),
		},
	}

	for _, sheet := range wb.Sheets() {
		ws := &workbook.Sheet{Name: sheet.Name()}

		// cells covered by a merge, other than its top-left master, read as empty
		skipCells := make(map[[2]int]bool)
		if sheet.X().MergeCells != nil {
			for _, mc := range sheet.X().MergeCells.MergeCell {
				from, to, err := reference.ParseRangeReference(mc.RefAttr)
				if err != nil {
					continue
				}
				fromRow := int(from.RowIdx - 1)
				fromCol := int(from.ColumnIdx)
				toRow := int(to.RowIdx - 1)
				toCol := int(to.ColumnIdx)
				for r := fromRow; r <= toRow; r++ {
					for c := fromCol; c <= toCol; c++ {
						if r == fromRow && c == fromCol {
							continue
						}
						skipCells[[2]int{r, c}] = true
					}
				}
			}
		}

		fillReferences(sheet.X())
		for _, row := range sheet.Rows() {
			rowIdx := int(row.RowNumber()) - 1
			for _, cell := range row.Cells() {
				colName, err := cell.Column()
				if err != nil {
					continue
				}
				colIdx := int(reference.ColumnToIndex(colName))
				if skipCells[[2]int{rowIdx, colIdx}] {
					continue
				}
				c := cellValue(cell)
				if cell.X().SAttr != nil {
					c.Style = StyleName(wb.StyleSheet, *cell.X().SAttr)
				}
				ws.Set(rowIdx, colIdx, c)
			}
		}

		model.Sheets = append(model.Sheets, ws)
	}

	return model, nil
}

// fillReferences gives rows and cells without an r attribute, which is
// optional, the position following their predecessor.
func fillReferences(ws *sml.Worksheet) {
	if ws.SheetData == nil {
		return
	}
	next := uint32(1)
	for _, row := range ws.SheetData.Row {
		if row.RAttr == nil || *row.RAttr == 0 {
			row.RAttr = unioffice.Uint32(next)
		}
		next = *row.RAttr + 1

		col := uint32(0)
		for _, c := range row.C {
			if c.RAttr != nil {
				if ref, err := reference.ParseCellReference(*c.RAttr); err == nil {
					col = ref.ColumnIdx + 1
					continue
				}
			}
			c.RAttr = unioffice.String(reference.IndexToColumn(col) + strconv.FormatUint(uint64(*row.RAttr), 10))
			col++
		}
	}
}

func cellValue(cell spreadsheet.Cell) workbook.Cell {
	x := cell.X()
	switch x.TAttr {
	case sml.ST_CellTypeE:
		return workbook.Cell{Kind: workbook.Error, Text: cell.GetString()}
	case sml.ST_CellTypeB:
		b := x.V != nil && (*x.V == "1" || *x.V == "true")
		c := workbook.Cell{Kind: workbook.Bool}
		if b {
			c.Number = 1
		}
		return c
	case sml.ST_CellTypeS, sml.ST_CellTypeStr, sml.ST_CellTypeInlineStr:
		if s := cell.GetString(); s != "" {
			return workbook.Cell{Kind: workbook.Text, Text: s}
		}
		return workbook.Cell{}
	}
	if x.V == nil || *x.V == "" {
		return workbook.Cell{}
	}
	n, err := strconv.ParseFloat(*x.V, 64)
	if err != nil {
		return workbook.Cell{Kind: workbook.Text, Text: *x.V}
	}
	return workbook.Cell{Kind: workbook.Number, Number: n}
}
