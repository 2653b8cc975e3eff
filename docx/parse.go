package docx

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// Open reads the document at path.
func Open(path string) (DocumentModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return DocumentModel{}, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return DocumentModel{}, err
	}
	return ParseDocumentModel(f, fi.Size())
}

// ParseDocumentModel reads a DOCX document from the provided reader and size
// and builds a DocumentModel intermediate representation of its paragraphs
// and tables in body order.
func ParseDocumentModel(r io.ReaderAt, size int64) (DocumentModel, error) {
	doc, err := document.Read(r, size)
	if err != nil {
		return DocumentModel{}, err
	}

	mdl := DocumentModel{
		Properties: DocProperties{
			Title:    doc.CoreProperties.Title(),
			Author:   doc.CoreProperties.Author(),
			Created:  doc.CoreProperties.Created(),
			Modified: doc.CoreProperties.Modified(),
		},
	}

	paras := make(map[*wml.CT_P]document.Paragraph)
	for _, p := range doc.Paragraphs() {
		paras[p.X()] = p
	}
	tables := make(map[*wml.CT_Tbl]document.Table)
	for _, t := range doc.Tables() {
		tables[t.X()] = t
	}

	body := doc.X().Body
	if body == nil {
		return mdl, nil
	}
	for _, elt := range body.EG_BlockLevelElts {
		for _, content := range elt.EG_ContentBlockContent {
			for _, x := range content.P {
				if p, ok := paras[x]; ok {
					mdl.addParagraph(convertParagraph(p))
				}
			}
			for _, x := range content.Tbl {
				if t, ok := tables[x]; ok {
					mdl.addTable(convertTable(t))
				}
			}
		}
	}
	return mdl, nil
}

func (m *DocumentModel) addParagraph(p RenderParagraph) {
	m.Paragraphs = append(m.Paragraphs, p)
	m.Blocks = append(m.Blocks, DocumentBlock{Paragraph: &p})
}

func (m *DocumentModel) addTable(t RenderTable) {
	m.Tables = append(m.Tables, t)
	m.Blocks = append(m.Blocks, DocumentBlock{Table: &t})
}

func convertRun(r document.Run) RenderRun {
	rr := RenderRun{Text: r.Text()}
	rpr := r.X().RPr
	if rpr == nil {
		return rr
	}
	if rpr.Sz != nil && rpr.Sz.ValAttr.ST_UnsignedDecimalNumber != nil {
		rr.Style.FontSizePt = float64(*rpr.Sz.ValAttr.ST_UnsignedDecimalNumber) / 2 // half-points
	}
	if rpr.Color != nil && rpr.Color.ValAttr.ST_HexColorRGB != nil {
		rr.Style.FontColor = strings.ToUpper(*rpr.Color.ValAttr.ST_HexColorRGB)
	}
	return rr
}

// convertParagraph converts a unioffice Paragraph into the RenderParagraph IR.
func convertParagraph(p document.Paragraph) RenderParagraph {
	rp := RenderParagraph{Style: ParagraphStyle{StyleID: p.Style(), ListLevel: -1}}

	for _, run := range p.Runs() {
		rp.Runs = append(rp.Runs, convertRun(run))
	}

	if n, ok := strings.CutPrefix(rp.Style.StyleID, "Heading"); ok {
		if level, err := strconv.Atoi(n); err == nil {
			rp.Style.HeadingLevel = level
		}
	}
	if ppr := p.X().PPr; ppr != nil && ppr.NumPr != nil && ppr.NumPr.Ilvl != nil {
		rp.Style.ListLevel = int(ppr.NumPr.Ilvl.ValAttr)
	}

	return rp
}

func borderType(b *wml.CT_Border) string {
	if b == nil {
		return ""
	}
	return b.ValAttr.String()
}

// convertTable converts a unioffice Table into the RenderTable IR.
func convertTable(t document.Table) RenderTable {
	rt := RenderTable{}
	if tp := t.X().TblPr; tp != nil && tp.TblBorders != nil {
		rt.Borders = CellBorders{Top: borderType(tp.TblBorders.Top), Bottom: borderType(tp.TblBorders.Bottom)}
	}

	for _, row := range t.Rows() {
		rr := RenderTableRow{}
		if trPr := row.X().TrPr; trPr != nil && len(trPr.TblHeader) > 0 {
			rr.Header = true
		}

		for _, cell := range row.Cells() {
			rc := RenderTableCell{ColSpan: 1}
			if tcPr := cell.X().TcPr; tcPr != nil {
				if tcPr.GridSpan != nil {
					rc.ColSpan = int(tcPr.GridSpan.ValAttr)
				}
				if tcPr.TcBorders != nil {
					rc.Borders = CellBorders{Top: borderType(tcPr.TcBorders.Top), Bottom: borderType(tcPr.TcBorders.Bottom)}
				}
			}

			for _, p := range cell.Paragraphs() {
				rc.Paragraphs = append(rc.Paragraphs, convertParagraph(p))
			}

			rr.Cells = append(rr.Cells, rc)
		}

		rt.Rows = append(rt.Rows, rr)
	}

	return rt
}
