package docx

import (
	"fmt"
	"io"
	"strings"
)

// DocxToOutline is a convenience wrapper that renders a DOCX reader as a
// plain text outline using the intermediate representation defined in this
// package.
func DocxToOutline(r io.ReaderAt, size int64) (string, error) {
	ir, err := ParseDocumentModel(r, size)
	if err != nil {
		return "", err
	}
	return RenderDocumentOutline(ir), nil
}

// -----------------------------------------------------------------------------
// Paragraph rendering
// -----------------------------------------------------------------------------

func renderParagraphOutline(p RenderParagraph) string {
	text := p.Text()
	switch {
	case p.Style.HeadingLevel > 0:
		return strings.Repeat("#", p.Style.HeadingLevel) + " " + text
	case p.Style.ListLevel == 0:
		return "1. " + text
	case p.Style.ListLevel > 0:
		return strings.Repeat("  ", p.Style.ListLevel) + "- " + text
	}
	return text
}

// -----------------------------------------------------------------------------
// Table rendering
// -----------------------------------------------------------------------------

func renderCellOutline(c RenderTableCell) string {
	var parts []string
	for _, p := range c.Paragraphs {
		parts = append(parts, renderParagraphOutline(p))
	}
	s := strings.Join(parts, " / ")
	if c.ColSpan > 1 {
		s += fmt.Sprintf(" (span %d)", c.ColSpan)
	}
	return s
}

func renderTableOutline(t RenderTable) string {
	var b strings.Builder
	for _, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = renderCellOutline(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if row.Header {
			b.WriteString("|" + strings.Repeat("---|", len(row.Cells)) + "\n")
		}
	}
	return b.String()
}

// -----------------------------------------------------------------------------
// Top-level rendering entry point
// -----------------------------------------------------------------------------

// RenderDocumentOutline converts the DocumentModel into a text outline, one
// line per paragraph or table row.
func RenderDocumentOutline(m DocumentModel) string {
	var b strings.Builder
	if m.Properties.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", m.Properties.Title)
	}
	if m.Properties.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", m.Properties.Author)
	}
	for _, blk := range m.Blocks {
		if blk.Paragraph != nil {
			b.WriteString(renderParagraphOutline(*blk.Paragraph) + "\n")
		} else if blk.Table != nil {
			b.WriteString(renderTableOutline(*blk.Table))
		}
	}
	return b.String()
}

// BuildMarker returns the build marker text if the last paragraph of the
// document is one.
func (d DocumentModel) BuildMarker() (string, bool) {
	if len(d.Paragraphs) == 0 {
		return "", false
	}
	text := d.Paragraphs[len(d.Paragraphs)-1].Text()
	if len(text) == len("GD02012006DG") && strings.HasPrefix(text, "GD") && strings.HasSuffix(text, "DG") {
		return text, true
	}
	return "", false
}
