package docx

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"

	convert "github.com/aerissecure/rfpconvert"
	"github.com/aerissecure/rfpconvert/internal/testbook"
)

var fixedNow = time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)

// feed plays a fixed event sequence into e and finalizes it.
func feed(t *testing.T, e convert.Emitter) {
	t.Helper()
	if s, ok := e.(convert.DocumentInfoSetter); ok {
		s.SetDocumentInfo(convert.DocumentInfo{Title: "Tender", Author: "Analyst"})
	}
	require.NoError(t, e.Prefix())
	require.NoError(t, e.Heading(convert.HeadingEvent{Text: "Intro", Level: 0, Index: "1"}))
	require.NoError(t, e.Item(convert.RequirementItem{Text: "first", Depth: 0, Index: "1.1"}))
	require.NoError(t, e.Item(convert.RequirementItem{Text: "nested", Depth: 1, Index: "1.1.1"}))
	require.NoError(t, e.Item(convert.RequirementItem{Text: "deeper", Depth: 2, Index: "1.1.1.1"}))
	require.NoError(t, e.Heading(convert.HeadingEvent{Text: "Details", Level: 1, Index: "1.2"}))
	require.NoError(t, e.Finalize())
}

func readBack(t *testing.T, path string) DocumentModel {
	t.Helper()
	m, err := Open(path)
	require.NoError(t, err)
	return m
}

func assertMarker(t *testing.T, m DocumentModel) {
	t.Helper()
	marker, ok := m.BuildMarker()
	require.True(t, ok, "document must end with the build marker")
	assert.Equal(t, "GD07032025DG", marker)
	last := m.Paragraphs[len(m.Paragraphs)-1]
	require.NotEmpty(t, last.Runs)
	assert.Equal(t, RunStyle{FontSizePt: 1, FontColor: "FFFFFF"}, last.Runs[0].Style)
	assert.Equal(t, ParagraphStyle{StyleID: MarkerStyleID, ListLevel: -1}, last.Style)
}

func TestBuildMarkerStyle(t *testing.T) {
	doc := document.New()
	AddBuildMarker(doc, fixedNow)
	AddBuildMarker(doc, fixedNow)

	var found []document.Style
	for _, s := range doc.Styles.Styles() {
		if s.StyleID() == MarkerStyleID {
			found = append(found, s)
		}
	}
	require.Len(t, found, 1, "style is defined once")
	s := found[0]
	assert.Equal(t, "Build Marker", s.Name())
	require.NotNil(t, s.X().SemiHidden)

	sp := s.X().PPr.Spacing
	require.NotNil(t, sp)
	tests := []struct {
		name string
		got  *uint64
	}{
		{"before", sp.BeforeAttr.ST_UnsignedDecimalNumber},
		{"after", sp.AfterAttr.ST_UnsignedDecimalNumber},
	}
	for _, tt := range tests {
		require.NotNil(t, tt.got, tt.name)
		assert.Zero(t, *tt.got, tt.name)
	}
	require.NotNil(t, sp.LineAttr)
	assert.Equal(t, int64(20), *sp.LineAttr.Int64)
	assert.Equal(t, wml.ST_LineSpacingRuleExact, sp.LineRuleAttr)

	for _, p := range doc.Paragraphs() {
		assert.Equal(t, MarkerStyleID, p.Style())
	}
}

func TestListDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.docx")
	feed(t, NewList(path, WithClock(func() time.Time { return fixedNow })))

	m := readBack(t, path)
	assert.Empty(t, m.Tables)
	assert.Equal(t, "Tender", m.Properties.Title)
	assert.Equal(t, "Analyst", m.Properties.Author)
	assertMarker(t, m)

	require.Len(t, m.Paragraphs, 6)
	want := []struct {
		text  string
		style ParagraphStyle
	}{
		{"Intro", ParagraphStyle{StyleID: "Heading1", HeadingLevel: 1, ListLevel: -1}},
		{"first", ParagraphStyle{StyleID: "ListNumber", ListLevel: 0}},
		{"nested", ParagraphStyle{StyleID: "ListBullet2", ListLevel: 1}},
		{"deeper", ParagraphStyle{StyleID: "ListBullet3", ListLevel: 2}},
		{"Details", ParagraphStyle{StyleID: "Heading2", HeadingLevel: 2, ListLevel: -1}},
	}
	for i, w := range want {
		assert.Equal(t, w.text, m.Paragraphs[i].Text())
		assert.Equal(t, w.style, m.Paragraphs[i].Style, "paragraph %d", i)
	}
}

func TestTableDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fancy.docx")
	feed(t, NewTable(path, WithClock(func() time.Time { return fixedNow })))

	m := readBack(t, path)
	assertMarker(t, m)
	require.Len(t, m.Tables, 1)
	rows := m.Tables[0].Rows
	require.Len(t, rows, 6)

	hdr := rows[0]
	assert.True(t, hdr.Header)
	require.Len(t, hdr.Cells, 3)
	for i, text := range headerTexts {
		assert.Equal(t, text, hdr.Cells[i].Text())
		assert.Equal(t, CellBorders{Top: "single", Bottom: "single"}, hdr.Cells[i].Borders)
	}

	heading := rows[1]
	assert.False(t, heading.Header)
	require.Len(t, heading.Cells, 1)
	assert.Equal(t, 3, heading.Cells[0].ColSpan)
	assert.Equal(t, "1  Intro", heading.Cells[0].Text())
	assert.Equal(t, 1, heading.Cells[0].Paragraphs[0].Style.HeadingLevel)

	item := rows[2]
	require.Len(t, item.Cells, 3)
	assert.Equal(t, "1.1", item.Cells[0].Text())
	assert.Equal(t, "first", item.Cells[1].Text())
	assert.Equal(t, "", item.Cells[1].Paragraphs[0].Style.StyleID)
	assert.Equal(t, " ", item.Cells[2].Text())
	assert.Equal(t, CellBorders{Top: "single", Bottom: "single"}, item.Cells[2].Borders)

	assert.Equal(t, "ListBullet", rows[3].Cells[1].Paragraphs[0].Style.StyleID)
	assert.Equal(t, "ListBullet2", rows[4].Cells[1].Paragraphs[0].Style.StyleID)
	assert.Equal(t, "1.2  Details", rows[5].Cells[0].Text())
	assert.Equal(t, 2, rows[5].Cells[0].Paragraphs[0].Style.HeadingLevel)
}

func TestPlainTableDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.docx")
	feed(t, NewPlainTable(path, WithClock(func() time.Time { return fixedNow })))

	m := readBack(t, path)
	assertMarker(t, m)
	require.Len(t, m.Tables, 1)
	tbl := m.Tables[0]
	assert.Equal(t, CellBorders{Top: "single", Bottom: "single"}, tbl.Borders)
	require.Len(t, tbl.Rows, 6)

	for _, c := range tbl.Rows[0].Cells {
		assert.Equal(t, CellBorders{Top: "single", Bottom: "double"}, c.Borders)
	}
	assert.True(t, tbl.Rows[0].Header)

	heading := tbl.Rows[1]
	require.Len(t, heading.Cells, 3)
	assert.Equal(t, "1", heading.Cells[0].Text())
	assert.Equal(t, "Intro", heading.Cells[1].Text())
	assert.Equal(t, "", heading.Cells[2].Text())
	for _, c := range heading.Cells {
		assert.Equal(t, 1, c.ColSpan)
	}
	assert.Equal(t, "1.1.1.1", tbl.Rows[4].Cells[0].Text())
}

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		want   convert.Emitter
	}{
		{"", &List{}},
		{FormatList, &List{}},
		{FormatPlainTable, &PlainTable{}},
		{FormatTable, &Table{}},
	}
	for _, tt := range tests {
		e, err := New(tt.format, "out.docx")
		require.NoError(t, err)
		assert.IsType(t, tt.want, e, tt.format)
	}
	_, err := New("html", "out.docx")
	assert.ErrorContains(t, err, `unknown output format "html"`)
}

func TestFinalizeLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	feed(t, NewList(filepath.Join(dir, "out.docx")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.docx", entries[0].Name())

	e := NewList(filepath.Join(dir, "missing", "out.docx"))
	require.NoError(t, e.Prefix())
	assert.Error(t, e.Finalize())
	_, err = os.Stat(filepath.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderDocumentOutline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fancy.docx")
	feed(t, NewTable(path, WithClock(func() time.Time { return fixedNow })))
	b, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := DocxToOutline(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	assert.Contains(t, out, "Title: Tender\n")
	assert.Contains(t, out, "| № пп | Требование | Да/Нет |\n|---|---|---|\n")
	assert.Contains(t, out, "| # 1  Intro (span 3) |\n")
	assert.Contains(t, out, "| 1.1 | first |   |\n")
	assert.Contains(t, out, "GD07032025DG\n")
}

// writeWorkbook saves an xlsx with a cover sheet and a requirement sheet
// using the built-in heading styles.
func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, testbook.Write(path, testbook.Sheet{
		Name:     "Reqs",
		Criteria: []string{"Core"},
		Rows: []testbook.Row{
			{Text: "Platform", Heading: 1, Marks: []string{"x"}},
			{Text: "Runs on Linux", Marks: []string{"x"}},
			{Text: "- amd64", Marks: []string{"x"}},
			{Text: "-- glibc 2.31", Marks: []string{""}},
			{Text: "Storage", Heading: 2, Marks: []string{"x"}},
			{Text: "", Marks: []string{"x"}},
			{Text: "Encrypts data at rest", Marks: []string{"x"}},
		},
	}))
}

func TestFormatsAgreeOnEventCounts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rfp.xlsx")
	writeWorkbook(t, input)

	for _, criteria := range [][]string{nil, {"Core"}} {
		var stats []convert.Stats
		for _, format := range Formats {
			out := filepath.Join(dir, format+".docx")
			e, err := New(format, out)
			require.NoError(t, err)
			s, err := convert.Convert(context.Background(), convert.Options{Paths: []string{input}, Output: out, Criteria: criteria}, e, nil)
			require.NoError(t, err, format)
			stats = append(stats, s)

			m := readBack(t, out)
			headings, items := countBlocks(m)
			assert.Equal(t, s.Headings, headings, format)
			assert.Equal(t, s.Requirements, items, format)
			assert.Equal(t, format, m.Properties.Title)
		}
		for _, s := range stats[1:] {
			assert.Equal(t, stats[0], s, "criteria %v", criteria)
		}
		n, err := convert.Count(context.Background(), convert.Options{Paths: []string{input}, Criteria: criteria})
		require.NoError(t, err)
		assert.Equal(t, stats[0].Rows, n)
	}
}

// countBlocks counts headings and items in a generated document of any format.
func countBlocks(m DocumentModel) (headings, items int) {
	for _, p := range m.Paragraphs {
		switch {
		case p.Style.HeadingLevel > 0:
			headings++
		case p.Style.ListLevel >= 0:
			items++
		}
	}
	for _, tbl := range m.Tables {
		for _, row := range tbl.Rows {
			switch {
			case row.Header:
			case len(row.Cells) == 1 || row.Cells[2].Text() == "":
				headings++
			default:
				items++
			}
		}
	}
	return headings, items
}
