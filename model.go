// Package convert turns requirement workbooks into Word documents. It reads
// the rows of every sheet after the first, keeps the rows selected by
// criteria columns, classifies them as headings or list items and feeds
// them, numbered, to an Emitter that builds the output document.
package convert

import "fmt"

// HeadingEvent is produced for a row whose text cell carries a heading style.
type HeadingEvent struct {
	Text  string
	Level int    // 0-3, "Heading 1" is 0
	Index string // hierarchical index, e.g. "2.1"
}

func (h HeadingEvent) String() string {
	return fmt.Sprintf("Heading: Level: %d, Index: %s, Text: %q", h.Level, h.Index, h.Text)
}

// RequirementItem is produced for every other non-blank row.
type RequirementItem struct {
	Text  string
	Depth int // 0-2, one per stripped marker
	Index string
}

func (i RequirementItem) String() string {
	return fmt.Sprintf("Item: Depth: %d, Index: %s, Text: %q", i.Depth, i.Index, i.Text)
}

// ProgressEvent is yielded once per row that survives the criteria filter.
type ProgressEvent struct {
	File  string // base name of the source workbook
	Sheet string
	Count int // 1-based, counted across the whole run
}

func (p ProgressEvent) String() string {
	return fmt.Sprintf("%s: %s: %d", p.File, p.Sheet, p.Count)
}

// Stats summarizes what a run has produced so far.
type Stats struct {
	Headings     int
	Requirements int
	Rows         int // progress events yielded
}

func (s Stats) String() string {
	return fmt.Sprintf("Headings: %d, Requirements: %d, Rows: %d", s.Headings, s.Requirements, s.Rows)
}

// Emitter renders the classified row stream into an output document.
// Prefix is called once before the first row and Finalize once after the last;
// Finalize is skipped when the run fails or is cancelled.
type Emitter interface {
	Prefix() error
	Heading(HeadingEvent) error
	Item(RequirementItem) error
	Finalize() error
}

// DocumentInfo carries the metadata an emitter may stamp on its output. A Run
// passes it to emitters that implement DocumentInfoSetter before Prefix.
type DocumentInfo struct {
	Title  string
	Author string
}

// DocumentInfoSetter is implemented by emitters that write document properties.
type DocumentInfoSetter interface {
	SetDocumentInfo(DocumentInfo)
}
