// Package docx renders the classified requirement stream into Word documents
// and reads generated documents back for inspection.
package docx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/ofc/sharedTypes"
	"github.com/unidoc/unioffice/schema/soo/wml"

	convert "github.com/aerissecure/rfpconvert"
)

// Output formats accepted by New.
const (
	FormatList       = "list"
	FormatPlainTable = "table"
	FormatTable      = "fancy"
)

// Formats lists the output formats, default first.
var Formats = []string{FormatList, FormatPlainTable, FormatTable}

// Option configures an emitter.
type Option func(*output)

// WithClock sets the time source used for the build marker.
func WithClock(now func() time.Time) Option {
	return func(o *output) { o.now = now }
}

// New returns the emitter for format writing to path.
func New(format, path string, opts ...Option) (convert.Emitter, error) {
	switch format {
	case FormatList, "":
		return NewList(path, opts...), nil
	case FormatPlainTable:
		return NewPlainTable(path, opts...), nil
	case FormatTable:
		return NewTable(path, opts...), nil
	}
	return nil, fmt.Errorf("unknown output format %q, want one of %v", format, Formats)
}

// output is the document state shared by all emitters.
type output struct {
	path string
	doc  *document.Document
	info convert.DocumentInfo
	now  func() time.Time
}

func newOutput(path string, opts []Option) output {
	o := output{path: path, doc: document.New(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// finalize stamps the document and writes it to path.
func (o *output) finalize() error {
	AddBuildMarker(o.doc, o.now())
	if o.info.Title != "" {
		o.doc.CoreProperties.SetTitle(o.info.Title)
	}
	if o.info.Author != "" {
		o.doc.CoreProperties.SetAuthor(o.info.Author)
	}
	return saveAtomic(o.doc, o.path)
}

// BuildMarker returns the hidden date marker text, "GD" ddmmyyyy "DG".
func BuildMarker(t time.Time) string {
	return "GD" + t.Format("02012006") + "DG"
}

// MarkerStyleID is the paragraph style of the build marker.
const MarkerStyleID = "BuildMarker"

// AddBuildMarker appends the build marker as 1pt white text in its own
// hidden paragraph style.
func AddBuildMarker(doc *document.Document, t time.Time) {
	markerStyle(doc)
	p := doc.AddParagraph()
	p.SetStyle(MarkerStyleID)
	run := p.AddRun()
	run.Properties().SetSize(1 * measurement.Point)
	run.Properties().SetColor(color.White)
	run.AddText(BuildMarker(t))
}

// saveAtomic writes doc to a temporary file next to path and renames it into
// place, so path only ever holds a complete document.
func saveAtomic(doc *document.Document, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err = doc.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// ensureStyle adds a paragraph style unless the document already defines id.
func ensureStyle(doc *document.Document, id, name string, sizePt float64, bold bool) {
	for _, s := range doc.Styles.Styles() {
		if s.StyleID() == id {
			return
		}
	}
	s := doc.Styles.AddStyle(id, wml.ST_StyleTypeParagraph, false)
	s.SetName(name)
	s.SetBasedOn("Normal")
	s.SetNextStyle("Normal")
	if sizePt > 0 {
		s.RunProperties().SetSize(measurement.Distance(sizePt) * measurement.Point)
	}
	if bold {
		s.RunProperties().SetBold(true)
	}
}

// markerStyle defines the build marker style: no spacing around it and an
// exact 1pt line, so the marker adds no visible gap after the content.
func markerStyle(doc *document.Document) {
	for _, s := range doc.Styles.Styles() {
		if s.StyleID() == MarkerStyleID {
			return
		}
	}
	s := doc.Styles.AddStyle(MarkerStyleID, wml.ST_StyleTypeParagraph, false)
	s.SetName("Build Marker")
	s.SetBasedOn("Normal")
	s.SetSemiHidden(true)

	sp := wml.NewCT_Spacing()
	sp.BeforeAttr = &sharedTypes.ST_TwipsMeasure{ST_UnsignedDecimalNumber: unioffice.Uint64(0)}
	sp.AfterAttr = &sharedTypes.ST_TwipsMeasure{ST_UnsignedDecimalNumber: unioffice.Uint64(0)}
	sp.LineAttr = &wml.ST_SignedTwipsMeasure{Int64: unioffice.Int64(int64(measurement.Point / measurement.Twips))}
	sp.LineRuleAttr = wml.ST_LineSpacingRuleExact
	s.ParagraphProperties().X().Spacing = sp

	s.RunProperties().SetSize(1 * measurement.Point)
	s.RunProperties().SetColor(color.White)
}

var headingSizes = [...]float64{16, 13, 12, 11}

// headingStyle returns the paragraph style for a heading level (0-3),
// defining it when the document lacks it.
func headingStyle(doc *document.Document, level int) string {
	level = min(max(level, 0), len(headingSizes)-1)
	id := fmt.Sprintf("Heading%d", level+1)
	ensureStyle(doc, id, fmt.Sprintf("heading %d", level+1), headingSizes[level], true)
	return id
}
