package docx

import (
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"

	convert "github.com/aerissecure/rfpconvert"
)

// List paragraph styles by item depth.
var listStyles = [...]string{"ListNumber", "ListBullet2", "ListBullet3"}

// List renders headings as heading paragraphs and items as a numbered list
// with bulleted sub-items. Hierarchical indexes are not printed.
type List struct {
	out     output
	numbers document.NumberingDefinition
	bullets document.NumberingDefinition
}

// NewList returns a List emitter writing to path.
func NewList(path string, opts ...Option) *List {
	return &List{out: newOutput(path, opts)}
}

func (l *List) SetDocumentInfo(info convert.DocumentInfo) { l.out.info = info }

func (l *List) Prefix() error {
	doc := l.out.doc
	ensureStyle(doc, listStyles[0], "List Number", 0, false)
	ensureStyle(doc, listStyles[1], "List Bullet 2", 0, false)
	ensureStyle(doc, listStyles[2], "List Bullet 3", 0, false)

	l.numbers = doc.Numbering.AddDefinition()
	lvl := l.numbers.AddLevel()
	lvl.SetFormat(wml.ST_NumberFormatDecimal)
	lvl.SetText("%1.")

	l.bullets = doc.Numbering.AddDefinition()
	for _, text := range []string{"•", "–", "◦"} {
		lvl := l.bullets.AddLevel()
		lvl.SetFormat(wml.ST_NumberFormatBullet)
		lvl.SetText(text)
	}
	return nil
}

func (l *List) Heading(h convert.HeadingEvent) error {
	p := l.out.doc.AddParagraph()
	p.SetStyle(headingStyle(l.out.doc, h.Level))
	p.AddRun().AddText(h.Text)
	return nil
}

func (l *List) Item(it convert.RequirementItem) error {
	depth := min(max(it.Depth, 0), len(listStyles)-1)
	p := l.out.doc.AddParagraph()
	p.SetStyle(listStyles[depth])
	if depth == 0 {
		p.SetNumberingDefinition(l.numbers)
		p.SetNumberingLevel(0)
	} else {
		p.SetNumberingDefinition(l.bullets)
		p.SetNumberingLevel(depth)
	}
	p.AddRun().AddText(it.Text)
	return nil
}

func (l *List) Finalize() error { return l.out.finalize() }
