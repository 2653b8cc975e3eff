package convert

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aerissecure/rfpconvert/workbook"
)

type runState int

const (
	stateIdle runState = iota
	stateOpening
	statePerWorkbook
	statePerSheet
	statePerRow
	stateFinalizing
	stateDone
	stateCancelled
	stateFailed
)

var stateNames = [...]string{"idle", "opening", "workbook", "sheet", "row", "finalizing", "done", "cancelled", "failed"}

func (s runState) String() string { return stateNames[s] }

// Run is one conversion of a set of workbooks into a document. Progress is
// pulled with Next; each call processes rows until one survives the criteria
// filter. A Run must not be used from more than one goroutine.
type Run struct {
	opts    Options
	log     *slog.Logger
	emitter Emitter
	open    func(context.Context, []string) (*Source, error)

	state   runState
	started time.Time
	err     error // terminal result
	src     *Source
	allow   map[string]bool
	book    int
	sheets  []*workbook.Sheet
	sheet   int
	cur     *workbook.Sheet
	filter  *Filter
	row     int
	pending bool // row yielded but not yet classified

	num   Numbering
	stats Stats
}

// New prepares a run writing to e. Nothing is opened until the first Next.
func New(opts Options, e Emitter) *Run {
	opts = opts.withDefaults()
	r := &Run{opts: opts, log: opts.Logger, emitter: e, open: openSource}
	if len(opts.Sheets) > 0 {
		r.allow = make(map[string]bool, len(opts.Sheets))
		for _, name := range opts.Sheets {
			r.allow[name] = true
		}
	}
	return r
}

// Next returns the progress event of the next row kept by the criteria
// filter. It returns io.EOF once the document has been finalized, ErrCancelled
// when ctx is done before a row, or the error that aborted the run; after that
// every call returns the same error.
func (r *Run) Next(ctx context.Context) (ProgressEvent, error) {
	if r.err != nil {
		return ProgressEvent{}, r.err
	}
	ev, err := r.step(ctx)
	if err != nil {
		r.err = err
		switch {
		case err == io.EOF:
			r.state = stateDone
		case err == ErrCancelled:
			r.state = stateCancelled
			r.log.Info("conversion cancelled", "rows", r.stats.Rows)
		default:
			r.state = stateFailed
		}
		r.release()
	}
	return ev, err
}

// Events returns the run as a sequence. Iteration stops after the first
// error; a successful run ends without yielding io.EOF.
func (r *Run) Events(ctx context.Context) iter.Seq2[ProgressEvent, error] {
	return func(yield func(ProgressEvent, error) bool) {
		for {
			ev, err := r.Next(ctx)
			if err == io.EOF {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

// Stats returns the counts gathered so far.
func (r *Run) Stats() Stats { return r.stats }

// Close releases the input workbooks. A run closed before it finished reports
// ErrCancelled from then on.
func (r *Run) Close() error {
	if r.err == nil {
		r.err = ErrCancelled
		r.state = stateCancelled
	}
	r.release()
	return nil
}

func (r *Run) release() {
	if r.src != nil {
		r.src.Close()
		r.src = nil
	}
	r.cur, r.sheets, r.filter = nil, nil, nil
}

func (r *Run) step(ctx context.Context) (ProgressEvent, error) {
	for {
		switch r.state {
		case stateIdle:
			r.started = time.Now()
			r.state = stateOpening

		case stateOpening:
			src, err := r.open(ctx, r.opts.Paths)
			if err != nil {
				if ctx.Err() != nil {
					return ProgressEvent{}, ErrCancelled
				}
				return ProgressEvent{}, err
			}
			r.src = src
			if s, ok := r.emitter.(DocumentInfoSetter); ok {
				s.SetDocumentInfo(r.documentInfo())
			}
			if err := r.emitter.Prefix(); err != nil {
				return ProgressEvent{}, fmt.Errorf("start document: %w", err)
			}
			r.book = -1
			r.state = statePerWorkbook

		case statePerWorkbook:
			r.book++
			if r.book >= len(r.src.Books) {
				r.state = stateFinalizing
				continue
			}
			b := r.src.Books[r.book]
			r.log.Debug("workbook", "file", b.Name, "format", b.Format)
			r.sheets = b.Sheets()
			r.sheet = -1
			r.state = statePerSheet

		case statePerSheet:
			r.sheet++
			if r.sheet >= len(r.sheets) {
				r.state = statePerWorkbook
				continue
			}
			sh := r.sheets[r.sheet]
			if r.allow != nil && !r.allow[sh.Name] {
				r.log.Debug("sheet not selected", "sheet", sh.Name)
				continue
			}
			criteria, err := ReadCriteria(sh)
			if err != nil {
				return ProgressEvent{}, err
			}
			f := NewFilter(r.opts.Criteria, sh, criteria)
			if !f.Matches() {
				r.log.Warn("none of the selected criteria are columns of the sheet, skipping all its rows",
					"sheet", sh.Name, "criteria", r.opts.Criteria, "columns", criteria.Names())
				continue
			}
			r.log.Debug("sheet", "sheet", sh.Name, "rows", sh.NumRows(), "criteria", criteria.Names())
			r.cur, r.filter, r.row = sh, f, 0
			r.state = statePerRow

		case statePerRow:
			if ctx.Err() != nil {
				return ProgressEvent{}, ErrCancelled
			}
			if r.pending {
				r.pending = false
				if err := r.process(r.row); err != nil {
					return ProgressEvent{}, err
				}
			}
			r.row++
			if r.row >= r.cur.NumRows() {
				r.state = statePerSheet
				continue
			}
			keep, err := r.filter.Keep(r.row)
			if err != nil {
				return ProgressEvent{}, err
			}
			if !keep {
				continue
			}
			r.stats.Rows++
			r.pending = true
			return ProgressEvent{File: r.src.Books[r.book].Name, Sheet: r.cur.Name, Count: r.stats.Rows}, nil

		case stateFinalizing:
			if err := r.emitter.Finalize(); err != nil {
				return ProgressEvent{}, fmt.Errorf("write document: %w", err)
			}
			r.log.Info("conversion finished", "headings", r.stats.Headings,
				"requirements", r.stats.Requirements, "rows", r.stats.Rows,
				"elapsed", time.Since(r.started).Round(time.Millisecond))
			return ProgressEvent{}, io.EOF

		default:
			return ProgressEvent{}, fmt.Errorf("run in state %s", r.state)
		}
	}
}

// process classifies the zero-based row of the current sheet and forwards
// it to the emitter.
func (r *Run) process(row int) error {
	c := r.cur.Cell(row, TextColumn)
	if c.Kind != workbook.Text && c.Kind != workbook.Empty {
		return &TextExtractionError{Sheet: r.cur.Name, Line: row + 1, Value: c.Value()}
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return nil
	}
	if level, ok := HeadingLevel(c.Style); ok {
		r.stats.Headings++
		ev := HeadingEvent{Text: text, Level: level, Index: r.num.Heading(level)}
		if err := r.emitter.Heading(ev); err != nil {
			return fmt.Errorf("sheet %q, line %d: %w", r.cur.Name, row+1, err)
		}
		return nil
	}
	text, depth := ParseMarker(text)
	if text == "" {
		return nil
	}
	r.stats.Requirements++
	it := RequirementItem{Text: text, Depth: depth, Index: r.num.Item(depth)}
	if err := r.emitter.Item(it); err != nil {
		return fmt.Errorf("sheet %q, line %d: %w", r.cur.Name, row+1, err)
	}
	return nil
}

func (r *Run) documentInfo() DocumentInfo {
	info := DocumentInfo{Title: r.opts.Title, Author: r.opts.Author}
	if len(r.src.Books) > 0 {
		props := r.src.Books[0].Workbook.Properties
		if info.Title == "" {
			info.Title = props.Title
		}
		if info.Author == "" {
			info.Author = props.Author
		}
	}
	if info.Title == "" && r.opts.Output != "" {
		base := filepath.Base(r.opts.Output)
		info.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return info
}

// Convert drives a run to completion, calling progress for every event.
func Convert(ctx context.Context, opts Options, e Emitter, progress func(ProgressEvent)) (Stats, error) {
	r := New(opts, e)
	defer r.Close()
	for ev, err := range r.Events(ctx) {
		if err != nil {
			return r.Stats(), err
		}
		if progress != nil {
			progress(ev)
		}
	}
	return r.Stats(), nil
}

// Count runs the pipeline without writing a document and returns the number
// of progress events a full conversion with the same options yields.
func Count(ctx context.Context, opts Options) (int, error) {
	stats, err := Convert(ctx, opts, &Counter{}, nil)
	return stats.Rows, err
}
