// Package progress displays a conversion run on the terminal: a spinner and
// progress bar when stdout is a terminal, one line per sheet otherwise.
package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	convert "github.com/aerissecure/rfpconvert"
)

// Stepper yields progress events until it returns an error; io.EOF marks a
// completed run. *convert.Run implements it.
type Stepper interface {
	Next(ctx context.Context) (convert.ProgressEvent, error)
}

var (
	fileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	sheetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

const maxBarWidth = 60

// eventMsg carries the result of one Next call into Update.
type eventMsg struct {
	ev  convert.ProgressEvent
	err error
}

// Model is the bubbletea model of a running conversion. Next is only ever
// called from one command at a time; cancelling goes through the context.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	run    Stepper
	total  int

	spinner spinner.Model
	bar     progress.Model

	last convert.ProgressEvent
	err  error
	done bool
}

// New returns a model pulling events from run. total is the expected number
// of events, 0 when unknown.
func New(ctx context.Context, run Stepper, total int) Model {
	ctx, cancel := context.WithCancel(ctx)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = fileStyle
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		run:     run,
		total:   total,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m Model) next() tea.Msg {
	ev, err := m.run.Next(m.ctx)
	return eventMsg{ev: ev, err: err}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if msg.err != nil {
			m.done = true
			m.cancel()
			if !errors.Is(msg.err, io.EOF) {
				m.err = msg.err
			}
			return m, tea.Quit
		}
		m.last = msg.ev
		return m, m.next

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// the in-flight Next sees the cancelled context and ends the run
			m.cancel()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-20, 10), maxBarWidth)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Percent is the share of the expected events seen so far.
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.last.Count)/float64(m.total), 1)
}

func (m Model) View() string {
	if m.done {
		if m.err != nil {
			return errStyle.Render("error: "+m.err.Error()) + "\n"
		}
		return ""
	}
	var b strings.Builder
	b.WriteString(m.spinner.View() + " ")
	if m.last.File == "" {
		b.WriteString(sheetStyle.Render("opening workbooks"))
	} else {
		b.WriteString(fileStyle.Render(m.last.File) + " " + sheetStyle.Render(m.last.Sheet))
	}
	b.WriteString("\n" + m.bar.ViewAs(m.Percent()) + " ")
	if m.total > 0 {
		b.WriteString(countStyle.Render(fmt.Sprintf("%d/%d", m.last.Count, m.total)))
	} else {
		b.WriteString(countStyle.Render(fmt.Sprint(m.last.Count)))
	}
	return b.String() + "\n"
}

// Err returns the error that ended the run, nil after a completed one.
func (m Model) Err() error { return m.err }

// Done reports whether the run has ended.
func (m Model) Done() bool { return m.done }

// Interactive reports whether f is a terminal.
func Interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Show drives run to completion, rendering progress on out.
func Show(ctx context.Context, run Stepper, total int, out *os.File) error {
	if !Interactive(out) {
		return Plain(ctx, run, out)
	}
	final, err := tea.NewProgram(New(ctx, run, total), tea.WithOutput(out)).Run()
	if err != nil {
		return err
	}
	return final.(Model).Err()
}

// Plain drives run to completion, writing a line whenever it enters a sheet.
func Plain(ctx context.Context, run Stepper, w io.Writer) error {
	var file, sheet string
	for {
		ev, err := run.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.File != file || ev.Sheet != sheet {
			file, sheet = ev.File, ev.Sheet
			fmt.Fprintf(w, "%s: %s\n", file, sheet)
		}
	}
}
