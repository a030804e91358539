package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"sheetPush/internal/sheetcopy"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Work is a copy run reporting through obs.
type Work func(ctx context.Context, obs sheetcopy.Observer) error

// Interactive reports whether f is a terminal.
func Interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run executes work while rendering its events: a live view on terminals,
// plain lines otherwise.
func Run(ctx context.Context, title string, work Work) error {
	if !Interactive(os.Stdout) {
		p := NewPrinter(os.Stdout)
		p.Title(title)
		return work(ctx, p)
	}
	return runTUI(ctx, title, work)
}

func runTUI(ctx context.Context, title string, work Work) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title, cancel))
	done := make(chan error, 1)
	go func() {
		err := work(ctx, sheetcopy.ObserverFunc(func(e sheetcopy.Event) {
			p.Send(eventMsg(e))
		}))
		done <- err
		p.Send(doneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		return errors.Join(fmt.Errorf("progress display failed: %w", err), <-done)
	}
	return <-done
}

type styles struct {
	title lipgloss.Style
	bar   lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	error lipgloss.Style
	ok    lipgloss.Style
	help  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		info:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		help:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (s styles) line(level slog.Level, msg string) string {
	switch {
	case level >= slog.LevelError:
		return s.error.Render("❌ " + msg)
	case level >= slog.LevelWarn:
		return s.warn.Render("⚠ " + msg)
	default:
		return s.info.Render(msg)
	}
}

// Printer writes events as plain lines. It is safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styles: newStyles()}
}

func (p *Printer) Title(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, p.styles.title.Render(title))
}

func (p *Printer) Notify(e sheetcopy.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e.Kind == sheetcopy.EventProgress {
		fmt.Fprintf(p.w, "\n[%d/%d] %s\n", e.Current, e.Total, e.Label)
		return
	}
	fmt.Fprintln(p.w, p.styles.line(e.Level, e.Message))
}

// PrintSummary writes the closing block of a run.
func PrintSummary(w io.Writer, s *sheetcopy.Summary) {
	st := newStyles()
	fmt.Fprintf(w, "\n========================================\n")
	fmt.Fprintf(w, "Copy complete!\n")
	fmt.Fprintln(w, st.ok.Render(fmt.Sprintf("✓ Copied: %d (%d rows)", s.Succeeded, s.Rows)))
	if s.Skipped > 0 {
		fmt.Fprintln(w, st.warn.Render(fmt.Sprintf("⚠ Skipped: %d", s.Skipped)))
	}
	if s.Failed > 0 {
		fmt.Fprintln(w, st.error.Render(fmt.Sprintf("❌ Failed: %d", s.Failed)))
		for _, r := range s.Results {
			if r.Err != nil && !r.Skipped {
				fmt.Fprintf(w, "   %s → %s: %v\n", r.Source, r.Target, r.Err)
			}
		}
	}
}

const (
	maxLines = 10
	barWidth = 30
)

type eventMsg sheetcopy.Event

type doneMsg struct{ err error }

type logLine struct {
	level slog.Level
	text  string
}

type model struct {
	title      string
	current    int
	total      int
	label      string
	lines      []logLine
	done       bool
	err        error
	cancelling bool
	cancel     context.CancelFunc
	styles     styles
}

func newModel(title string, cancel context.CancelFunc) model {
	return model{title: title, cancel: cancel, styles: newStyles()}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if msg.Kind == sheetcopy.EventProgress {
			m.current, m.total, m.label = msg.Current, msg.Total, msg.Label
			return m, nil
		}
		m.lines = append(m.lines, logLine{level: msg.Level, text: msg.Message})
		if len(m.lines) > maxLines {
			m.lines = m.lines[len(m.lines)-maxLines:]
		}
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.cancelling && m.cancel != nil {
				m.cancel()
			}
			m.cancelling = true
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.bar())
	b.WriteString("\n\n")
	for _, l := range m.lines {
		b.WriteString(m.styles.line(l.level, l.text))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(m.styles.error.Render("❌ " + m.err.Error()))
	case m.done:
		b.WriteString(m.styles.ok.Render("✓ Done"))
	case m.cancelling:
		b.WriteString(m.styles.warn.Render("Cancelling after the current sheet..."))
	default:
		b.WriteString(m.styles.help.Render("ctrl+c: cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) bar() string {
	filled := 0
	if m.total > 0 {
		filled = min(m.current*barWidth/m.total, barWidth)
	}
	bar := m.styles.bar.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%s %d/%d %s", bar, m.current, m.total, m.label)
}
