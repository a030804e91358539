package progress

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"sheetPush/internal/sheetcopy"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestModel_TracksProgressAndLogs(t *testing.T) {
	m := newModel("Copy", nil)
	m, _ = update(t, m, eventMsg{Kind: sheetcopy.EventProgress, Current: 2, Total: 4, Label: "book.xlsx"})
	m, _ = update(t, m, eventMsg{Kind: sheetcopy.EventLog, Level: slog.LevelWarn, Message: "No data to copy"})

	assert.Equal(t, 2, m.current)
	assert.Equal(t, 4, m.total)
	view := m.View()
	assert.Contains(t, view, "2/4 book.xlsx")
	assert.Contains(t, view, "⚠ No data to copy")
	assert.Contains(t, view, strings.Repeat("█", 15)+strings.Repeat("░", 15))
}

func TestModel_KeepsLastLines(t *testing.T) {
	m := newModel("Copy", nil)
	for i := 0; i < maxLines+5; i++ {
		m, _ = update(t, m, eventMsg{Kind: sheetcopy.EventLog, Message: string(rune('a' + i))})
	}
	require.Len(t, m.lines, maxLines)
	assert.Equal(t, "f", m.lines[0].text)
}

func TestModel_DoneQuits(t *testing.T) {
	m := newModel("Copy", nil)
	m, cmd := update(t, m, doneMsg{err: errors.New("boom")})
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "❌ boom")
}

func TestModel_CtrlCCancelsOnce(t *testing.T) {
	calls := 0
	m := newModel("Copy", func() { calls++ })
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, calls)
	assert.True(t, m.cancelling)
	assert.Contains(t, m.View(), "Cancelling")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Notify(sheetcopy.Event{Kind: sheetcopy.EventProgress, Current: 1, Total: 3, Label: "Лист1"})
	p.Notify(sheetcopy.Event{Kind: sheetcopy.EventLog, Level: slog.LevelInfo, Message: "Wrote 5 rows"})
	p.Notify(sheetcopy.Event{Kind: sheetcopy.EventLog, Level: slog.LevelError, Message: "failed"})

	out := buf.String()
	assert.Contains(t, out, "[1/3] Лист1")
	assert.Contains(t, out, "Wrote 5 rows")
	assert.Contains(t, out, "❌ failed")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &sheetcopy.Summary{
		Succeeded: 2,
		Skipped:   1,
		Failed:    1,
		Rows:      40,
		Results: []sheetcopy.SheetResult{
			{Source: "a.xlsx", Target: "Data", Err: errors.New("quota")},
			{Source: "b.xlsx", Target: "Data", Skipped: true, Err: errors.New("missing")},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "✓ Copied: 2 (40 rows)")
	assert.Contains(t, out, "⚠ Skipped: 1")
	assert.Contains(t, out, "❌ Failed: 1")
	assert.Contains(t, out, "a.xlsx → Data: quota")
	assert.NotContains(t, out, "missing")
}
