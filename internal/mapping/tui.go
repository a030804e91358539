package mapping

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateSelectLeft state = iota
	stateSelectRight
	stateConfirm
)

// UIConfig controls the grid of left-hand items.
type UIConfig struct {
	ColumnsPerRow int
	RowsPerPage   int
}

// Labels names what is being paired, e.g. "Excel sheets" → "Google worksheets".
type Labels struct {
	Title string
	Left  string
	Right string
}

// SuggestFunc proposes pairings for the unpaired left items.
type SuggestFunc func(ctx context.Context, left, right []string) ([]Suggestion, error)

type suggestionsMsg struct {
	suggestions []Suggestion
	err         error
}

type model struct {
	left     []string
	right    []string
	mappings map[string]string // left -> right
	ignored  map[string]bool

	labels  Labels
	suggest SuggestFunc

	state       state
	currentLeft string
	saved       bool
	suggesting  bool
	status      string

	// Grid navigation for left items
	page         int
	row          int
	col          int
	colsPerRow   int
	rowsPerPage  int
	itemsPerPage int

	// Right-hand list
	rightCursor  int
	rightPage    int
	rightPerPage int

	width  int
	height int

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	progressStyle lipgloss.Style
	mappedStyle   lipgloss.Style
	ignoredStyle  lipgloss.Style
}

func initialModel(left, right []string, ui UIConfig, labels Labels) model {
	if ui.ColumnsPerRow <= 0 {
		ui.ColumnsPerRow = 6
	}
	if ui.RowsPerPage <= 0 {
		ui.RowsPerPage = 2
	}
	if labels.Title == "" {
		labels.Title = "Mapping Tool"
	}
	if labels.Left == "" {
		labels.Left = "item"
	}
	if labels.Right == "" {
		labels.Right = "target"
	}

	return model{
		left:         left,
		right:        right,
		mappings:     make(map[string]string),
		ignored:      make(map[string]bool),
		labels:       labels,
		state:        stateSelectLeft,
		colsPerRow:   ui.ColumnsPerRow,
		rowsPerPage:  ui.RowsPerPage,
		itemsPerPage: ui.ColumnsPerRow * ui.RowsPerPage,
		rightPerPage: 15,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Align(lipgloss.Center),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		progressStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		mappedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Padding(0, 1),
		ignoredStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true).
			Padding(0, 1),
	}
}

// apply seeds the model with existing pairs. Pairs naming unknown items on
// either side are dropped; an empty Right marks the left item ignored.
func (m *model) apply(existing []Pair) {
	leftKnown := make(map[string]bool, len(m.left))
	for _, l := range m.left {
		leftKnown[l] = true
	}
	rightKnown := make(map[string]bool, len(m.right))
	for _, r := range m.right {
		rightKnown[r] = true
	}

	for _, p := range existing {
		if !leftKnown[p.Left] {
			continue
		}
		switch {
		case p.Right == "":
			m.ignored[p.Left] = true
		case rightKnown[p.Right]:
			m.mappings[p.Left] = p.Right
		}
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rightPerPage = max(m.height-6, 5)
	case suggestionsMsg:
		m.suggesting = false
		if msg.err != nil {
			m.status = fmt.Sprintf("AI suggestion failed: %v", msg.err)
			return m, nil
		}
		applied := 0
		for _, s := range msg.suggestions {
			if _, done := m.mappings[s.Source]; done || m.ignored[s.Source] {
				continue
			}
			if !m.isLeft(s.Source) {
				continue
			}
			m.mappings[s.Source] = s.Target
			applied++
		}
		m.status = fmt.Sprintf("AI suggested %d mappings", applied)
	case tea.KeyMsg:
		switch m.state {
		case stateSelectLeft:
			return m.updateSelectLeft(msg)
		case stateSelectRight:
			return m.updateSelectRight(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateSelectLeft(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.row > 0 {
			m.row--
		}

	case "down", "j":
		if m.row < m.maxRowForCurrentPage() {
			m.row++
			m.col = min(m.col, m.maxColForCurrentRow())
		}

	case "left", "h":
		if m.col > 0 {
			m.col--
		} else if m.page > 0 {
			m.page--
			m.col = m.colsPerRow - 1
			m.adjustPosition()
		}

	case "right", "l":
		if m.col < m.maxColForCurrentRow() {
			m.col++
		} else if m.hasNextPage() {
			m.page++
			m.col = 0
			m.row = 0
		}

	case "enter":
		if idx := m.currentIndex(); idx < len(m.left) {
			m.currentLeft = m.left[idx]
			m.state = stateSelectRight
			m.rightCursor = 0
			m.rightPage = 0
		}

	case "i":
		if idx := m.currentIndex(); idx < len(m.left) {
			item := m.left[idx]
			delete(m.mappings, item)
			if m.ignored[item] {
				delete(m.ignored, item)
			} else {
				m.ignored[item] = true
			}
		}

	case "n":
		m.moveToNextUnmapped()

	case "a":
		if m.suggest == nil || m.suggesting {
			return m, nil
		}
		pending := m.unmapped()
		if len(pending) == 0 {
			m.status = "Nothing left to suggest"
			return m, nil
		}
		m.suggesting = true
		m.status = fmt.Sprintf("Asking AI about %d items...", len(pending))
		suggest, right := m.suggest, m.right
		return m, func() tea.Msg {
			s, err := suggest(context.Background(), pending, right)
			return suggestionsMsg{suggestions: s, err: err}
		}

	case "s":
		m.state = stateConfirm
	}
	return m, nil
}

func (m model) updateSelectRight(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectLeft
	case "up", "k":
		if m.rightCursor > 0 {
			m.rightCursor--
		} else if m.rightPage > 0 {
			m.rightPage--
			m.rightCursor = m.rightPerPage - 1
		}
	case "down", "j":
		if m.rightCursor < m.maxRightCursor() {
			m.rightCursor++
		} else if m.hasNextRightPage() {
			m.rightPage++
			m.rightCursor = 0
		}
	case "left", "h":
		if m.rightPage > 0 {
			m.rightPage--
			m.rightCursor = min(m.rightCursor, m.maxRightCursor())
		}
	case "right", "l":
		if m.hasNextRightPage() {
			m.rightPage++
			m.rightCursor = min(m.rightCursor, m.maxRightCursor())
		}
	case "enter":
		idx := m.rightPage*m.rightPerPage + m.rightCursor
		if idx < len(m.right) {
			m.mappings[m.currentLeft] = m.right[idx]
			delete(m.ignored, m.currentLeft)
			m.state = stateSelectLeft
			m.moveToNextUnmapped()
		}
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.saved = true
		return m, tea.Quit
	case "ctrl+c", "q", "n":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectLeft
	}
	return m, nil
}

func (m model) currentIndex() int {
	return m.page*m.itemsPerPage + m.row*m.colsPerRow + m.col
}

func (m model) isLeft(item string) bool {
	for _, l := range m.left {
		if l == item {
			return true
		}
	}
	return false
}

func (m model) unmapped() []string {
	var out []string
	for _, l := range m.left {
		if _, done := m.mappings[l]; !done && !m.ignored[l] {
			out = append(out, l)
		}
	}
	return out
}

func (m model) maxRowForCurrentPage() int {
	remaining := len(m.left) - m.page*m.itemsPerPage
	if remaining <= 0 {
		return 0
	}
	rows := int(math.Ceil(float64(remaining) / float64(m.colsPerRow)))
	return min(rows, m.rowsPerPage) - 1
}

func (m model) maxColForCurrentRow() int {
	start := m.page*m.itemsPerPage + m.row*m.colsPerRow
	end := min(start+m.colsPerRow, len(m.left))
	return end - start - 1
}

func (m model) hasNextPage() bool {
	return (m.page+1)*m.itemsPerPage < len(m.left)
}

func (m model) hasNextRightPage() bool {
	return (m.rightPage+1)*m.rightPerPage < len(m.right)
}

func (m model) maxRightCursor() int {
	onPage := len(m.right) - m.rightPage*m.rightPerPage
	return min(onPage, m.rightPerPage) - 1
}

func (m *model) adjustPosition() {
	if m.currentIndex() >= len(m.left) {
		m.moveTo(len(m.left) - 1)
	}
}

func (m *model) moveTo(idx int) {
	if idx < 0 || m.itemsPerPage == 0 {
		return
	}
	m.page = idx / m.itemsPerPage
	remainder := idx % m.itemsPerPage
	m.row = remainder / m.colsPerRow
	m.col = remainder % m.colsPerRow
}

// moveToNextUnmapped searches forward from the cursor, wrapping once. The
// cursor stays put when everything is mapped or ignored.
func (m *model) moveToNextUnmapped() {
	if m.itemsPerPage == 0 || len(m.left) == 0 {
		return
	}
	current := m.currentIndex()
	for step := 1; step <= len(m.left); step++ {
		i := (current + step) % len(m.left)
		item := m.left[i]
		if _, done := m.mappings[item]; !done && !m.ignored[item] {
			m.moveTo(i)
			return
		}
	}
}

func (m model) View() string {
	switch m.state {
	case stateSelectLeft:
		return m.viewSelectLeft()
	case stateSelectRight:
		return m.viewSelectRight()
	case stateConfirm:
		return m.viewConfirm()
	}
	return ""
}

func (m model) viewSelectLeft() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Width(m.width).Render(m.labels.Title))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Progress: %d/%d mapped (%d ignored)", len(m.mappings), len(m.left), len(m.ignored))
	b.WriteString(m.progressStyle.Render(progress))
	b.WriteString("\n\n")

	totalPages := max(int(math.Ceil(float64(len(m.left))/float64(m.itemsPerPage))), 1)
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Page %d/%d", m.page+1, totalPages)))
	b.WriteString("\n\n")

	columnWidth := max((m.width-4)/m.colsPerRow, 10)

	for row := 0; row < m.rowsPerPage; row++ {
		var items []string
		for col := 0; col < m.colsPerRow; col++ {
			idx := m.page*m.itemsPerPage + row*m.colsPerRow + col
			if idx >= len(m.left) {
				break
			}

			item := m.left[idx]
			style := m.normalStyle
			text := item
			if target, ok := m.mappings[item]; ok {
				text = fmt.Sprintf("%s → %s", item, target)
				style = m.mappedStyle
			} else if m.ignored[item] {
				text = fmt.Sprintf("%s (ignored)", item)
				style = m.ignoredStyle
			}
			if row == m.row && col == m.col {
				style = m.selectedStyle
			}

			text = truncate(text, columnWidth-2)
			items = append(items, style.Render(fmt.Sprintf("%-*s", columnWidth-2, text)))
		}
		if len(items) > 0 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, items...))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.progressStyle.Render(m.status))
		b.WriteString("\n")
	}

	help := "↑↓←→: navigate | Enter: select | i: ignore | n: next unmapped | s: save | q: quit"
	if m.suggest != nil {
		help = "↑↓←→: navigate | Enter: select | i: ignore | n: next unmapped | a: AI suggest | s: save | q: quit"
	}
	b.WriteString(m.helpStyle.Render(help))
	return b.String()
}

func (m model) viewSelectRight() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render(fmt.Sprintf("Map '%s' to %s:", m.currentLeft, m.labels.Right)))
	b.WriteString("\n\n")

	totalPages := max(int(math.Ceil(float64(len(m.right))/float64(m.rightPerPage))), 1)
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Page %d/%d", m.rightPage+1, totalPages)))
	b.WriteString("\n\n")

	start := m.rightPage * m.rightPerPage
	end := min(start+m.rightPerPage, len(m.right))
	for i := start; i < end; i++ {
		if i-start == m.rightCursor {
			b.WriteString(m.selectedStyle.Render("> " + m.right[i]))
		} else {
			b.WriteString(m.normalStyle.Render("  " + m.right[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | ←→: prev/next page | Enter: select | Esc: back | q: quit"))
	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Save mapping?"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total %s: %d\n", m.labels.Left, len(m.left))
	fmt.Fprintf(&b, "Mapped: %d\n", len(m.mappings))
	fmt.Fprintf(&b, "Ignored: %d\n", len(m.ignored))
	fmt.Fprintf(&b, "Unmapped: %d\n", len(m.left)-len(m.mappings)-len(m.ignored))
	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("y/n to confirm, Esc to go back"))
	return b.String()
}

// result lists pairs and ignored items in left order.
func (m model) result() *Result {
	res := &Result{Saved: m.saved}
	for _, l := range m.left {
		if r, ok := m.mappings[l]; ok {
			res.Pairs = append(res.Pairs, Pair{Left: l, Right: r})
		} else if m.ignored[l] {
			res.Ignored = append(res.Ignored, l)
		}
	}
	return res
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width < 4 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// RunTUI lets the user pair left items with right items. existing seeds the
// session; suggest, when not nil, is bound to the "a" key.
func RunTUI(left, right []string, existing []Pair, ui UIConfig, labels Labels, suggest SuggestFunc) (*Result, error) {
	if len(left) == 0 {
		return nil, fmt.Errorf("no %s to map", labels.Left)
	}
	if len(right) == 0 {
		return nil, fmt.Errorf("no %s to map to", labels.Right)
	}

	m := initialModel(left, right, ui, labels)
	m.suggest = suggest
	m.apply(existing)
	if _, done := m.mappings[left[0]]; done || m.ignored[left[0]] {
		m.moveToNextUnmapped()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}
	return final.(model).result(), nil
}
