package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newSpinner() spinner.Model {
	spin := spinner.New()
	spin.Spinner = spinner.Spinner{
		Frames: []string{"-", "\\", "|", "/"},
		FPS:    120 * time.Millisecond,
	}
	spin.Style = rateLimitStyle
	return spin
}

func (m *tuiModel) adjustViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.viewport.Width = max(10, m.width)
	used := lipgloss.Height(m.headerView()) +
		lipgloss.Height(m.inputView()) +
		lineCount(m.statusView()) +
		lineCount(m.filterView()) +
		lipgloss.Height(m.footerView())
	m.viewport.Height = max(1, m.height-used)
}

func (m *tuiModel) refreshViewport() {
	m.viewport.SetContent(renderResults(resultsView{
		query:   m.lastQuery,
		results: m.visibleResults(),
		total:   len(m.results),
		filter:  m.filterQuery(),
		errMsg:  m.errMsg,
	}, m.viewport.Width))
}

func (m tuiModel) filterQuery() string {
	if m.filtered == nil {
		return ""
	}
	return strings.TrimSpace(m.filter.Value())
}

func (m *tuiModel) handleViewportKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return true, cmd
	case "home", "g":
		m.viewport.GotoTop()
		return true, nil
	case "end", "G":
		m.viewport.GotoBottom()
		return true, nil
	default:
		return false, nil
	}
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
