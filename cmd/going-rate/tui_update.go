package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/logger"
)

const reloadDebounce = 500 * time.Millisecond

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelSearch()
			return m, tea.Quit
		}
		switch m.focus {
		case focusResults:
			return m.handleResultsKey(msg)
		case focusFilter:
			return m.handleFilterKey(msg)
		default:
			return m.handleQueryKey(msg)
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case searchEventMsg:
		if msg.generation != m.generation {
			return m, waitForEvent(m.events)
		}
		return m.handleSearchEvent(msg.event)
	case rateLimitMsg:
		if msg.generation == m.generation && m.loading {
			if msg.status.waiting {
				status := msg.status
				m.rateLimit = &status
			} else {
				m.rateLimit = nil
			}
			m.adjustViewport()
		}
		return m, waitForEvent(m.events)
	case configChangedMsg:
		if time.Since(m.lastReload) < reloadDebounce {
			return m, waitForEvent(m.events)
		}
		m.lastReload = time.Now()
		return m, tea.Batch(reloadConfig, waitForEvent(m.events))
	case configReloadedMsg:
		return m.handleConfigReloaded(msg), nil
	case exportDoneMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.notice = fmt.Sprintf("Saved %d results to %s", msg.count, msg.path)
		}
		m.adjustViewport()
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusFilter {
		m.filter, cmd = m.filter.Update(msg)
	} else {
		m.query, cmd = m.query.Update(msg)
	}
	return m, cmd
}

func (m tuiModel) handleQueryKey(msg tea.KeyMsg) (tuiModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.query.Value())
		if value == "" {
			return m, nil
		}
		m.notice = ""
		return m, m.startSearch(value)
	case "tab":
		if len(m.results) > 0 {
			m.focus = focusResults
			m.query.Blur()
		}
		return m, nil
	case "esc":
		switch {
		case m.loading:
			m.abortSearch()
		case m.query.Value() != "":
			m.query.SetValue("")
		default:
			m.clearResults()
		}
		return m, nil
	case "ctrl+r":
		return m, m.refresh()
	case "ctrl+s":
		return m, m.export()
	}

	if key := msg.String(); key == "pgup" || key == "pgdown" {
		_, cmd := m.handleViewportKey(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m tuiModel) handleResultsKey(msg tea.KeyMsg) (tuiModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "i":
		m.focus = focusQuery
		return m, m.query.Focus()
	case "/":
		m.focus = focusFilter
		m.adjustViewport()
		return m, m.filter.Focus()
	case "esc":
		if m.filtered != nil {
			m.clearFilter()
			return m, nil
		}
		m.focus = focusQuery
		return m, m.query.Focus()
	case "q":
		m.cancelSearch()
		return m, tea.Quit
	case "ctrl+r":
		return m, m.refresh()
	case "ctrl+s":
		return m, m.export()
	}

	if handled, cmd := m.handleViewportKey(msg); handled {
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m tuiModel) handleFilterKey(msg tea.KeyMsg) (tuiModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.focus = focusResults
		m.filter.Blur()
		m.adjustViewport()
		return m, nil
	case "esc":
		m.clearFilter()
		m.focus = focusResults
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.filtered = matchResults(m.filter.Value(), m.results)
	m.refreshViewport()
	m.viewport.GotoTop()
	return m, cmd
}

func (m tuiModel) handleSearchEvent(ev aggregator.Event) (tuiModel, tea.Cmd) {
	next := waitForEvent(m.events)
	switch ev.Kind {
	case aggregator.EventStarted:
		// starts may arrive out of order; only a newer search takes over
		if ev.RequestID < m.requestID {
			return m, next
		}
		wasLoading := m.loading
		m.requestID = ev.RequestID
		m.loading = true
		m.activeQuery = ev.Query
		m.errMsg = ""
		m.adjustViewport()
		if wasLoading {
			return m, next
		}
		return m, tea.Batch(next, m.spinner.Tick)
	case aggregator.EventSucceeded:
		if ev.RequestID != m.requestID {
			return m, next
		}
		m.finishLoading()
		m.lastQuery = ev.Query
		m.results = ev.Results
		logger.Debug("tui showing %d results for %q", len(ev.Results), ev.Query)
	case aggregator.EventFailed:
		if ev.RequestID != m.requestID {
			return m, next
		}
		m.finishLoading()
		m.errMsg = ev.Message
		m.results = nil
	}
	m.filtered = nil
	m.filter.SetValue("")
	if len(m.results) == 0 && m.focus != focusQuery {
		m.focus = focusQuery
		m.filter.Blur()
		next = tea.Batch(next, m.query.Focus())
	}
	m.adjustViewport()
	m.refreshViewport()
	m.viewport.GotoTop()
	return m, next
}

func (m tuiModel) handleConfigReloaded(msg configReloadedMsg) tuiModel {
	if msg.err != nil {
		logger.Warn("config reload failed: %v", msg.err)
		m.notice = fmt.Sprintf("Config reload failed: %v", msg.err)
		m.adjustViewport()
		return m
	}
	if m.loading {
		m.abortSearch()
	}
	if err := m.rebuildAggregator(msg.cfg); err != nil {
		logger.Warn("config reload failed: %v", err)
		m.notice = fmt.Sprintf("Config reload failed: %v", err)
		m.adjustViewport()
		return m
	}
	cfg = msg.cfg
	m.requestID = 0
	logger.Info("config reloaded: provider=%s", cfg.Search.Provider)
	m.notice = fmt.Sprintf("Configuration reloaded (provider: %s)", cfg.Search.Provider)
	m.adjustViewport()
	return m
}

func (m *tuiModel) finishLoading() {
	m.loading = false
	m.activeQuery = ""
	m.rateLimit = nil
	m.errMsg = ""
}

// abortSearch cancels the running search. Its failure event is dropped because
// requestID moves past it.
func (m *tuiModel) abortSearch() {
	m.cancelSearch()
	m.requestID++
	m.finishLoading()
	m.notice = "Search cancelled."
	m.adjustViewport()
}

func (m *tuiModel) clearResults() {
	m.results = nil
	m.lastQuery = ""
	m.errMsg = ""
	m.notice = ""
	m.filtered = nil
	m.filter.SetValue("")
	m.adjustViewport()
	m.refreshViewport()
}

func (m *tuiModel) clearFilter() {
	m.filtered = nil
	m.filter.SetValue("")
	m.filter.Blur()
	m.adjustViewport()
	m.refreshViewport()
}

func (m *tuiModel) refresh() tea.Cmd {
	if m.lastQuery == "" || m.loading {
		return nil
	}
	m.notice = ""
	return m.startSearch(m.lastQuery)
}

func (m *tuiModel) export() tea.Cmd {
	if m.lastQuery == "" {
		m.notice = "Nothing to export yet."
		m.adjustViewport()
		return nil
	}
	return exportResults(cfg.ExportDir, m.lastQuery, m.results)
}

// matchResults fuzzy-matches query against each result's title, source and host.
// It returns nil for an empty query, meaning no filter.
func matchResults(query string, results []aggregator.SearchResult) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	haystack := make([]string, len(results))
	for i, r := range results {
		haystack[i] = strings.ToLower(r.Title + " " + r.Source + " " + r.Host())
	}

	matches := fuzzy.Find(query, haystack)
	indices := make([]int, len(matches))
	for i, match := range matches {
		indices[i] = match.Index
	}
	return indices
}
