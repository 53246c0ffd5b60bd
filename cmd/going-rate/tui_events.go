package main

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/config"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/export"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/logger"
)

// searchEventMsg carries an aggregator event tagged with the aggregator generation.
type searchEventMsg struct {
	generation int
	event      aggregator.Event
}

type rateLimitMsg struct {
	generation int
	status     rateLimitStatus
}

type configChangedMsg struct{}

type configReloadedMsg struct {
	cfg *config.Config
	err error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

func eventSink(events chan<- tea.Msg, generation int) aggregator.Sink {
	return func(ev aggregator.Event) {
		events <- searchEventMsg{generation: generation, event: ev}
	}
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// startSearch runs query in the background; its outcome arrives as search events.
func (m *tuiModel) startSearch(query string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	events := m.events
	generation := m.generation
	ctx = httpclient.WithRateLimitReporter(ctx, func(wait time.Duration, waiting bool) {
		events <- rateLimitMsg{generation: generation, status: rateLimitStatus{waiting: waiting, wait: wait}}
	})

	agg := m.agg
	return func() tea.Msg {
		defer cancel()
		if _, err := runSearch(ctx, agg, query); err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("tui search %q: %v", query, errors.Unwrap(err))
		}
		return nil
	}
}

func (m *tuiModel) cancelSearch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func reloadConfig() tea.Msg {
	c, err := config.Load()
	return configReloadedMsg{cfg: c, err: err}
}

func exportResults(dir, query string, results []aggregator.SearchResult) tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		path := export.DefaultPath(dir, query, export.FormatJSON, now)
		err := exportMgr.Write(path, export.FormatJSON, export.NewReport(query, results, now))
		return exportDoneMsg{path: path, count: len(results), err: err}
	}
}
