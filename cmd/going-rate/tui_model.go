package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/config"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/logger"
)

type focusMode int

const (
	focusQuery focusMode = iota
	focusResults
	focusFilter
)

type rateLimitStatus struct {
	waiting bool
	wait    time.Duration
}

type tuiModel struct {
	query  textinput.Model
	filter textinput.Model
	focus  focusMode

	agg        *aggregator.Aggregator
	generation int
	events     chan tea.Msg
	cancel     context.CancelFunc

	// Transient search state, changed only by search events
	loading     bool
	requestID   uint64
	activeQuery string
	lastQuery   string
	results     []aggregator.SearchResult
	errMsg      string

	filtered   []int // indices into results; nil when no filter is applied
	notice     string
	rateLimit  *rateLimitStatus
	lastReload time.Time

	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

func runTUI() error {
	events := make(chan tea.Msg, 64)
	model, err := newTUIModel(events)
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() {
		err := config.Watch(ctx, config.GetConfigFile(), func() {
			events <- configChangedMsg{}
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	return err
}

func newTUIModel(events chan tea.Msg) (tuiModel, error) {
	m := tuiModel{
		events:   events,
		viewport: viewport.New(0, 0),
		spinner:  newSpinner(),
	}
	if err := m.rebuildAggregator(cfg); err != nil {
		return m, err
	}

	m.query = textinput.New()
	m.query.Prompt = "⌕ "
	m.query.Placeholder = queryPlaceholder
	m.query.PromptStyle = promptStyle
	m.query.PlaceholderStyle = placeholderStyle
	m.query.CharLimit = 200
	m.query.Focus()

	m.filter = textinput.New()
	m.filter.Prompt = "/ "
	m.filter.Placeholder = "type to filter..."
	m.filter.PromptStyle = filterPromptStyle
	m.filter.PlaceholderStyle = placeholderStyle

	return m, nil
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

// rebuildAggregator swaps in a provider built from c. Events from searches
// started on the previous aggregator are tagged with the old generation and ignored.
func (m *tuiModel) rebuildAggregator(c *config.Config) error {
	agg, err := newAggregatorFor(c, eventSink(m.events, m.generation+1))
	if err != nil {
		return err
	}
	m.generation++
	m.agg = agg
	return nil
}

func (m *tuiModel) resize() {
	m.query.Width = max(10, m.width-8)
	m.filter.Width = max(10, m.width-8)
	m.adjustViewport()
	m.refreshViewport()
}

// visibleResults returns the results that pass the active filter.
func (m tuiModel) visibleResults() []aggregator.SearchResult {
	if m.filtered == nil {
		return m.results
	}
	visible := make([]aggregator.SearchResult, 0, len(m.filtered))
	for _, i := range m.filtered {
		visible = append(visible, m.results[i])
	}
	return visible
}
