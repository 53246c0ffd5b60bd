package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/pricing"
)

func (m tuiModel) View() string {
	parts := []string{m.headerView(), m.inputView()}
	if status := m.statusView(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.viewport.View())
	if filter := m.filterView(); filter != "" {
		parts = append(parts, filter)
	}
	parts = append(parts, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m tuiModel) headerView() string {
	provider := ""
	if m.agg != nil {
		provider = dimStyle.Render("  via " + m.agg.Provider().Name())
	}
	return titleStyle.Render(appTitle) + provider
}

func (m tuiModel) inputView() string {
	box := inputBoxStyle
	if m.focus == focusQuery {
		box = activeInputBoxStyle
	}
	// styles share their rules; size a copy, never the package-level style
	return box.Copy().Width(max(10, m.width-2)).Render(m.query.View())
}

func (m tuiModel) statusView() string {
	switch {
	case m.loading:
		line := m.spinner.View() + " " + subtitleStyle.Render(fmt.Sprintf("Searching for %q...", m.activeQuery))
		if m.rateLimit != nil && m.rateLimit.waiting {
			line += rateLimitStyle.Render(fmt.Sprintf("  rate limited, waiting %s", m.rateLimit.wait.Round(100*time.Millisecond)))
		}
		return line
	case m.notice != "":
		return dimStyle.Render(m.notice)
	default:
		return ""
	}
}

func (m tuiModel) filterView() string {
	if m.focus == focusFilter {
		return m.filter.View()
	}
	if q := m.filterQuery(); q != "" {
		return filterPromptStyle.Render("/ ") + dimStyle.Render(q)
	}
	return ""
}

func (m tuiModel) footerView() string {
	var keys string
	switch m.focus {
	case focusResults:
		keys = "↑/↓ scroll • / filter • tab search • ctrl+s export • ctrl+r refresh • q quit"
	case focusFilter:
		keys = "enter apply • esc clear filter"
	default:
		keys = "enter search • tab results • esc clear • ctrl+s export • ctrl+c quit"
	}
	return statusBarStyle.Render(keys)
}

// resultsView is the transient state the results pane is drawn from.
type resultsView struct {
	query   string
	results []aggregator.SearchResult
	total   int
	filter  string
	errMsg  string
}

func renderResults(v resultsView, width int) string {
	width = max(20, width)
	var b strings.Builder

	if v.errMsg != "" {
		b.WriteString(errorStyle.Render(v.errMsg))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Press enter to try again."))
		b.WriteString("\n")
		return b.String()
	}

	// zero results look the same as no search yet
	if v.total == 0 {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(queryHint))
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render("Search Tips"))
		b.WriteString("\n")
		for _, tip := range searchTips {
			b.WriteString(dimStyle.Render("  • " + truncateText(tip, width-4)))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Search Results for %q", v.query)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Found %d pricing results from across the web", v.total)))
	b.WriteString("\n")
	if line := summaryLine(v.results); line != "" {
		b.WriteString(summaryStyle.Render(line))
		b.WriteString("\n")
	}
	if v.filter != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Showing %d of %d matching %q", len(v.results), v.total, v.filter)))
		b.WriteString("\n")
	}

	for _, group := range aggregator.GroupBySource(v.results) {
		b.WriteString("\n")
		b.WriteString(sourceStyle(group.Source).Render(group.Source))
		b.WriteString(dimStyle.Render("  " + countLabel(len(group.Results))))
		b.WriteString("\n")
		for _, r := range group.Results {
			b.WriteString(renderResult(r, width))
		}
	}
	return b.String()
}

func renderResult(r aggregator.SearchResult, width int) string {
	textWidth := max(8, width-priceCellWidth-2)

	price := noPriceCellStyle.Render("-")
	if r.HasPrice() {
		price = priceCellStyle.Render(pricing.FormatToken(r.Price))
	}

	indent := strings.Repeat(" ", priceCellWidth+1)
	var b strings.Builder
	b.WriteString(price + " " + titleStyle.Render(truncateText(r.Title, textWidth)) + "\n")
	if r.Snippet != "" && r.Snippet != r.Title {
		b.WriteString(indent + dimStyle.Render(truncateText(r.Snippet, textWidth)) + "\n")
	}
	host := r.Host()
	if host == "" {
		host = r.Link
	}
	b.WriteString(indent + linkStyle.Render(truncateText(host, textWidth)) + "\n")
	return b.String()
}
