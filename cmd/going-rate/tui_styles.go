package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
)

const priceCellWidth = 12

// Color palette
var (
	accentBlue  = lipgloss.Color("#3B82F6")
	orange      = lipgloss.Color("#F97316")
	green       = lipgloss.Color("#10B981")
	red         = lipgloss.Color("#EF4444")
	amber       = lipgloss.Color("#F59E0B")
	dimGray     = lipgloss.Color("#6B7280")
	lightGray   = lipgloss.Color("#9CA3AF")
	white       = lipgloss.Color("#F9FAFB")
	borderColor = lipgloss.Color("#374151")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(white).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lightGray)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	priceCellStyle = priceStyle.Copy().
			Width(priceCellWidth)

	noPriceCellStyle = dimStyle.Copy().
				Width(priceCellWidth)

	linkStyle = lipgloss.NewStyle().
			Foreground(accentBlue).
			Underline(true)

	summaryStyle = lipgloss.NewStyle().
			Foreground(green)

	promptStyle = lipgloss.NewStyle().
			Foreground(accentBlue).
			Bold(true)

	filterPromptStyle = lipgloss.NewStyle().
				Foreground(amber).
				Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(dimGray)

	rateLimitStyle = lipgloss.NewStyle().
			Foreground(amber)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	activeInputBoxStyle = inputBoxStyle.Copy().
				BorderForeground(accentBlue)
)

// sourceStyle colours a source badge; named shopping merchants share the grey badge.
func sourceStyle(source string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(white)
	switch source {
	case aggregator.SourceWholesale:
		return base.Background(accentBlue)
	case aggregator.SourceCloseout:
		return base.Background(orange)
	case aggregator.SourceShopping:
		return base.Background(green)
	default:
		return base.Background(dimGray)
	}
}
