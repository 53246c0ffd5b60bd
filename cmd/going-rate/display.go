package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/history"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/pricing"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/terminal"
)

const (
	appTitle         = "Discover Wholesale Prices"
	queryPlaceholder = "Enter product name, brand, or UPC code..."
	queryHint        = `Try: "iPhone 14", "Nike Air Max", "UPC 123456789", or any product name`
)

var searchTips = []string{
	`Include brand names for more specific results (e.g., "Apple iPhone 14")`,
	"Try UPC codes for exact product matches",
	`Add terms like "wholesale", "bulk", or "closeout" for better pricing`,
	"Search for model numbers or SKUs for precise results",
}

var (
	dimColor   = color.New(color.FgHiBlack)
	titleColor = color.New(color.FgHiWhite, color.Bold)
	priceColor = color.New(color.FgGreen, color.Bold)
)

func sourceColor(source string) *color.Color {
	switch source {
	case aggregator.SourceWholesale:
		return color.New(color.FgBlue, color.Bold)
	case aggregator.SourceCloseout:
		return color.New(color.FgYellow, color.Bold)
	case aggregator.SourceShopping:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgHiBlack, color.Bold)
	}
}

func countLabel(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// summaryLine describes the price spread, or "" when no result carries a price.
func summaryLine(results []aggregator.SearchResult) string {
	summary, ok := aggregator.Summarize(results)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Low %s · High %s · Avg %s (%d priced)",
		pricing.Format(summary.Min), pricing.Format(summary.Max), pricing.Format(summary.Mean), summary.Count)
}

func truncateText(s string, max int) string {
	if max <= 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func printDivider(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("-", terminal.Width()))
}

func printResults(w io.Writer, query string, results []aggregator.SearchResult) {
	fmt.Fprintln(w)
	titleColor.Fprintf(w, "Search Results for %q\n", query)
	dimColor.Fprintf(w, "Found %d pricing results from across the web\n", len(results))
	if line := summaryLine(results); line != "" {
		priceColor.Fprintln(w, line)
	}

	if len(results) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No results found. Try a different search term.")
		printTips(w)
		return
	}

	width := terminal.Width()
	for _, group := range aggregator.GroupBySource(results) {
		fmt.Fprintln(w)
		sourceColor(group.Source).Fprintf(w, "%s", group.Source)
		dimColor.Fprintf(w, "  %s\n", countLabel(len(group.Results)))
		printDivider(w)
		for _, r := range group.Results {
			printResult(w, r, width)
		}
	}
	fmt.Fprintln(w)
}

func printResult(w io.Writer, r aggregator.SearchResult, width int) {
	if r.HasPrice() {
		priceColor.Fprintf(w, "%-12s ", pricing.FormatToken(r.Price))
	} else {
		dimColor.Fprintf(w, "%-12s ", "-")
	}
	fmt.Fprintln(w, truncateText(r.Title, width-13))
	if r.Snippet != "" && r.Snippet != r.Title {
		dimColor.Fprintf(w, "%13s%s\n", "", truncateText(r.Snippet, width-13))
	}
	host := r.Host()
	if host == "" {
		host = r.Link
	}
	color.New(color.FgCyan).Fprintf(w, "%13s%s\n", "", host)
}

func printTips(w io.Writer) {
	fmt.Fprintln(w)
	titleColor.Fprintln(w, "Search Tips")
	for _, tip := range searchTips {
		dimColor.Fprintf(w, "  • %s\n", tip)
	}
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches yet.")
		return
	}
	for _, e := range entries {
		dimColor.Fprintf(w, "%s  ", e.Timestamp.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "%-30s ", truncateText(e.Query, 30))
		switch {
		case e.Failed:
			color.New(color.FgRed).Fprintln(w, "failed")
		case e.Summary != nil:
			fmt.Fprintf(w, "%-12s ", countLabel(e.ResultCount))
			priceColor.Fprintf(w, "%s – %s\n", pricing.Format(e.Summary.Min), pricing.Format(e.Summary.Max))
		default:
			fmt.Fprintln(w, countLabel(e.ResultCount))
		}
	}
}
