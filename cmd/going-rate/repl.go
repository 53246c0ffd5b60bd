package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/export"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/logger"
)

// replSession holds the last completed search so it can be exported.
type replSession struct {
	agg         *aggregator.Aggregator
	lastQuery   string
	lastResults []aggregator.SearchResult
}

func runREPL(agg *aggregator.Aggregator) error {
	color.Cyan("=== %s ===\n", appTitle)
	color.Yellow("%s\n", queryHint)
	dimColor.Println("Type 'help' for commands, 'exit' or 'quit' to leave.")
	fmt.Println()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	var cancelMu sync.Mutex
	var currentCancel context.CancelFunc
	go func() {
		for range sigChan {
			cancelMu.Lock()
			cancel := currentCancel
			cancelMu.Unlock()
			if cancel != nil {
				cancel()
				continue
			}
			color.Yellow("\nGoodbye.\n")
			os.Exit(0)
		}
	}()

	session := &replSession{agg: agg}
	reader := bufio.NewReader(os.Stdin)

	for {
		color.Green("> ")
		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			if errors.Is(err, io.EOF) {
				color.Yellow("\nGoodbye.\n")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" || input == "q" {
			color.Yellow("Goodbye.\n")
			return nil
		}

		if session.handleCommand(os.Stdout, input) {
			continue
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancelMu.Lock()
		currentCancel = cancel
		cancelMu.Unlock()

		session.search(ctx, input)

		cancel()
		cancelMu.Lock()
		currentCancel = nil
		cancelMu.Unlock()
	}
}

func (s *replSession) search(ctx context.Context, query string) {
	dimColor.Println("Searching...")
	start := time.Now()
	results, err := runSearch(ctx, s.agg, query)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			color.Yellow("[search cancelled]\n")
		case errors.Is(err, aggregator.ErrSearchFailed):
			color.Red("%v\n", err)
			logger.Debug("search failure detail: %v", errors.Unwrap(err))
		default:
			color.Red("Error: %v\n", err)
		}
		return
	}

	s.lastQuery = strings.TrimSpace(query)
	s.lastResults = results
	printResults(os.Stdout, s.lastQuery, results)
	dimColor.Printf("(%s)\n", time.Since(start).Round(time.Millisecond))
}

// handleCommand runs REPL meta commands and reports whether input was one.
// Bare words are commands only when typed alone, so "clear plastic cups" is a search.
// Exporting to a chosen path uses the ":export <path>" form.
func (s *replSession) handleCommand(w io.Writer, input string) bool {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}

	if fields[0] == ":export" {
		if len(fields) > 2 {
			color.New(color.FgYellow).Fprintln(w, "Usage: :export [path]")
			return true
		}
		s.export(w, fields[1:])
		return true
	}
	if len(fields) != 1 {
		return false
	}

	switch fields[0] {
	case "help", "?":
		printREPLHelp(w)
	case "tips":
		printTips(w)
	case "clear":
		fmt.Fprint(w, "\x1b[2J\x1b[H")
	case "history":
		if historyMgr == nil {
			color.New(color.FgYellow).Fprintln(w, "Search history is unavailable in this session.")
			return true
		}
		entries, err := historyMgr.List(20)
		if err != nil {
			color.New(color.FgRed).Fprintf(w, "failed to list history: %v\n", err)
			return true
		}
		printHistory(w, entries)
	case "export":
		s.export(w, nil)
	default:
		return false
	}
	return true
}

func (s *replSession) export(w io.Writer, args []string) {
	if s.lastQuery == "" {
		color.New(color.FgYellow).Fprintln(w, "Nothing to export yet. Run a search first.")
		return
	}

	now := time.Now()
	format := export.FormatJSON
	path := export.DefaultPath(cfg.ExportDir, s.lastQuery, format, now)
	if len(args) == 1 {
		path = args[0]
		format = export.FormatFromPath(path)
	}

	report := export.NewReport(s.lastQuery, s.lastResults, now)
	if err := exportMgr.Write(path, format, report); err != nil {
		color.New(color.FgRed).Fprintf(w, "Export failed: %v\n", err)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "Saved %d results to %s\n", len(s.lastResults), path)
}

func printREPLHelp(w io.Writer) {
	fmt.Fprintln(w, "Enter a product name, brand, or UPC code to search.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  export          save the last results as JSON in the export directory")
	fmt.Fprintln(w, "  :export <path>  save the last results (.json, .yaml, .toml or .txt)")
	fmt.Fprintln(w, "  history         list recent searches")
	fmt.Fprintln(w, "  tips            show search tips")
	fmt.Fprintln(w, "  clear           clear the screen")
	fmt.Fprintln(w, "  exit            quit")
}
