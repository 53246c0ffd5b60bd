package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/config"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/export"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/history"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/logger"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/search"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/terminal"
)

const version = "0.1.0"

var (
	cfg          *config.Config
	historyMgr   *history.Manager
	exportMgr    *export.Manager
	devMode      bool
	tuiEnabled   bool
	searchFormat string
	searchOutput string
	historyLimit int
)

var rootCmd = &cobra.Command{
	Use:   "going-rate",
	Short: "Wholesale and closeout price search",
	Long: "Search the web for wholesale, closeout and retail pricing.\n" +
		"Enter any product name, brand, or UPC to find current market rates.",
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("going-rate v%s\n", version)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a single price search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchCommand,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration with API keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
		if err != nil {
			return err
		}
		color.New(color.FgHiBlack).Printf("# %s\n", config.GetConfigFile())
		fmt.Println(string(data))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage search history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := historyMgr.List(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		printHistory(os.Stdout, entries)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := historyMgr.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println("Search history cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.PersistentPreRunE = initLogging
	rootCmd.PreRunE = openHistory
	searchCmd.PreRunE = openHistory
	historyListCmd.PreRunE = requireHistory
	historyClearCmd.PreRunE = requireHistory

	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "write log files to the current directory")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "table", "output format: table, json, yaml or toml")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "write results to a file instead of stdout")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
}

func main() {
	var err error

	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	exportMgr = export.NewManager(cfg.ExportDir)

	err = rootCmd.Execute()
	closeHistory()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

// initLogging runs before every command, after flags are parsed.
func initLogging(cmd *cobra.Command, args []string) error {
	logDir := cfg.LogDir
	if devMode {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		logDir = cwd
	}

	if err := logger.Init(logDir, logger.ParseLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tuiEnabled = terminal.HasTTY()
	if !tuiEnabled {
		color.NoColor = true
	}
	runPreflightChecks()

	logger.Info("going-rate v%s starting: %s", version, cmd.CommandPath())
	logger.Debug("config loaded: provider=%s", cfg.Search.Provider)
	return nil
}

// openHistory opens the history database for commands that record searches.
// Another running session may hold the database lock; searches then go unrecorded.
func openHistory(cmd *cobra.Command, args []string) error {
	if err := openHistoryDB(); err != nil {
		logger.Warn("search history disabled: %v", err)
	}
	return nil
}

// requireHistory is openHistory for the history commands, which fail without the database.
func requireHistory(cmd *cobra.Command, args []string) error {
	return openHistoryDB()
}

func openHistoryDB() error {
	if historyMgr != nil {
		return nil
	}
	mgr, err := history.NewManager(cfg.HistoryDir)
	if err != nil {
		if errors.Is(err, history.ErrLocked) {
			return fmt.Errorf("%w (close the other going-rate session and retry)", err)
		}
		return fmt.Errorf("failed to open history: %w", err)
	}
	historyMgr = mgr
	return nil
}

func closeHistory() {
	if historyMgr == nil {
		return
	}
	if err := historyMgr.Close(); err != nil {
		logger.Warn("failed to close history: %v", err)
	}
	historyMgr = nil
}

func runPreflightChecks() {
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if term == "" || term == "dumb" {
		tuiEnabled = false
		color.NoColor = true
		logger.Debug("limited terminal: TERM=%q (TUI and colour disabled)", term)
	}

	if os.Getenv("LC_ALL") == "" && os.Getenv("LANG") == "" {
		logger.Debug("locale is not set; a UTF-8 locale is recommended (e.g. LANG=C.UTF-8)")
	}

	checkWritableDir(cfg.HistoryDir, "history_dir")
	checkWritableDir(cfg.ExportDir, "export_dir")
	checkWritableDir(cfg.LogDir, "log_dir")
}

func checkWritableDir(path, label string) {
	if strings.TrimSpace(path) == "" {
		logger.Warn("%s is empty", label)
		return
	}
	testFile := filepath.Join(path, fmt.Sprintf(".writecheck-%d", time.Now().UnixNano()))
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		logger.Warn("%s is not writable: %s (%v)", label, path, err)
		return
	}
	_ = os.Remove(testFile)
}

// newAggregator builds the configured provider; sink may be nil.
func newAggregator(sink aggregator.Sink) (*aggregator.Aggregator, error) {
	return newAggregatorFor(cfg, sink)
}

func newAggregatorFor(c *config.Config, sink aggregator.Sink) (*aggregator.Aggregator, error) {
	provider, err := search.NewProvider(c)
	if err != nil {
		return nil, fmt.Errorf("search provider %q: %w", c.Search.Provider, err)
	}
	return aggregator.New(provider, sink), nil
}

// runSearch performs a search and records its outcome in history.
func runSearch(ctx context.Context, agg *aggregator.Aggregator, query string) ([]aggregator.SearchResult, error) {
	results, err := agg.Search(ctx, query)
	if errors.Is(err, aggregator.ErrEmptyQuery) || errors.Is(err, context.Canceled) {
		return results, err
	}
	if historyMgr == nil {
		return results, err
	}
	if _, recErr := historyMgr.Record(strings.TrimSpace(query), results, err); recErr != nil {
		logger.Warn("failed to record search history: %v", recErr)
	}
	return results, err
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(searchFormat)
	if err != nil {
		return err
	}

	agg, err := newAggregator(nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := strings.Join(args, " ")
	results, err := runSearch(ctx, agg, query)
	if err != nil {
		return err
	}

	report := export.NewReport(strings.TrimSpace(query), results, time.Now())
	if searchOutput != "" {
		if !cmd.Flags().Changed("format") {
			format = export.FormatFromPath(searchOutput)
		}
		if err := exportMgr.Write(searchOutput, format, report); err != nil {
			return err
		}
		color.Green("Saved %d results to %s\n", len(results), searchOutput)
		return nil
	}

	if format == export.FormatTable {
		printResults(os.Stdout, report.Query, results)
		return nil
	}
	return export.Encode(os.Stdout, format, report)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if tuiEnabled {
		if _, err := search.NewProvider(cfg); err != nil {
			return reportProviderError(err)
		}
		// the TUI owns the screen; keep log output in the file only
		logger.SetConsole(nil)
		defer logger.SetConsole(os.Stderr)
		return runTUI()
	}

	agg, err := newAggregator(nil)
	if err != nil {
		return reportProviderError(err)
	}
	return runREPL(agg)
}

func reportProviderError(err error) error {
	color.Red("%v\n", err)
	color.Yellow("Configure one with: going-rate config set search.provider duckduckgo\n")
	return err
}
