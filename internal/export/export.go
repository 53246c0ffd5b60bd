// Package export writes search results to files in several formats.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/filesystem"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/pricing"
)

// Format is an output encoding
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatTable Format = "table"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatTable:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want json, yaml, toml or table)", name)
	}
}

// FormatFromPath picks a format from the file extension, defaulting to table
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatTable
	}
}

// Report is the exported document
type Report struct {
	Query       string                    `json:"query" yaml:"query" toml:"query"`
	GeneratedAt time.Time                 `json:"generated_at" yaml:"generated_at" toml:"generated_at"`
	Summary     *pricing.Summary          `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
	Results     []aggregator.SearchResult `json:"results" yaml:"results" toml:"results"`
}

// NewReport bundles results with their price summary
func NewReport(query string, results []aggregator.SearchResult, at time.Time) Report {
	r := Report{Query: query, GeneratedAt: at.UTC(), Results: results}
	if r.Results == nil {
		r.Results = []aggregator.SearchResult{}
	}
	if summary, ok := aggregator.Summarize(results); ok {
		r.Summary = &summary
	}
	return r
}

// Encode writes r to w in format f
func Encode(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(r)
	case FormatTable:
		return encodeTable(w, r)
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

func encodeTable(w io.Writer, r Report) error {
	fmt.Fprintf(w, "Found %d pricing results for %q\n", len(r.Results), r.Query)
	if r.Summary != nil {
		fmt.Fprintf(w, "Low %s  High %s  Avg %s  (%d priced)\n",
			pricing.Format(r.Summary.Min), pricing.Format(r.Summary.Max), pricing.Format(r.Summary.Mean), r.Summary.Count)
	}
	if len(r.Results) == 0 {
		return nil
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tPRICE\tTITLE\tHOST")
	for _, res := range r.Results {
		price := "-"
		if res.HasPrice() {
			price = pricing.FormatToken(res.Price)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Source, price, truncate(res.Title, 60), res.Host())
	}
	return tw.Flush()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// Manager writes reports to disk, backing up files it would overwrite
type Manager struct {
	backupDir string
	fs        filesystem.FileSystem
	now       func() time.Time
}

// NewManager creates a new export manager
func NewManager(backupDir string) *Manager {
	return NewManagerWithFS(backupDir, filesystem.NewOSFileSystem())
}

// NewManagerWithFS creates a new export manager with a custom FileSystem (for testing)
func NewManagerWithFS(backupDir string, fs filesystem.FileSystem) *Manager {
	return &Manager{
		backupDir: backupDir,
		fs:        fs,
		now:       time.Now,
	}
}

// Write encodes r as f and writes it to path
func (m *Manager) Write(path string, f Format, r Report) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f, r); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}

	if err := m.backupFile(path); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := m.fs.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// DefaultPath names an export file under dir from the query and time
func DefaultPath(dir, query string, f Format, at time.Time) string {
	ext := string(f)
	if f == FormatTable {
		ext = "txt"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", slug(query), at.Format("20060102-150405"), ext))
}

func slug(query string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(query) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "search"
	}
	return s
}

// backupFile copies an existing file into the backup directory
func (m *Manager) backupFile(path string) error {
	if m.backupDir == "" {
		return nil
	}

	if _, err := m.fs.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := m.fs.MkdirAll(m.backupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	baseName := filepath.Base(path)
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(path))
	pathHash := fmt.Sprintf("%08x", hasher.Sum32())
	timestamp := m.now().UTC().Format("20060102-150405.000000000")
	backupPath := filepath.Join(m.backupDir, fmt.Sprintf("%s.%s.%s.backup", baseName, timestamp, pathHash))

	data, err := m.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file for backup: %w", err)
	}

	if err := m.fs.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return nil
}
