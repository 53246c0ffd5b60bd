// Package pricing pulls price tokens out of free text and summarizes them.
//
// Extraction is a best-effort heuristic over a few ordered regular
// expressions; it makes no claim of correctness on adversarial text.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// patterns are tried in order; the first family with any match wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+\.?\d*`),
	regexp.MustCompile(`USD\s*[\d,]+\.?\d*`),
	regexp.MustCompile(`(?i)[\d,]+\.?\d*\s*dollars?`),
	regexp.MustCompile(`(?i)price:?\s*\$?[\d,]+\.?\d*`),
}

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.,]`)
	leadingNumber = regexp.MustCompile(`^\d*\.?\d+`)
	printer       = message.NewPrinter(language.AmericanEnglish)
)

// Extract returns the first price token found in text, or "" when none is found.
func Extract(text string) string {
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// Parse turns a raw price token such as "$1,299.99" or "9.99 dollars" into a number.
// Everything but digits and separators is dropped before parsing the leading decimal.
func Parse(price string) (float64, bool) {
	cleaned := strings.ReplaceAll(nonNumeric.ReplaceAllString(price, ""), ",", "")
	digits := leadingNumber.FindString(cleaned)
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Summary describes the spread of the numeric prices in a result set.
type Summary struct {
	Min   float64 `json:"min" yaml:"min" toml:"min"`
	Max   float64 `json:"max" yaml:"max" toml:"max"`
	Mean  float64 `json:"mean" yaml:"mean" toml:"mean"`
	Count int     `json:"count" yaml:"count" toml:"count"`
}

// Summarize computes min, max and mean over the parseable prices.
// Empty and unparseable tokens are skipped; ok is false when nothing remains.
func Summarize(prices []string) (Summary, bool) {
	var s Summary
	var total float64
	for _, p := range prices {
		if p == "" {
			continue
		}
		v, ok := Parse(p)
		if !ok {
			continue
		}
		if s.Count == 0 || v < s.Min {
			s.Min = v
		}
		if s.Count == 0 || v > s.Max {
			s.Max = v
		}
		total += v
		s.Count++
	}
	if s.Count == 0 {
		return Summary{}, false
	}
	s.Mean = total / float64(s.Count)
	return s, true
}

// Format renders v in US dollars with grouping, e.g. "$1,299.5".
func Format(v float64) string {
	return "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatToken renders a raw provider token for display, falling back to the raw text.
func FormatToken(price string) string {
	if v, ok := Parse(price); ok {
		return Format(v)
	}
	return price
}
