package aggregator

import (
	"net/url"
	"strings"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/pricing"
)

// Source labels for the two organic sub-queries, and the fallback for shopping listings
const (
	SourceWholesale = "Wholesale Search"
	SourceCloseout  = "Closeout Search"
	SourceShopping  = "Shopping"
)

// SearchResult is one normalized listing. Price is "" when none could be determined;
// otherwise it is the raw token as found, e.g. "$1,299.99" or "9.99 dollars".
type SearchResult struct {
	Title   string `json:"title" yaml:"title" toml:"title"`
	Link    string `json:"link" yaml:"link" toml:"link"`
	Snippet string `json:"snippet" yaml:"snippet" toml:"snippet"`
	Price   string `json:"price,omitempty" yaml:"price,omitempty" toml:"price,omitempty"`
	Source  string `json:"source" yaml:"source" toml:"source"`
}

// Host returns the hostname of Link without a leading "www.", or "" if Link does not parse.
func (r SearchResult) Host() string {
	u, err := url.Parse(r.Link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// HasPrice reports whether a price token is present
func (r SearchResult) HasPrice() bool {
	return r.Price != ""
}

// Group is the run of results sharing a source label
type Group struct {
	Source  string
	Results []SearchResult
}

// GroupBySource partitions results by Source. Groups appear in first-seen order
// and each keeps the relative order of its results.
func GroupBySource(results []SearchResult) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range results {
		i, ok := index[r.Source]
		if !ok {
			i = len(groups)
			index[r.Source] = i
			groups = append(groups, Group{Source: r.Source})
		}
		groups[i].Results = append(groups[i].Results, r)
	}
	return groups
}

// Summarize computes the price summary over the results that carry a parseable price.
func Summarize(results []SearchResult) (pricing.Summary, bool) {
	prices := make([]string, 0, len(results))
	for _, r := range results {
		prices = append(prices, r.Price)
	}
	return pricing.Summarize(prices)
}
