// Package aggregator fans a price query out to wholesale, closeout and shopping
// searches and merges the answers into one ordered result list.
package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/logger"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/pricing"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/search"
)

// Aggregator runs categorized searches against a single provider.
// It is safe for concurrent use.
type Aggregator struct {
	provider search.Provider
	sink     Sink
	latest   atomic.Uint64
}

// New creates an Aggregator. sink may be nil.
func New(provider search.Provider, sink Sink) *Aggregator {
	return &Aggregator{provider: provider, sink: sink}
}

// Provider returns the underlying search provider
func (a *Aggregator) Provider() search.Provider {
	return a.provider
}

// Search runs the three sub-queries concurrently and returns their results
// concatenated as wholesale, closeout, shopping. Any sub-query failure fails the
// whole search with a *SearchError and no results.
//
// Only the most recently started search reports its outcome to the sink; an
// older search that finishes late still returns normally to its caller.
func (a *Aggregator) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	id := a.latest.Add(1)
	a.emit(Event{Kind: EventStarted, RequestID: id, Query: query})
	logger.Info("search #%d started: %q via %s", id, query, a.provider.Name())

	subQueries := Queries(query)
	responses := make([]*search.Response, len(subQueries))

	g, gctx := errgroup.WithContext(ctx)
	for i, sq := range subQueries {
		i, sq := i, sq
		g.Go(func() error {
			resp, err := a.provider.Search(gctx, sq.Text, sq.Options)
			if err != nil {
				return fmt.Errorf("%s search: %w", sq.Kind, err)
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("search #%d failed: %v", id, err)
		a.emitLatest(Event{Kind: EventFailed, RequestID: id, Query: query, Message: FailureMessage})
		return nil, &SearchError{Query: query, Err: err}
	}

	var results []SearchResult
	for i, sq := range subQueries {
		results = append(results, normalize(sq.Kind, responses[i])...)
	}
	if results == nil {
		results = []SearchResult{}
	}

	logger.Info("search #%d finished: %d results", id, len(results))
	a.emitLatest(Event{Kind: EventSucceeded, RequestID: id, Query: query, Results: results})
	return results, nil
}

func (a *Aggregator) emit(ev Event) {
	if a.sink != nil {
		a.sink(ev)
	}
}

// emitLatest drops outcomes of searches that a newer search has superseded.
func (a *Aggregator) emitLatest(ev Event) {
	if a.latest.Load() != ev.RequestID {
		logger.Debug("search #%d superseded, dropping %s event", ev.RequestID, ev.Kind)
		return
	}
	a.emit(ev)
}

func normalize(kind Kind, resp *search.Response) []SearchResult {
	if resp == nil {
		return nil
	}
	switch kind {
	case KindWholesale:
		return fromOrganic(resp.OrganicResults, SourceWholesale)
	case KindCloseout:
		return fromOrganic(resp.OrganicResults, SourceCloseout)
	default:
		return fromShopping(resp.ShoppingResults)
	}
}

func fromOrganic(items []search.OrganicResult, source string) []SearchResult {
	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			logger.Debug("skipping %s result without title or link: %+v", source, item)
			continue
		}
		snippet := strings.TrimSpace(item.Snippet)
		if snippet == "" {
			snippet = title
		}
		results = append(results, SearchResult{
			Title:   title,
			Link:    link,
			Snippet: snippet,
			Price:   pricing.Extract(snippet),
			Source:  source,
		})
	}
	return results
}

func fromShopping(items []search.ShoppingResult) []SearchResult {
	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			logger.Debug("skipping shopping result without title or link: %+v", item)
			continue
		}
		price := strings.TrimSpace(item.Price)
		source := strings.TrimSpace(item.Source)
		if source == "" {
			source = SourceShopping
		}
		snippet := strings.TrimSpace(item.Snippet)
		if snippet == "" {
			snippet = title
			if price != "" {
				snippet = title + " - " + price
			}
		}
		results = append(results, SearchResult{
			Title:   title,
			Link:    link,
			Snippet: snippet,
			Price:   price,
			Source:  source,
		})
	}
	return results
}
