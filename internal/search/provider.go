package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

// ResultType selects which kind of listing a provider should return
type ResultType string

const (
	TypeOrganic  ResultType = ""
	TypeShopping ResultType = "shopping"
)

// Options tunes a single provider call
type Options struct {
	Limit int
	Type  ResultType
}

// OrganicResult is a generic web hit
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ShoppingResult is a structured product listing; Snippet, Price and Source may be empty
type ShoppingResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
	Price   string `json:"price,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Response is the normalized provider payload. Either list may be nil.
type Response struct {
	OrganicResults  []OrganicResult  `json:"organic_results,omitempty"`
	ShoppingResults []ShoppingResult `json:"shopping_results,omitempty"`
}

// Provider is the interface for search providers
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, opts Options) (*Response, error)
}

// fetchJSON sends req and decodes a 200 response body into out.
func fetchJSON(client httpclient.HTTPClient, req *http.Request, provider string, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s API error: %d - %s", provider, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func capOrganic(results []OrganicResult, limit int) []OrganicResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

func capShopping(results []ShoppingResult, limit int) []ShoppingResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
