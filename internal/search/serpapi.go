package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

const serpAPIBaseURL = "https://serpapi.com/search.json"

// SerpAPIProvider implements search using SerpAPI's Google engine
type SerpAPIProvider struct {
	apiKey  string
	baseURL string
	client  httpclient.HTTPClient
}

// NewSerpAPIProvider creates a new SerpAPI provider
func NewSerpAPIProvider(apiKey string) *SerpAPIProvider {
	return NewSerpAPIProviderWithClient(apiKey, httpclient.NewDefaultHTTPClient())
}

// NewSerpAPIProviderWithClient creates a new SerpAPI provider with a custom HTTPClient (for testing)
func NewSerpAPIProviderWithClient(apiKey string, client httpclient.HTTPClient) *SerpAPIProvider {
	return &SerpAPIProvider{
		apiKey:  apiKey,
		baseURL: serpAPIBaseURL,
		client:  client,
	}
}

func (p *SerpAPIProvider) Name() string { return "serpapi" }

// searchURL builds the request URL; url.Values encodes keys in sorted order.
func (p *SerpAPIProvider) searchURL(query string, opts Options) string {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", p.apiKey)
	if opts.Limit > 0 {
		params.Set("num", strconv.Itoa(opts.Limit))
	}
	if opts.Type == TypeShopping {
		params.Set("tbm", "shop")
	}
	return p.baseURL + "?" + params.Encode()
}

func (p *SerpAPIProvider) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("serpapi API key not set")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", p.searchURL(query, opts), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var payload struct {
		Error           string          `json:"error"`
		OrganicResults  []OrganicResult `json:"organic_results"`
		ShoppingResults []struct {
			ShoppingResult
			ProductLink string `json:"product_link"`
		} `json:"shopping_results"`
	}
	if err := fetchJSON(p.client, req, "serpapi", &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("serpapi API error: %s", payload.Error)
	}

	resp := &Response{OrganicResults: capOrganic(payload.OrganicResults, opts.Limit)}
	if payload.ShoppingResults != nil {
		resp.ShoppingResults = make([]ShoppingResult, 0, len(payload.ShoppingResults))
		for _, item := range payload.ShoppingResults {
			result := item.ShoppingResult
			if result.Link == "" {
				result.Link = item.ProductLink
			}
			resp.ShoppingResults = append(resp.ShoppingResults, result)
		}
		resp.ShoppingResults = capShopping(resp.ShoppingResults, opts.Limit)
	}
	return resp, nil
}
