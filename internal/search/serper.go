package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

const serperBaseURL = "https://google.serper.dev"

// SerperProvider implements search using Serper API
type SerperProvider struct {
	apiKey  string
	baseURL string
	client  httpclient.HTTPClient
}

// NewSerperProvider creates a new Serper provider
func NewSerperProvider(apiKey string) *SerperProvider {
	return NewSerperProviderWithClient(apiKey, httpclient.NewDefaultHTTPClient())
}

// NewSerperProviderWithClient creates a new Serper provider with a custom HTTPClient (for testing)
func NewSerperProviderWithClient(apiKey string, client httpclient.HTTPClient) *SerperProvider {
	return &SerperProvider{
		apiKey:  apiKey,
		baseURL: serperBaseURL,
		client:  client,
	}
}

func (p *SerperProvider) Name() string { return "serper" }

func (p *SerperProvider) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("serper API key not set")
	}

	reqBody := map[string]interface{}{
		"q": query,
	}
	if opts.Limit > 0 {
		reqBody["num"] = opts.Limit
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := p.baseURL + "/search"
	if opts.Type == TypeShopping {
		endpoint = p.baseURL + "/shopping"
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.apiKey)

	var payload struct {
		Organic  []OrganicResult `json:"organic"`
		Shopping []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Price   string `json:"price"`
			Source  string `json:"source"`
		} `json:"shopping"`
	}
	if err := fetchJSON(p.client, req, "serper", &payload); err != nil {
		return nil, err
	}

	resp := &Response{OrganicResults: capOrganic(payload.Organic, opts.Limit)}
	if payload.Shopping != nil {
		resp.ShoppingResults = make([]ShoppingResult, 0, len(payload.Shopping))
		for _, item := range payload.Shopping {
			resp.ShoppingResults = append(resp.ShoppingResults, ShoppingResult(item))
		}
		resp.ShoppingResults = capShopping(resp.ShoppingResults, opts.Limit)
	}
	return resp, nil
}
