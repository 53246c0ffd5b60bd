package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

// googleMaxResults is the Custom Search API page size ceiling
const googleMaxResults = 10

// GoogleProvider implements search using Google Custom Search API.
// The API has no shopping vertical, so shopping queries come back empty.
type GoogleProvider struct {
	apiKey string
	cx     string
	client httpclient.HTTPClient
}

// NewGoogleProvider creates a new Google provider
func NewGoogleProvider(apiKey, cx string) *GoogleProvider {
	return NewGoogleProviderWithClient(apiKey, cx, httpclient.NewDefaultHTTPClient())
}

// NewGoogleProviderWithClient creates a new Google provider with a custom HTTPClient (for testing)
func NewGoogleProviderWithClient(apiKey, cx string, client httpclient.HTTPClient) *GoogleProvider {
	return &GoogleProvider{
		apiKey: apiKey,
		cx:     cx,
		client: client,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	if p.apiKey == "" || p.cx == "" {
		return nil, fmt.Errorf("google API key or CX not set")
	}
	if opts.Type == TypeShopping {
		return &Response{}, nil
	}

	limit := opts.Limit
	if limit <= 0 || limit > googleMaxResults {
		limit = googleMaxResults
	}

	searchURL := fmt.Sprintf(
		"https://www.googleapis.com/customsearch/v1?key=%s&cx=%s&q=%s&num=%d",
		url.QueryEscape(p.apiKey),
		url.QueryEscape(p.cx),
		url.QueryEscape(query),
		limit,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var payload struct {
		Items []OrganicResult `json:"items"`
	}
	if err := fetchJSON(p.client, req, "google", &payload); err != nil {
		return nil, err
	}

	return &Response{OrganicResults: payload.Items}, nil
}
