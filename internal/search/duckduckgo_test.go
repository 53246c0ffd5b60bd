package search

import (
	"context"
	"testing"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

const ddgPage = `<html><body>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fsupplier.example.com%2Fwidgets">Widgets <b>Wholesale</b></a></h2>
  <a class="result__snippet">Bulk widgets from $2.50 each</a>
</div>
<div class="result">
  <h2><a class="result__a" href="https://closeout.example.com/deal">Closeout widgets</a></h2>
  <a class="result__snippet">Liquidation lot</a>
</div>
<div class="result">
  <h2><a class="result__a" href="">Missing link</a></h2>
</div>
</body></html>`

func TestDuckDuckGoProvider_Search(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://html.duckduckgo.com/html/?q=test", 200, ddgPage, nil)

	provider := NewDuckDuckGoProviderWithClient(mockClient)

	resp, err := provider.Search(context.Background(), "test", Options{Limit: 10})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	if len(resp.OrganicResults) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(resp.OrganicResults))
	}
	first := resp.OrganicResults[0]
	if first.Title != "Widgets Wholesale" {
		t.Errorf("Expected title 'Widgets Wholesale', got '%s'", first.Title)
	}
	if first.Link != "https://supplier.example.com/widgets" {
		t.Errorf("Expected redirect to be unwrapped, got '%s'", first.Link)
	}
	if first.Snippet != "Bulk widgets from $2.50 each" {
		t.Errorf("Unexpected snippet '%s'", first.Snippet)
	}
}

func TestDuckDuckGoProvider_Limit(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://html.duckduckgo.com/html/?q=test", 200, ddgPage, nil)

	provider := NewDuckDuckGoProviderWithClient(mockClient)

	resp, err := provider.Search(context.Background(), "test", Options{Limit: 1})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(resp.OrganicResults) != 1 {
		t.Errorf("Expected 1 result, got %d", len(resp.OrganicResults))
	}
}

func TestDuckDuckGoProvider_ShoppingIsEmpty(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	provider := NewDuckDuckGoProviderWithClient(mockClient)

	resp, err := provider.Search(context.Background(), "test", Options{Type: TypeShopping})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(resp.ShoppingResults) != 0 {
		t.Errorf("Expected no shopping results, got %d", len(resp.ShoppingResults))
	}
}

func TestDuckDuckGoProvider_Search_Error(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://html.duckduckgo.com/html/?q=test", 500, "Internal Server Error", nil)

	provider := NewDuckDuckGoProviderWithClient(mockClient)

	_, err := provider.Search(context.Background(), "test", Options{Limit: 10})
	if err == nil {
		t.Error("Expected error for 500 status, got nil")
	}
}

func TestResolveRedirect(t *testing.T) {
	tests := map[string]string{
		"//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.example%2Fx": "https://a.example/x",
		"https://b.example/y":                                  "https://b.example/y",
		"//c.example/z":                                        "https://c.example/z",
	}
	for in, want := range tests {
		if got := resolveRedirect(in); got != want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}
