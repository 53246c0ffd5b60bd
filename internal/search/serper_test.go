package search

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

func TestSerperProvider_Search(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()

	response := map[string]interface{}{
		"organic": []map[string]interface{}{
			{
				"title":   "Test Result 1",
				"link":    "https://example.com/1",
				"snippet": "Snippet 1 at $12.50",
			},
			{
				"title":   "Test Result 2",
				"link":    "https://example.com/2",
				"snippet": "Snippet 2",
			},
		},
	}

	responseBody, _ := json.Marshal(response)
	mockClient.SetResponse("https://google.serper.dev/search", 200, string(responseBody), map[string]string{
		"Content-Type": "application/json",
	})

	provider := NewSerperProviderWithClient("test-key", mockClient)

	resp, err := provider.Search(context.Background(), "test", Options{Limit: 10})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	if len(resp.OrganicResults) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(resp.OrganicResults))
	}
	if resp.OrganicResults[0].Title != "Test Result 1" {
		t.Errorf("Expected title 'Test Result 1', got '%s'", resp.OrganicResults[0].Title)
	}
	if resp.ShoppingResults != nil {
		t.Errorf("Expected no shopping results, got %d", len(resp.ShoppingResults))
	}

	requests := mockClient.GetRequests()
	if len(requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(requests))
	}
	if got := requests[0].Header.Get("X-API-KEY"); got != "test-key" {
		t.Errorf("Expected X-API-KEY 'test-key', got '%s'", got)
	}
	body, _ := io.ReadAll(requests[0].Body)
	var sent map[string]interface{}
	if err := json.Unmarshal(body, &sent); err != nil {
		t.Fatalf("Request body is not JSON: %v", err)
	}
	if sent["q"] != "test" || sent["num"] != float64(10) {
		t.Errorf("Unexpected request body: %s", body)
	}
}

func TestSerperProvider_Shopping(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://google.serper.dev/shopping", 200, `{
		"shopping": [
			{"title": "iPhone 14 128GB", "link": "https://shop.example.com/p/1", "price": "$599.99", "source": "Best Buy"},
			{"title": "iPhone 14 Refurb", "link": "https://shop.example.com/p/2", "price": "$449.00"}
		]
	}`, nil)

	provider := NewSerperProviderWithClient("test-key", mockClient)

	resp, err := provider.Search(context.Background(), "iphone 14", Options{Limit: 15, Type: TypeShopping})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	if len(resp.ShoppingResults) != 2 {
		t.Fatalf("Expected 2 shopping results, got %d", len(resp.ShoppingResults))
	}
	first := resp.ShoppingResults[0]
	if first.Price != "$599.99" || first.Source != "Best Buy" {
		t.Errorf("Unexpected first shopping result: %+v", first)
	}
	if resp.ShoppingResults[1].Source != "" {
		t.Errorf("Expected empty source, got '%s'", resp.ShoppingResults[1].Source)
	}
}

func TestSerperProvider_LimitCapsResults(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://google.serper.dev/search", 200, `{"organic": [
		{"title": "a", "link": "https://a.example"},
		{"title": "b", "link": "https://b.example"},
		{"title": "c", "link": "https://c.example"}
	]}`, nil)

	provider := NewSerperProviderWithClient("test-key", mockClient)

	resp, err := provider.Search(context.Background(), "test", Options{Limit: 2})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(resp.OrganicResults) != 2 {
		t.Errorf("Expected 2 results, got %d", len(resp.OrganicResults))
	}
}

func TestSerperProvider_Search_Error(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://google.serper.dev/search", 401, "Unauthorized", nil)

	provider := NewSerperProviderWithClient("test-key", mockClient)

	_, err := provider.Search(context.Background(), "test", Options{Limit: 10})
	if err == nil {
		t.Error("Expected error for 401 status, got nil")
	}
}

func TestSerperProvider_Search_MalformedJSON(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://google.serper.dev/search", 200, "{not json", nil)

	provider := NewSerperProviderWithClient("test-key", mockClient)

	if _, err := provider.Search(context.Background(), "test", Options{}); err == nil {
		t.Error("Expected error for malformed response, got nil")
	}
}

func TestSerperProvider_Search_MissingKey(t *testing.T) {
	provider := NewSerperProvider("")

	_, err := provider.Search(context.Background(), "test", Options{Limit: 10})
	if err == nil {
		t.Error("Expected error for missing API key, got nil")
	}
}
