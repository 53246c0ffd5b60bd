package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

func TestGoogleProvider_Search(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()

	response := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"title":   "Test Result 1",
				"link":    "https://example.com/1",
				"snippet": "Snippet 1",
			},
			{
				"title":   "Test Result 2",
				"link":    "https://example.com/2",
				"snippet": "Snippet 2",
			},
		},
	}

	responseBody, _ := json.Marshal(response)
	mockClient.SetResponse("https://www.googleapis.com/customsearch/v1?key=test-key&cx=test-cx&q=test&num=10", 200, string(responseBody), nil)

	provider := NewGoogleProviderWithClient("test-key", "test-cx", mockClient)

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
}

func TestGoogleProvider_LimitClamped(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://www.googleapis.com/customsearch/v1?key=test-key&cx=test-cx&q=test&num=10", 200, `{"items": []}`, nil)

	provider := NewGoogleProviderWithClient("test-key", "test-cx", mockClient)

	if _, err := provider.Search(context.Background(), "test", Options{Limit: 15}); err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
}

func TestGoogleProvider_ShoppingIsEmpty(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	provider := NewGoogleProviderWithClient("test-key", "test-cx", mockClient)

	resp, err := provider.Search(context.Background(), "test", Options{Limit: 15, Type: TypeShopping})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(resp.ShoppingResults) != 0 || len(resp.OrganicResults) != 0 {
		t.Errorf("Expected empty response, got %+v", resp)
	}
	if len(mockClient.GetRequests()) != 0 {
		t.Error("Expected no request for shopping search")
	}
}

func TestGoogleProvider_Search_Error(t *testing.T) {
	mockClient := httpclient.NewMockHTTPClient()
	mockClient.SetResponse("https://www.googleapis.com/customsearch/v1?key=test-key&cx=test-cx&q=test&num=10", 400, "Bad Request", nil)

	provider := NewGoogleProviderWithClient("test-key", "test-cx", mockClient)

	_, err := provider.Search(context.Background(), "test", Options{Limit: 10})
	if err == nil {
		t.Error("Expected error for 400 status, got nil")
	}
}

func TestGoogleProvider_Search_MissingKeys(t *testing.T) {
	provider := NewGoogleProvider("", "")

	_, err := provider.Search(context.Background(), "test", Options{Limit: 10})
	if err == nil {
		t.Error("Expected error for missing API keys, got nil")
	}
}
