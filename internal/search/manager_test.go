package search

import (
	"testing"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/config"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/filesystem"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

func TestNewProviderWithClient(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		want    string
		wantErr bool
	}{
		{"duckduckgo", func(c *config.Config) { c.Search.Provider = config.ProviderDuckDuckGo }, "duckduckgo", false},
		{"serper", func(c *config.Config) { c.Search.Provider = config.ProviderSerper; c.Search.Serper.APIKey = "k" }, "serper", false},
		{"serper without key", func(c *config.Config) { c.Search.Provider = config.ProviderSerper }, "", true},
		{"serpapi", func(c *config.Config) { c.Search.Provider = config.ProviderSerpAPI; c.Search.SerpAPI.APIKey = "k" }, "serpapi", false},
		{"serpapi without key", func(c *config.Config) { c.Search.Provider = config.ProviderSerpAPI }, "", true},
		{"google", func(c *config.Config) {
			c.Search.Provider = config.ProviderGoogle
			c.Search.Google.APIKey = "k"
			c.Search.Google.CX = "cx"
		}, "google", false},
		{"google without cx", func(c *config.Config) { c.Search.Provider = config.ProviderGoogle; c.Search.Google.APIKey = "k" }, "", true},
		{"file", func(c *config.Config) { c.Search.Provider = config.ProviderFile; c.Search.File.Path = "/f.json" }, "file", false},
		{"file without path", func(c *config.Config) { c.Search.Provider = config.ProviderFile }, "", true},
		{"unknown", func(c *config.Config) { c.Search.Provider = "bing" }, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default("/test")
			tt.mutate(cfg)

			provider, err := NewProviderWithClient(cfg, httpclient.NewMockHTTPClient(), filesystem.NewMockFileSystem())
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProviderWithClient() failed: %v", err)
			}
			if _, ok := provider.(*BreakerProvider); !ok {
				t.Errorf("Expected provider wrapped in breaker, got %T", provider)
			}
			if provider.Name() != tt.want {
				t.Errorf("Expected provider '%s', got '%s'", tt.want, provider.Name())
			}
		})
	}
}

func TestNewProvider_DuckDuckGo(t *testing.T) {
	cfg := config.Default("/test")
	cfg.Search.Provider = config.ProviderDuckDuckGo
	cfg.Search.TimeoutSeconds = 0

	provider, err := NewProvider(cfg)
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	if provider == nil {
		t.Fatal("NewProvider() returned nil")
	}
}
