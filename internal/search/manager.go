package search

import (
	"fmt"
	"time"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/config"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/filesystem"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/httpclient"
)

// NewProvider builds the configured provider on a rate-limited, timeout-bounded
// HTTP client and wraps it in a circuit breaker.
func NewProvider(cfg *config.Config) (Provider, error) {
	timeout := time.Duration(cfg.Search.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}
	client := httpclient.NewRateLimitedClient(
		httpclient.NewDefaultHTTPClientWithTimeout(timeout),
		httpclient.NewRateLimiter(time.Minute, cfg.Search.RequestsPerMinute),
	)
	return NewProviderWithClient(cfg, client, filesystem.NewOSFileSystem())
}

// NewProviderWithClient is NewProvider with injected transport and filesystem (for testing)
func NewProviderWithClient(cfg *config.Config, client httpclient.HTTPClient, fs filesystem.FileSystem) (Provider, error) {
	var provider Provider

	switch cfg.Search.Provider {
	case config.ProviderGoogle:
		if cfg.Search.Google.APIKey == "" || cfg.Search.Google.CX == "" {
			return nil, fmt.Errorf("google search requires API key and CX")
		}
		provider = NewGoogleProviderWithClient(cfg.Search.Google.APIKey, cfg.Search.Google.CX, client)
	case config.ProviderSerper:
		if cfg.Search.Serper.APIKey == "" {
			return nil, fmt.Errorf("serper search requires API key")
		}
		provider = NewSerperProviderWithClient(cfg.Search.Serper.APIKey, client)
	case config.ProviderSerpAPI:
		if cfg.Search.SerpAPI.APIKey == "" {
			return nil, fmt.Errorf("serpapi search requires API key")
		}
		provider = NewSerpAPIProviderWithClient(cfg.Search.SerpAPI.APIKey, client)
	case config.ProviderDuckDuckGo:
		provider = NewDuckDuckGoProviderWithClient(client)
	case config.ProviderFile:
		if cfg.Search.File.Path == "" {
			return nil, fmt.Errorf("file search requires search.file.path")
		}
		provider = NewFileProviderWithFS(cfg.Search.File.Path, fs)
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}

	return NewBreakerProvider(
		provider,
		cfg.Search.Breaker.MaxFailures,
		time.Duration(cfg.Search.Breaker.OpenSeconds)*time.Second,
	), nil
}
