package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/filesystem"
)

// Provider names accepted by search.provider
const (
	ProviderSerper     = "serper"
	ProviderSerpAPI    = "serpapi"
	ProviderGoogle     = "google"
	ProviderDuckDuckGo = "duckduckgo"
	ProviderFile       = "file"
)

// BreakerConfig controls the circuit breaker around the search provider.
type BreakerConfig struct {
	MaxFailures uint32 `json:"max_failures"` // consecutive failures before the circuit opens
	OpenSeconds int    `json:"open_seconds"` // how long the circuit stays open
}

// SearchConfig selects and configures the web-search provider.
type SearchConfig struct {
	Provider string `json:"provider"` // "serper", "serpapi", "google", "duckduckgo", "file"
	Serper   struct {
		APIKey string `json:"api_key"`
	} `json:"serper"`
	SerpAPI struct {
		APIKey string `json:"api_key"`
	} `json:"serpapi"`
	Google struct {
		APIKey string `json:"api_key"`
		CX     string `json:"cx"` // Custom Search Engine ID
	} `json:"google"`
	File struct {
		Path string `json:"path"` // JSON fixture for offline searches
	} `json:"file"`
	TimeoutSeconds    int           `json:"timeout_seconds"`
	RequestsPerMinute int           `json:"requests_per_minute"` // 0 disables client-side limiting
	Breaker           BreakerConfig `json:"breaker"`
}

// Config holds the application configuration
type Config struct {
	Search     SearchConfig `json:"search"`
	HistoryDir string       `json:"history_dir"`
	ExportDir  string       `json:"export_dir"`
	LogDir     string       `json:"log_dir"`
	LogLevel   string       `json:"log_level"` // "debug", "info", "warn", "error"
}

var (
	configDir  = filepath.Join(os.Getenv("HOME"), ".going-rate")
	configFile = filepath.Join(configDir, "config.json")
	defaultFS  = filesystem.NewOSFileSystem()
)

// Default returns a configuration populated with defaults rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{}
	cfg.Search.Provider = ProviderSerper
	cfg.Search.TimeoutSeconds = 15
	cfg.Search.RequestsPerMinute = 60
	cfg.Search.Breaker.MaxFailures = 5
	cfg.Search.Breaker.OpenSeconds = 30
	cfg.HistoryDir = filepath.Join(dir, "history")
	cfg.ExportDir = filepath.Join(dir, "exports")
	cfg.LogDir = filepath.Join(dir, "logs")
	cfg.LogLevel = "info"
	return cfg
}

// Load loads the configuration from file or creates a default one
func Load() (*Config, error) {
	return LoadWithFS(defaultFS, configDir, configFile)
}

// LoadWithFS loads the configuration using a custom FileSystem (for testing)
func LoadWithFS(fs filesystem.FileSystem, dir, file string) (*Config, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := Default(dir)

	if _, err := fs.Stat(file); err == nil {
		data, err := fs.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		cfg.loadAPIKeysFromEnv()
		if err := cfg.SaveWithFS(fs, file); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	// Keys priority: config.json -> environment variables
	if cfg.loadAPIKeysFromEnv() {
		if err := cfg.SaveWithFS(fs, file); err != nil {
			return nil, fmt.Errorf("failed to save api keys from environment: %w", err)
		}
	}

	if err := cfg.ensureDir(fs, file, "history_dir", &cfg.HistoryDir, filepath.Join(dir, "history")); err != nil {
		return nil, err
	}
	if err := cfg.ensureDir(fs, file, "export_dir", &cfg.ExportDir, filepath.Join(dir, "exports")); err != nil {
		return nil, err
	}
	if err := cfg.ensureDir(fs, file, "log_dir", &cfg.LogDir, filepath.Join(dir, "logs")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to file
func (c *Config) Save() error {
	return c.SaveWithFS(defaultFS, configFile)
}

// SaveWithFS saves the configuration using a custom FileSystem (for testing)
func (c *Config) SaveWithFS(fs filesystem.FileSystem, file string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := fs.WriteFile(file, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFile returns the configuration file path
func GetConfigFile() string {
	return configFile
}

// loadAPIKeysFromEnv fills empty provider keys from the environment and
// reports whether anything changed.
func (c *Config) loadAPIKeysFromEnv() bool {
	changed := false
	fill := func(dst *string, env string) {
		if *dst != "" {
			return
		}
		if v := os.Getenv(env); v != "" {
			*dst = v
			changed = true
		}
	}

	fill(&c.Search.Serper.APIKey, "SERPER_API_KEY")
	fill(&c.Search.SerpAPI.APIKey, "SERPAPI_API_KEY")
	fill(&c.Search.Google.APIKey, "GOOGLE_API_KEY")
	fill(&c.Search.Google.CX, "GOOGLE_CX")
	return changed
}

func (c *Config) ensureDir(fs filesystem.FileSystem, file, key string, value *string, fallback string) error {
	if strings.TrimSpace(*value) == "" {
		*value = fallback
		if err := c.SaveWithFS(fs, file); err != nil {
			return fmt.Errorf("failed to save default %s: %w", key, err)
		}
	}

	if err := fs.MkdirAll(*value, 0755); err != nil {
		*value = fallback
		if err := fs.MkdirAll(*value, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", key, err)
		}
		if err := c.SaveWithFS(fs, file); err != nil {
			return fmt.Errorf("failed to save fallback %s: %w", key, err)
		}
	}

	return nil
}

// Set updates a config value by key.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "search.provider":
		switch value {
		case ProviderSerper, ProviderSerpAPI, ProviderGoogle, ProviderDuckDuckGo, ProviderFile:
			c.Search.Provider = value
		default:
			return fmt.Errorf("invalid search.provider: %s", value)
		}
	case "search.serper.api_key":
		c.Search.Serper.APIKey = value
	case "search.serpapi.api_key":
		c.Search.SerpAPI.APIKey = value
	case "search.google.api_key":
		c.Search.Google.APIKey = value
	case "search.google.cx":
		c.Search.Google.CX = value
	case "search.file.path":
		c.Search.File.Path = value
	case "search.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid search.timeout_seconds: %s", value)
		}
		c.Search.TimeoutSeconds = n
	case "search.requests_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid search.requests_per_minute: %s", value)
		}
		c.Search.RequestsPerMinute = n
	case "search.breaker.max_failures":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil || n == 0 {
			return fmt.Errorf("invalid search.breaker.max_failures: %s", value)
		}
		c.Search.Breaker.MaxFailures = uint32(n)
	case "search.breaker.open_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid search.breaker.open_seconds: %s", value)
		}
		c.Search.Breaker.OpenSeconds = n
	case "history_dir":
		c.HistoryDir = value
	case "export_dir":
		c.ExportDir = value
	case "log_dir":
		c.LogDir = value
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_level: %s", value)
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}

// Redacted returns a copy with API keys masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Search.Serper.APIKey = mask(c.Search.Serper.APIKey)
	out.Search.SerpAPI.APIKey = mask(c.Search.SerpAPI.APIKey)
	out.Search.Google.APIKey = mask(c.Search.Google.APIKey)
	return &out
}

func mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
