package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// SymbolConfig is one entry of the tracked symbol universe. Order in the
// config file is the universe order.
type SymbolConfig struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// Config holds all application settings. Sensitive values can be
// overridden through environment variables after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		AlphaVantage struct {
			URL        string         `yaml:"url"`
			Key        string         `yaml:"key"`
			TimeoutSec int            `yaml:"timeout_sec"`
			Symbols    []SymbolConfig `yaml:"symbols"`
		} `yaml:"alphavantage"`
		LogoCDN struct {
			URL string `yaml:"url"`
		} `yaml:"logo_cdn"`
	} `yaml:"api"`

	Feed struct {
		TickIntervalMS int `yaml:"tick_interval_ms"`
		SendBuffer     int `yaml:"send_buffer"`
	} `yaml:"feed"`

	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a runnable configuration without a config file.
func DefaultConfig() *Config {
	var cfg Config
	cfg.API.AlphaVantage.Symbols = []SymbolConfig{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "GOOGL", Name: "Alphabet Inc."},
		{Symbol: "AMZN", Name: "Amazon.com Inc."},
		{Symbol: "TSLA", Name: "Tesla, Inc."},
		{Symbol: "META", Name: "Meta Platforms, Inc."},
		{Symbol: "NVDA", Name: "NVIDIA Corporation"},
		{Symbol: "NFLX", Name: "Netflix, Inc."},
	}
	overrideWithEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

// Universe returns the configured symbols in universe order.
func (c *Config) Universe() []string {
	symbols := make([]string, len(c.API.AlphaVantage.Symbols))
	for i, s := range c.API.AlphaVantage.Symbols {
		symbols[i] = s.Symbol
	}
	return symbols
}

// SymbolName returns the display name for a symbol, falling back to the
// symbol itself when no name is configured.
func (c *Config) SymbolName(symbol string) string {
	for _, s := range c.API.AlphaVantage.Symbols {
		if s.Symbol == symbol {
			return s.Name
		}
	}
	return symbol
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	av := c.API.AlphaVantage
	if !strings.HasPrefix(av.URL, "http://") && !strings.HasPrefix(av.URL, "https://") {
		return fmt.Errorf("invalid AlphaVantage URL: %s", av.URL)
	}
	if len(av.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	seen := make(map[string]bool, len(av.Symbols))
	for _, s := range av.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("symbol entry with empty symbol")
		}
		if seen[s.Symbol] {
			return fmt.Errorf("duplicate symbol: %s", s.Symbol)
		}
		seen[s.Symbol] = true
	}
	if av.TimeoutSec <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Feed.TickIntervalMS <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "stockfeed"
	}
	if cfg.API.AlphaVantage.URL == "" {
		cfg.API.AlphaVantage.URL = "https://www.alphavantage.co/query"
	}
	if cfg.API.AlphaVantage.Key == "" {
		cfg.API.AlphaVantage.Key = "demo"
	}
	if cfg.API.AlphaVantage.TimeoutSec == 0 {
		cfg.API.AlphaVantage.TimeoutSec = 5
	}
	if cfg.API.LogoCDN.URL == "" {
		cfg.API.LogoCDN.URL = "https://logo.clearbit.com"
	}
	if cfg.Feed.TickIntervalMS == 0 {
		cfg.Feed.TickIntervalMS = 1000
	}
	if cfg.Feed.SendBuffer == 0 {
		cfg.Feed.SendBuffer = 64
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// overrideWithEnv overrides settings from environment variables when present.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("STOCKFEED_ALPHAVANTAGE_KEY"); key != "" {
		cfg.API.AlphaVantage.Key = key
	}
	if addr := os.Getenv("STOCKFEED_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
}
