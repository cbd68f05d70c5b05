package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Values come from config.yaml
// with environment variables (POLYMARKET_*) taking precedence.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		GammaURL   string  `yaml:"gamma_url"`
		ClobURL    string  `yaml:"clob_url"`
		DataURL    string  `yaml:"data_url"`
		WSURL      string  `yaml:"ws_url"`
		TimeoutSec int     `yaml:"timeout_sec"`
		RatePerSec float64 `yaml:"rate_per_sec"`
		Burst      int     `yaml:"burst"`
	} `yaml:"api"`

	Feed struct {
		EventSlug       string   `yaml:"event_slug"`
		AssetIDs        []string `yaml:"asset_ids"` // explicit scope; skips slug resolution
		Reconnect       bool     `yaml:"reconnect"`
		ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
		PingIntervalSec int      `yaml:"ping_interval_sec"`
	} `yaml:"feed"`

	Book struct {
		// PricePlaces is the normalization precision for level keys.
		// It tracks the venue's minimum tick granularity.
		PricePlaces int32 `yaml:"price_places"`
		DepthLimit  int   `yaml:"depth_limit"`
	} `yaml:"book"`

	Cache struct {
		TTLSec int `yaml:"ttl_sec"`
	} `yaml:"cache"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the built-in defaults for the public Polymarket
// endpoints.
func DefaultConfig() *Config {
	var c Config
	c.App.Name = "poly-market"
	c.App.Version = "dev"
	c.API.GammaURL = "https://gamma-api.polymarket.com"
	c.API.ClobURL = "https://clob.polymarket.com"
	c.API.DataURL = "https://data-api.polymarket.com"
	c.API.WSURL = "wss://ws-subscriptions-clob.polymarket.com/ws/market"
	c.API.TimeoutSec = 10
	c.API.RatePerSec = 10
	c.API.Burst = 5
	c.Feed.Reconnect = false
	c.Feed.ReadTimeoutSec = 60
	c.Feed.PingIntervalSec = 10
	c.Book.PricePlaces = 5
	c.Book.DepthLimit = 10
	c.Cache.TTLSec = 300
	c.Server.Addr = ":8080"
	c.Logging.Level = "info"
	return &c
}

// LoadConfig reads and parses the config file, then applies environment
// overrides and validates. A missing file falls back to defaults so the
// service can run from env alone.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.WSURL, "ws://") && !strings.HasPrefix(c.API.WSURL, "wss://") {
		return fmt.Errorf("invalid websocket URL: %s", c.API.WSURL)
	}
	for _, u := range []string{c.API.GammaURL, c.API.ClobURL, c.API.DataURL} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("invalid REST base URL: %s", u)
		}
	}
	if c.Feed.EventSlug == "" && len(c.Feed.AssetIDs) == 0 {
		return fmt.Errorf("either feed.event_slug or feed.asset_ids is required")
	}
	if c.Book.PricePlaces < 0 || c.Book.PricePlaces > 18 {
		return fmt.Errorf("book.price_places out of range: %d", c.Book.PricePlaces)
	}
	if c.Book.DepthLimit <= 0 {
		return fmt.Errorf("book.depth_limit must be positive")
	}
	if c.API.RatePerSec <= 0 || c.API.Burst <= 0 {
		return fmt.Errorf("api rate limit must be positive")
	}
	return nil
}

func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("POLYMARKET_EVENT_SLUG"); v != "" {
		cfg.Feed.EventSlug = v
	}
	if v := os.Getenv("POLYMARKET_ASSET_IDS"); v != "" {
		cfg.Feed.AssetIDs = splitCSV(v)
	}
	if v := os.Getenv("POLYMARKET_WS_URL"); v != "" {
		cfg.API.WSURL = v
	}
	if v := os.Getenv("POLYMARKET_HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("POLYMARKET_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("POLYMARKET_RECONNECT"); v == "1" || v == "true" {
		cfg.Feed.Reconnect = true
	}
	if v := os.Getenv("POLYMARKET_PRICE_PLACES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Book.PricePlaces = int32(n)
		}
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
