// Package config loads the four structured configuration files named in
// spec §6 (settings, scrapers, api_keys, search_filters) from YAML, in the
// teacher's one-loader-per-file style (internal/application/config.go).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the global knobs from settings.yaml.
type Settings struct {
	DefaultTimeoutSeconds int    `yaml:"default_timeout_seconds"`
	MaxRetries            int    `yaml:"max_retries"`
	GlobalConcurrencyMin  int    `yaml:"global_concurrency_min"`
	GlobalConcurrencyMax  int    `yaml:"global_concurrency_max"`
	ProxyEnabled          bool   `yaml:"proxy_enabled"`
	CacheMemoryLimitItems int    `yaml:"cache_memory_limit_items"`
	CacheDefaultTTLSecond int    `yaml:"cache_default_ttl_seconds"`
	LogLevel              string `yaml:"log_level"`

	MaxConnections        int `yaml:"max_connections"`
	MaxConnectionsPerHost int `yaml:"max_connections_per_host"`
	SteamConcurrencyLimit int `yaml:"steam_concurrency_limit"`
}

func (s Settings) DefaultTimeout() time.Duration {
	return time.Duration(s.DefaultTimeoutSeconds) * time.Second
}

func DefaultSettings() Settings {
	return Settings{
		DefaultTimeoutSeconds: 30,
		MaxRetries:            3,
		GlobalConcurrencyMin:  2,
		GlobalConcurrencyMax:  16,
		ProxyEnabled:          true,
		CacheMemoryLimitItems: 5000,
		CacheDefaultTTLSecond: 300,
		LogLevel:              "info",
		MaxConnections:        100,
		MaxConnectionsPerHost: 30,
		SteamConcurrencyLimit: 5,
	}
}

func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &s, nil
}

// ScraperOverride holds per-adapter tuning from scrapers.yaml.
type ScraperOverride struct {
	Enabled        bool    `yaml:"enabled"`
	IntervalSecond int     `yaml:"interval_seconds"`
	RatePerMinute  int     `yaml:"rate_per_minute"`
	Burst          int     `yaml:"burst"`
	UseProxy       bool    `yaml:"use_proxy"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RequiresAPIKey bool    `yaml:"requires_api_key"`
	LowLevelClient bool    `yaml:"low_level_client"`
	DynamicContent bool    `yaml:"dynamic_content"`
	CurrencyRate   float64 `yaml:"currency_rate,omitempty"`
}

func (o ScraperOverride) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

type ScrapersConfig struct {
	Adapters map[string]ScraperOverride `yaml:"adapters"`
}

func LoadScrapersConfig(path string) (*ScrapersConfig, error) {
	c := &ScrapersConfig{Adapters: map[string]ScraperOverride{}}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scrapers config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse scrapers config: %w", err)
	}
	return c, nil
}

// APIKeysConfig never carries real secrets (spec §6) — it only records which
// venues declare that they require one. The fail-fast check before any
// network call is driven by each adapter's venue.APIKeyAdapter declaration,
// not by this config.
type APIKeysConfig struct {
	RequiresKey map[string]bool `yaml:"requires_key"`
}

func LoadAPIKeysConfig(path string) (*APIKeysConfig, error) {
	c := &APIKeysConfig{RequiresKey: map[string]bool{}}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read api_keys config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse api_keys config: %w", err)
	}
	return c, nil
}

// RequiresAPIKey reports whether venue declares requires_api_key: true.
func (c *APIKeysConfig) RequiresAPIKey(venue string) bool {
	return c.RequiresKey[venue]
}

// SearchFilterPreset is a named opportunity-filtering preset from
// search_filters.yaml (spec §9: when a preset and a numeric threshold are
// both present, the preset wins).
type SearchFilterPreset struct {
	MinProfitPercentage float64  `yaml:"min_profit_percentage"`
	MinPrice            float64  `yaml:"min_price"`
	MaxPrice            float64  `yaml:"max_price,omitempty"`
	Platforms           []string `yaml:"platforms,omitempty"`
	TextSearch          string   `yaml:"text_search,omitempty"`
}

type SearchFiltersConfig struct {
	Presets map[string]SearchFilterPreset `yaml:"presets"`
}

func LoadSearchFiltersConfig(path string) (*SearchFiltersConfig, error) {
	c := &SearchFiltersConfig{Presets: map[string]SearchFilterPreset{}}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read search_filters config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse search_filters config: %w", err)
	}
	return c, nil
}

// ProxyPoolConfig names one named pool's geo tag and the proxy endpoint
// addresses that belong to it.
type ProxyPoolConfig struct {
	GeoTag    string   `yaml:"geo_tag,omitempty"`
	Addresses []string `yaml:"addresses"`
}

// ProxyPoolsConfig is proxy_pools.yaml: the address lists buildProxyPool
// hands to proxypool.Manager.AddPool. Separate from settings.yaml's single
// proxy_enabled toggle since a deployment's pool membership changes far
// more often than its on/off switch.
type ProxyPoolsConfig struct {
	Pools map[string]ProxyPoolConfig `yaml:"pools"`
}

func LoadProxyPoolsConfig(path string) (*ProxyPoolsConfig, error) {
	c := &ProxyPoolsConfig{Pools: map[string]ProxyPoolConfig{}}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read proxy_pools config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse proxy_pools config: %w", err)
	}
	return c, nil
}
