package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MaxRetries != DefaultSettings().MaxRetries {
		t.Fatalf("expected default max retries, got %d", s.MaxRetries)
	}
}

func TestLoadSettingsOverridesDefaults(t *testing.T) {
	path := writeTemp(t, "settings.yaml", `
max_retries: 7
proxy_enabled: false
log_level: debug
`)
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MaxRetries != 7 {
		t.Fatalf("expected max_retries 7, got %d", s.MaxRetries)
	}
	if s.ProxyEnabled {
		t.Fatal("expected proxy_enabled false")
	}
	if s.LogLevel != "debug" {
		t.Fatalf("expected log_level debug, got %q", s.LogLevel)
	}
	// Unset fields keep their default, not the zero value — YAML unmarshals
	// into the already-populated struct so only present keys overwrite it.
	if s.GlobalConcurrencyMax != DefaultSettings().GlobalConcurrencyMax {
		t.Fatalf("expected untouched field to retain default, got %d", s.GlobalConcurrencyMax)
	}
}

func TestLoadScrapersConfig(t *testing.T) {
	path := writeTemp(t, "scrapers.yaml", `
adapters:
  waxpeer:
    enabled: true
    rate_per_minute: 60
    requires_api_key: true
  steam_market:
    enabled: true
    use_proxy: true
    timeout_seconds: 15
`)
	c, err := LoadScrapersConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wax, ok := c.Adapters["waxpeer"]
	if !ok {
		t.Fatal("expected waxpeer adapter entry")
	}
	if wax.RatePerMinute != 60 || !wax.RequiresAPIKey {
		t.Fatalf("unexpected waxpeer override: %+v", wax)
	}
	steam := c.Adapters["steam_market"]
	if steam.Timeout().Seconds() != 15 {
		t.Fatalf("expected 15s timeout, got %v", steam.Timeout())
	}
}

func TestLoadAPIKeysConfig(t *testing.T) {
	path := writeTemp(t, "api_keys.yaml", `
requires_key:
  waxpeer: true
  steam_market: false
`)
	c, err := LoadAPIKeysConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.RequiresAPIKey("waxpeer") {
		t.Fatal("expected waxpeer to require a key")
	}
	if c.RequiresAPIKey("steam_market") {
		t.Fatal("expected steam_market to not require a key")
	}
	if c.RequiresAPIKey("unknown_venue") {
		t.Fatal("expected unknown venue to default to false")
	}
}

func TestLoadSearchFiltersConfig(t *testing.T) {
	path := writeTemp(t, "search_filters.yaml", `
presets:
  high_value:
    min_profit_percentage: 15
    min_price: 50
    platforms: ["waxpeer", "skinport"]
`)
	c, err := LoadSearchFiltersConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	preset, ok := c.Presets["high_value"]
	if !ok {
		t.Fatal("expected high_value preset")
	}
	if preset.MinProfitPercentage != 15 || len(preset.Platforms) != 2 {
		t.Fatalf("unexpected preset: %+v", preset)
	}
}
