// Package paths resolves well-known on-disk locations from the process
// environment so no literal paths leak into adapters or other components
// (DESIGN NOTES §9, "Implicit file paths").
package paths

import (
	"os"
	"path/filepath"
)

const (
	envData   = "SKINARB_DATA_DIR"
	envCache  = "SKINARB_CACHE_DIR"
	envConfig = "SKINARB_CONFIG_DIR"
	envLogs   = "SKINARB_LOG_DIR"
)

// Registry resolves the process's data/cache/config/log directories once at
// startup and hands out read-only accessors.
type Registry struct {
	dataDir   string
	cacheDir  string
	configDir string
	logDir    string
}

// New builds a Registry from the environment, falling back to sensible
// defaults rooted at the user's home directory when a variable is unset.
func New() *Registry {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	base := filepath.Join(home, ".skinarb")

	return &Registry{
		dataDir:   envOr(envData, filepath.Join(base, "data")),
		cacheDir:  envOr(envCache, filepath.Join(base, "cache")),
		configDir: envOr(envConfig, filepath.Join(base, "config")),
		logDir:    envOr(envLogs, filepath.Join(base, "logs")),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (r *Registry) DataDir() string   { return r.dataDir }
func (r *Registry) CacheDir() string  { return r.cacheDir }
func (r *Registry) ConfigDir() string { return r.configDir }
func (r *Registry) LogDir() string    { return r.logDir }

// ImageCacheDir is where the content-addressed image cache lives.
func (r *Registry) ImageCacheDir() string { return filepath.Join(r.cacheDir, "images") }

// VenueDataFile returns the on-disk artifact path for a venue's snapshot,
// e.g. "<data>/waxpeer_data.json".
func (r *Registry) VenueDataFile(venue string) string {
	return filepath.Join(r.dataDir, venue+"_data.json")
}

// ProfitabilityFile returns the OpportunityArchive path.
func (r *Registry) ProfitabilityFile() string {
	return filepath.Join(r.dataDir, "profitability_data.json")
}

// ConfigFile returns the path to a named config file within the config dir,
// e.g. ConfigFile("settings.yaml").
func (r *Registry) ConfigFile(name string) string {
	return filepath.Join(r.configDir, name)
}

// EnsureDirs creates the data/cache/config/log directories if absent.
func (r *Registry) EnsureDirs() error {
	for _, dir := range []string{r.dataDir, r.cacheDir, r.configDir, r.logDir, r.ImageCacheDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
