// Package secrets resolves API keys and proxy-vendor tokens from environment
// variables exclusively (spec §6) and redacts sensitive values before they
// reach logs or reports. Adapted from the teacher's environment-backed
// secret provider and pattern-based redactor.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Registry resolves secrets by venue/name and never persists what it reads.
type Registry struct {
	redactor *Redactor
}

func NewRegistry() *Registry {
	return &Registry{redactor: NewRedactor()}
}

// VenueAPIKey resolves "<VENUE>_API_KEY" for a venue identifier, e.g.
// VenueAPIKey("waxpeer") reads WAXPEER_API_KEY.
func (r *Registry) VenueAPIKey(venue string) (string, bool) {
	key := fmt.Sprintf("%s_API_KEY", strings.ToUpper(venue))
	v := os.Getenv(key)
	if v == "" {
		return "", false
	}
	return v, true
}

// ProxyVendorToken resolves one of the proxy vendor's recognized tokens
// (spec §6: OCULUS_AUTH_TOKEN, OCULUS_ORDER_TOKEN).
func (r *Registry) ProxyVendorToken(name string) (string, bool) {
	v := os.Getenv(name)
	if v == "" {
		return "", false
	}
	return v, true
}

// BoolToggle reads a global boolean toggle (BOT_USE_PROXY, BOT_CACHE_ENABLED)
// with the given default when unset or unparseable.
func BoolToggle(name string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// LogLevel reads BOT_LOG_LEVEL, defaulting to "info".
func LogLevel() string {
	v := os.Getenv("BOT_LOG_LEVEL")
	if v == "" {
		return "info"
	}
	return v
}

// Redactor returns the registry's shared pattern-based redactor. Log call
// sites and telemetry reports in this module do not pass through it.
func (r *Registry) Redactor() *Redactor { return r.redactor }
