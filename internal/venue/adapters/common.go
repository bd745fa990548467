// Package adapters holds one file per venue integration: each implements
// venue.Adapter (plus venue.DynamicContentAdapter, venue.APIKeyAdapter,
// venue.HeaderAdapter, or venue.LowLevelClientAdapter where applicable) and
// registers its profit.URLTemplate. Grounded on the teacher's per-exchange
// provider files (internal/provider/binance_provider.go,
// okx_provider.go, kraken_provider.go): one typed response decode per venue,
// including venues whose JSON shape is a bare array.
package adapters

import "github.com/skinarb/skinarb/internal/venue"

func getString(m venue.RawItem, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func getFloat(m venue.RawItem, key string) float64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func intPtr(n int) *int { return &n }
