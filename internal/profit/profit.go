// Package profit implements the profitability engine: it joins non-Steam
// venue snapshots against a unioned Steam reference table and emits ranked
// arbitrage Opportunities (§4.7). Opportunity's flat field shape is grounded
// on the FlipResult struct from the EVE trading-flip reference material
// (buy price/sell price/profit/margin as sibling float64 fields rather than
// nested structs), adapted to Steam's gross/net fee split.
package profit

import (
	"sort"
	"strings"
	"time"

	"github.com/skinarb/skinarb/internal/feecalc"
	"github.com/skinarb/skinarb/internal/venue"
)

// Mode selects whether Steam fees are applied before computing profit.
type Mode string

const (
	ModeFast     Mode = "fast"
	ModeComplete Mode = "complete"
)

const steamListingURLPrefix = "https://steamcommunity.com/market/listings/730/"

// URLTemplate builds a venue's item page URL from an already-encoded item
// name. Each non-Steam venue in internal/venue/adapters registers its
// template here so the profitability engine never hardcodes per-venue URL
// shapes outside the adapters that own them.
type URLTemplate func(encodedName string) string

// Opportunity is one computed arbitrage candidate (§3's Opportunity entity).
type Opportunity struct {
	ItemName         string    `json:"item_name"`
	BuyVenue         string    `json:"buy_venue"`
	BuyPrice         float64   `json:"buy_price"`
	BuyURL           string    `json:"buy_url"`
	SteamPrice       float64   `json:"steam_price"`
	NetSteamPrice    float64   `json:"net_steam_price"`
	ProfitAbsolute   float64   `json:"profit_absolute"`
	ProfitPercentage float64   `json:"profit_percentage"`
	SteamURL         string    `json:"steam_url"`
	Timestamp        time.Time `json:"timestamp"`
}

// Filters bounds the Engine's scan per §9's "preset wins over numeric
// threshold when both are present" decision.
type Filters struct {
	Mode                Mode
	MinProfitPercentage float64
	MinPrice            float64
	MaxResults          int
	Preset              *PresetFilter
}

// PresetFilter mirrors config.SearchFilterPreset; when non-nil its bounds
// take precedence over the numeric MinProfitPercentage/MinPrice fields.
type PresetFilter struct {
	MinProfitPercentage float64
	MinPrice            float64
	MaxPrice            float64
}

// Engine joins snapshots into ranked Opportunities.
type Engine struct {
	urlTemplates map[string]URLTemplate
}

func NewEngine() *Engine {
	return &Engine{urlTemplates: make(map[string]URLTemplate)}
}

// RegisterURLTemplate wires a venue's item-page URL builder. Adapters call
// this at startup so the engine never needs venue-specific knowledge beyond
// the template function itself.
func (e *Engine) RegisterURLTemplate(venueName string, tmpl URLTemplate) {
	e.urlTemplates[venueName] = tmpl
}

// SteamReference unions every Steam-origin snapshot, keeping the max price
// seen per item name (§4.7 step 1).
func SteamReference(snapshots []*venue.VenueSnapshot) map[string]float64 {
	ref := make(map[string]float64)
	for _, snap := range snapshots {
		for _, l := range snap.Listings {
			if cur, ok := ref[l.ItemName]; !ok || l.Price > cur {
				ref[l.ItemName] = l.Price
			}
		}
	}
	return ref
}

// Scan runs the §4.7 algorithm: discard below min_price, look up the Steam
// reference, compute net/profit, discard below threshold, sort, and
// truncate.
func (e *Engine) Scan(venueSnapshots []*venue.VenueSnapshot, steamRef map[string]float64, f Filters) []Opportunity {
	minPrice, minPct := resolveThresholds(f)

	now := time.Now()
	var out []Opportunity
	for _, snap := range venueSnapshots {
		for _, l := range snap.Listings {
			if l.Price < minPrice {
				continue
			}
			steamGross, ok := steamRef[l.ItemName]
			if !ok {
				continue
			}
			if f.Preset != nil && f.Preset.MaxPrice > 0 && l.Price > f.Preset.MaxPrice {
				continue
			}

			net := steamGross
			if f.Mode == ModeComplete {
				net = feecalc.Net(steamGross)
			}

			absolute := net - l.Price
			var pct float64
			if l.Price > 0 {
				pct = absolute / l.Price
			}
			if pct < minPct {
				continue
			}

			out = append(out, Opportunity{
				ItemName:         l.ItemName,
				BuyVenue:         snap.Venue,
				BuyPrice:         l.Price,
				BuyURL:           e.buildURL(snap.Venue, l.ItemName, l.URL),
				SteamPrice:       steamGross,
				NetSteamPrice:    net,
				ProfitAbsolute:   absolute,
				ProfitPercentage: pct,
				SteamURL:         steamListingURL(l.ItemName),
				Timestamp:        now,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ProfitPercentage != out[j].ProfitPercentage {
			return out[i].ProfitPercentage > out[j].ProfitPercentage
		}
		if out[i].ProfitAbsolute != out[j].ProfitAbsolute {
			return out[i].ProfitAbsolute > out[j].ProfitAbsolute
		}
		return out[i].ItemName < out[j].ItemName
	})

	if f.MaxResults > 0 && len(out) > f.MaxResults {
		out = out[:f.MaxResults]
	}
	return out
}

func resolveThresholds(f Filters) (minPrice, minPct float64) {
	if f.Preset != nil {
		return f.Preset.MinPrice, f.Preset.MinProfitPercentage
	}
	return f.MinPrice, f.MinProfitPercentage
}

func (e *Engine) buildURL(venueName, itemName, fallback string) string {
	tmpl, ok := e.urlTemplates[venueName]
	if !ok {
		return fallback
	}
	return tmpl(EncodeItemName(itemName))
}

func steamListingURL(itemName string) string {
	return steamListingURLPrefix + EncodeItemName(itemName)
}

// EncodeItemName applies the exact substitution the spec requires for
// stable venue URLs: ' ' becomes '%20' and '|' becomes '%7C'. This is
// deliberately narrower than url.QueryEscape, which would also touch
// characters (like parentheses) that Steam and the venues leave literal in
// item-page URLs.
func EncodeItemName(name string) string {
	r := strings.NewReplacer(" ", "%20", "|", "%7C")
	return r.Replace(name)
}
