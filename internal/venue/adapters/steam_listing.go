package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/venue"
)

// SteamListing scrapes Steam's market search render endpoint, which returns
// the full catalog page by page ("start"/"count" offsets) rather than one
// item at a time, complementing SteamMarket's per-item priceoverview feed.
type SteamListing struct{}

type steamListingResponse struct {
	TotalCount int `json:"total_count"`
	Results    []struct {
		Name          string `json:"name"`
		SellPriceText string `json:"sell_price_text"`
	} `json:"results"`
}

func (SteamListing) Identifier() string { return "steam_listing" }

func (SteamListing) Plan() venue.FetchPlan {
	return venue.FetchPlan{
		Kind:      venue.FetchPaginated,
		BaseURL:   "https://steamcommunity.com/market/search/render/?appid=730&norender=1",
		PageSize:  100,
		PageParam: "start",
	}
}

func (SteamListing) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp steamListingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("steam_listing: %w", err)
	}
	out := make([]venue.RawItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		price, err := parseDollarString(r.SellPriceText)
		if err != nil {
			continue
		}
		out = append(out, venue.RawItem{"name": r.Name, "price": price})
	}
	return out, nil
}

func (SteamListing) Normalize(item venue.RawItem) venue.Listing {
	name := getString(item, "name")
	return venue.Listing{
		ItemName: name,
		Price:    getFloat(item, "price"),
		Venue:    "steam_listing",
		URL:      "https://steamcommunity.com/market/listings/730/" + profit.EncodeItemName(name),
	}
}

func (SteamListing) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}
