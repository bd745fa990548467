package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// MarketCSGO reports prices in cents and requires an API key for its bulk
// price list endpoint.
type MarketCSGO struct{}

type marketCSGOResponse struct {
	Items []struct {
		Hash  string `json:"hash_name"`
		Price int    `json:"price"`
	} `json:"items"`
}

func (MarketCSGO) Identifier() string { return "marketcsgo" }

func (MarketCSGO) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://market.csgo.com/api/v2/prices/class_instance/USD.json"}
}

func (MarketCSGO) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp marketCSGOResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("marketcsgo: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = venue.RawItem{"name": it.Hash, "price_cents": float64(it.Price)}
	}
	return out, nil
}

func (MarketCSGO) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price_cents") / 100,
		Venue:    "marketcsgo",
	}
}

func (MarketCSGO) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (MarketCSGO) RequiresAPIKey() bool { return true }

func (MarketCSGO) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
