package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// White (WhiteMarket) paginates its catalog and requires an API key,
// prices in cents.
type White struct{}

type whiteResponse struct {
	Items []struct {
		MarketHashName string `json:"market_hash_name"`
		Price          int    `json:"price"`
	} `json:"items"`
}

func (White) Identifier() string { return "white" }

func (White) Plan() venue.FetchPlan {
	return venue.FetchPlan{
		Kind:      venue.FetchPaginated,
		BaseURL:   "https://market.white.market/api/v1/items",
		PageSize:  100,
		PageParam: "offset",
	}
}

func (White) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp whiteResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("white: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = venue.RawItem{"name": it.MarketHashName, "price_cents": float64(it.Price)}
	}
	return out, nil
}

func (White) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price_cents") / 100,
		Venue:    "white",
	}
}

func (White) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (White) RequiresAPIKey() bool { return true }

func (White) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
