package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Empire (CSGOEmpire) serves its market as a single JSON endpoint with
// prices in coin-cents (2 coins per dollar at the fixed peg this adapter
// assumes). Requires an API key.
type Empire struct{}

type empireResponse struct {
	Data []struct {
		MarketName string `json:"market_name"`
		MarketValue int   `json:"market_value"`
		ID          int    `json:"id"`
	} `json:"data"`
}

func (Empire) Identifier() string { return "empire" }

func (Empire) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://csgoempire.com/api/v2/trading/items"}
}

func (Empire) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp empireResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("empire: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Data))
	for i, it := range resp.Data {
		out[i] = venue.RawItem{"name": it.MarketName, "value_cents": float64(it.MarketValue), "id": float64(it.ID)}
	}
	return out, nil
}

func (Empire) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "value_cents") / 100,
		Venue:    "empire",
		URL:      fmt.Sprintf("https://csgoempire.com/item/%d", int(getFloat(item, "id"))),
	}
}

func (Empire) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (Empire) RequiresAPIKey() bool { return true }

func (Empire) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
