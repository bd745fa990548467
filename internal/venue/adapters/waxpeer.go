package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Waxpeer exposes its full catalog as a single JSON endpoint with prices in
// cents. Requires a bearer token from the Secrets Registry.
type Waxpeer struct{}

type waxpeerResponse struct {
	Items []struct {
		Name string `json:"name"`
		Price int   `json:"price"`
		ID    string `json:"item_id"`
	} `json:"items"`
}

func (Waxpeer) Identifier() string { return "waxpeer" }

func (Waxpeer) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://api.waxpeer.com/v1/prices?game=csgo&min_price=1&max_price=100000"}
}

func (Waxpeer) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp waxpeerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("waxpeer: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = venue.RawItem{"name": it.Name, "price_cents": float64(it.Price), "id": it.ID}
	}
	return out, nil
}

func (Waxpeer) Normalize(item venue.RawItem) venue.Listing {
	name := getString(item, "name")
	return venue.Listing{
		ItemName: name,
		Price:    getFloat(item, "price_cents") / 100,
		Venue:    "waxpeer",
		URL:      "https://waxpeer.com/item/" + getString(item, "id"),
	}
}

func (Waxpeer) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (Waxpeer) RequiresAPIKey() bool { return true }

func (Waxpeer) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
