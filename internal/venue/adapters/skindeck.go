package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Skindeck exposes its marketplace listings behind an authenticated single
// endpoint, prices already in dollars.
type Skindeck struct{}

type skindeckResponse struct {
	Listings []struct {
		ItemName string  `json:"item_name"`
		Price    float64 `json:"price"`
		Slug     string  `json:"slug"`
	} `json:"listings"`
}

func (Skindeck) Identifier() string { return "skindeck" }

func (Skindeck) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://skindeck.com/api/v1/listings?game=csgo"}
}

func (Skindeck) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp skindeckResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("skindeck: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Listings))
	for i, it := range resp.Listings {
		out[i] = venue.RawItem{"name": it.ItemName, "price": it.Price, "slug": it.Slug}
	}
	return out, nil
}

func (Skindeck) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price"),
		Venue:    "skindeck",
		URL:      "https://skindeck.com/item/" + getString(item, "slug"),
	}
}

func (Skindeck) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (Skindeck) RequiresAPIKey() bool { return true }

func (Skindeck) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
