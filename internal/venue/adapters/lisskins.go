package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Lisskins reports prices in thousandths of a dollar, same unit convention
// as Bitskins but through a public, unauthenticated endpoint.
type Lisskins struct{}

type lisskinsResponse struct {
	Items []struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
	} `json:"items"`
}

func (Lisskins) Identifier() string { return "lisskins" }

func (Lisskins) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://lis-skins.com/market_export_csgo.json"}
}

func (Lisskins) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp lisskinsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("lisskins: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = venue.RawItem{"name": it.Name, "price_thousandths": float64(it.Price)}
	}
	return out, nil
}

func (Lisskins) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price_thousandths") / 1000,
		Venue:    "lisskins",
	}
}

func (Lisskins) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}
