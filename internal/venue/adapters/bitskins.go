package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Bitskins paginates its market search endpoint by offset and reports
// prices in thousandths of a dollar. Requires an API key.
type Bitskins struct{}

type bitskinsResponse struct {
	List []struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
		ID    string `json:"asset_id"`
	} `json:"list"`
}

func (Bitskins) Identifier() string { return "bitskins" }

func (Bitskins) Plan() venue.FetchPlan {
	return venue.FetchPlan{
		Kind:      venue.FetchPaginated,
		BaseURL:   "https://api.bitskins.com/market/search/730",
		PageSize:  100,
		PageParam: "offset",
	}
}

func (Bitskins) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp bitskinsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("bitskins: %w", err)
	}
	out := make([]venue.RawItem, len(resp.List))
	for i, it := range resp.List {
		out[i] = venue.RawItem{"name": it.Name, "price_thousandths": float64(it.Price), "id": it.ID}
	}
	return out, nil
}

func (Bitskins) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price_thousandths") / 1000,
		Venue:    "bitskins",
		URL:      "https://bitskins.com/item/" + getString(item, "id"),
	}
}

func (Bitskins) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (Bitskins) RequiresAPIKey() bool { return true }

func (Bitskins) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
