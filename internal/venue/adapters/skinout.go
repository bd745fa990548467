package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Skinout paginates its public catalog by offset, prices already in
// dollars.
type Skinout struct{}

type skinoutResponse struct {
	Data []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"data"`
}

func (Skinout) Identifier() string { return "skinout" }

func (Skinout) Plan() venue.FetchPlan {
	return venue.FetchPlan{
		Kind:      venue.FetchPaginated,
		BaseURL:   "https://skinout.gg/api/market/items",
		PageSize:  100,
		PageParam: "offset",
	}
}

func (Skinout) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp skinoutResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("skinout: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Data))
	for i, it := range resp.Data {
		out[i] = venue.RawItem{"name": it.Name, "price": it.Price}
	}
	return out, nil
}

func (Skinout) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price"),
		Venue:    "skinout",
	}
}

func (Skinout) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}
