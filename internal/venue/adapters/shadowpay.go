package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Shadowpay paginates its public catalog endpoint by offset. Requires an
// API key bound to the account tier that unlocks the bulk listing route.
type Shadowpay struct{}

type shadowpayResponse struct {
	Items []struct {
		Name  string  `json:"steam_market_hash_name"`
		Price float64 `json:"price"`
		URL   string  `json:"steam_market_url"`
	} `json:"items"`
}

func (Shadowpay) Identifier() string { return "shadowpay" }

func (Shadowpay) Plan() venue.FetchPlan {
	return venue.FetchPlan{
		Kind:      venue.FetchPaginated,
		BaseURL:   "https://api.shadowpay.com/api/v2/user/items/market",
		PageSize:  100,
		PageParam: "offset",
	}
}

func (Shadowpay) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp shadowpayResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("shadowpay: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = venue.RawItem{"name": it.Name, "price": it.Price, "url": it.URL}
	}
	return out, nil
}

func (Shadowpay) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price"),
		Venue:    "shadowpay",
		URL:      getString(item, "url"),
	}
}

func (Shadowpay) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (Shadowpay) RequiresAPIKey() bool { return true }

func (Shadowpay) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
