package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// Skinport serves its full item list from a single public endpoint, prices
// already in major units (dollars) when currency=USD is requested. Its
// quantity counts the units listed for sale, so a positive value fills the
// top-level Quantity; the raw value is always kept in extra["quantity_raw"].
type Skinport struct{}

type skinportItem struct {
	MarketHashName string  `json:"market_hash_name"`
	MinPrice       float64 `json:"min_price"`
	Quantity       int     `json:"quantity"`
}

func (Skinport) Identifier() string { return "skinport" }

func (Skinport) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://api.skinport.com/v1/items?app_id=730&currency=USD"}
}

func (Skinport) Parse(raw []byte) ([]venue.RawItem, error) {
	var items []skinportItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("skinport: %w", err)
	}
	out := make([]venue.RawItem, len(items))
	for i, it := range items {
		out[i] = venue.RawItem{"name": it.MarketHashName, "price": it.MinPrice, "quantity": float64(it.Quantity)}
	}
	return out, nil
}

func (Skinport) Normalize(item venue.RawItem) venue.Listing {
	qty := int(getFloat(item, "quantity"))
	l := venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price"),
		Venue:    "skinport",
		Extra:    map[string]interface{}{"quantity_raw": qty},
	}
	if qty > 0 {
		l.Quantity = intPtr(qty)
	}
	return l
}

func (Skinport) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0 && (l.Quantity == nil || *l.Quantity >= 0)
}
