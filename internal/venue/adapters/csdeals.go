package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// CSDeals reports tradeable-item prices as an integer "for-trade" unit that
// must be divided by 100 to reach dollars (spec §4.4's explicit example).
type CSDeals struct{}

type csdealsResponse struct {
	Items []struct {
		MarketName string `json:"market_name"`
		Price      int    `json:"price"`
	} `json:"items"`
}

func (CSDeals) Identifier() string { return "csdeals" }

func (CSDeals) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://cs.deals/API/IndexController/GetShopInventory/v2?appid=730"}
}

func (CSDeals) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp csdealsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("csdeals: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = venue.RawItem{"name": it.MarketName, "for_trade": float64(it.Price)}
	}
	return out, nil
}

func (CSDeals) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "for_trade") / 100,
		Venue:    "csdeals",
	}
}

func (CSDeals) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}
