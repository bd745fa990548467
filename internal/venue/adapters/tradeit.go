package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skinarb/skinarb/internal/venue"
)

// TradeIt requires an API key and is fronted by a WAF that fingerprints
// modern HTTP client stacks, so it needs both an auth header and the
// engine's low-level transport.
type TradeIt struct{}

type tradeitResponse struct {
	Items []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"items"`
}

func (TradeIt) Identifier() string { return "tradeit" }

func (TradeIt) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: "https://tradeit.gg/api/v2/inventory/data?gameId=730"}
}

func (TradeIt) Parse(raw []byte) ([]venue.RawItem, error) {
	var resp tradeitResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("tradeit: %w", err)
	}
	out := make([]venue.RawItem, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = venue.RawItem{"name": it.Name, "price": it.Price}
	}
	return out, nil
}

func (TradeIt) Normalize(item venue.RawItem) venue.Listing {
	return venue.Listing{
		ItemName: getString(item, "name"),
		Price:    getFloat(item, "price"),
		Venue:    "tradeit",
	}
}

func (TradeIt) Validate(l venue.Listing) bool {
	return l.ItemName != "" && l.Price >= 0
}

func (TradeIt) RequiresAPIKey() bool { return true }

func (TradeIt) RequiresLowLevelClient() bool { return true }

func (TradeIt) Headers(ctx context.Context) map[string]string {
	return map[string]string{"Accept": "application/json"}
}
