package adapters

import (
	"testing"

	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/venue"
)

func TestWaxpeerParseNormalize(t *testing.T) {
	raw := []byte(`{"items":[{"name":"AK-47 | Redline","price":3783,"item_id":"abc"}]}`)
	items, err := Waxpeer{}.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	l := Waxpeer{}.Normalize(items[0])
	if l.Price != 37.83 {
		t.Fatalf("expected cents-to-dollars conversion, got %v", l.Price)
	}
	if l.URL != "https://waxpeer.com/item/abc" {
		t.Fatalf("unexpected URL: %s", l.URL)
	}
	if !(Waxpeer{}).Validate(l) {
		t.Fatal("expected listing to validate")
	}
}

func TestCSDealsForTradeDivision(t *testing.T) {
	raw := []byte(`{"items":[{"market_name":"M4A4 | Howl","price":450000}]}`)
	items, err := CSDeals{}.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := CSDeals{}.Normalize(items[0])
	if l.Price != 4500.00 {
		t.Fatalf("expected for-trade/100 conversion, got %v", l.Price)
	}
}

func TestCSTradeStripsBuyerMarkup(t *testing.T) {
	raw := []byte(`{"items":[{"market_name":"Glock-18 | Fade","price":15.00}]}`)
	items, err := CSTrade{}.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := CSTrade{}.Normalize(items[0])
	if l.Price != 10.0 {
		t.Fatalf("expected markup-stripped price 10.0, got %v", l.Price)
	}
	if l.Extra["listed_price"] != 15.00 {
		t.Fatalf("expected listed_price preserved in extra, got %v", l.Extra["listed_price"])
	}
	if !(CSTrade{}).RequiresLowLevelClient() {
		t.Fatal("expected cstrade to require the low-level client")
	}
}

func TestBitskinsThousandthsConversion(t *testing.T) {
	raw := []byte(`{"list":[{"name":"USP-S | Kill Confirmed","price":12345,"asset_id":"x"}]}`)
	items, err := Bitskins{}.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := Bitskins{}.Normalize(items[0])
	if l.Price != 12.345 {
		t.Fatalf("expected thousandths conversion, got %v", l.Price)
	}
	if !(Bitskins{}).RequiresAPIKey() {
		t.Fatal("expected bitskins to require an API key")
	}
}

func TestSteamMarketParsesPriceOverview(t *testing.T) {
	raw := []byte(`{"success":true,"market_hash_name":"AWP | Asiimov (Field-Tested)","lowest_price":"$78.21"}`)
	sm := NewSteamMarket([]string{"AWP | Asiimov (Field-Tested)"})
	items, err := sm.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := sm.Normalize(items[0])
	if l.Price != 78.21 {
		t.Fatalf("expected 78.21, got %v", l.Price)
	}
}

func TestSteamMarketFailedOverviewYieldsNoItems(t *testing.T) {
	sm := NewSteamMarket(nil)
	items, err := sm.Parse([]byte(`{"success":false}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items for a failed overview, got %d", len(items))
	}
}

func TestSteamListingParsesRenderResponse(t *testing.T) {
	raw := []byte(`{"total_count":1,"results":[{"name":"P250 | Sand Dune","sell_price_text":"$1.23"}]}`)
	items, err := SteamListing{}.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := SteamListing{}.Normalize(items[0])
	if l.Price != 1.23 {
		t.Fatalf("expected 1.23, got %v", l.Price)
	}
}

func TestDynamicContentAdaptersDeclareSkipReason(t *testing.T) {
	dynamic := []venue.DynamicContentAdapter{MannCoStore{}, RapidSkins{}, SteamID{}}
	for _, d := range dynamic {
		if d.SkipReason() == "" {
			t.Fatalf("%s: expected a non-empty skip reason", d.Identifier())
		}
		if d.Validate(venue.Listing{ItemName: "x", Price: 1}) {
			t.Fatalf("%s: dynamic-content adapter should never validate a listing", d.Identifier())
		}
	}
}

func TestRegisterAllWiresEighteenVenues(t *testing.T) {
	reg := venue.NewRegistry()
	engine := profit.NewEngine()
	if err := RegisterAll(reg, engine, []string{"AK-47 | Redline"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := reg.All()
	if len(all) != 18 {
		t.Fatalf("expected 18 registered venues, got %d", len(all))
	}

	fast, err := reg.Select([]string{string(venue.GroupFast)})
	if err != nil {
		t.Fatalf("unexpected error selecting fast group: %v", err)
	}
	if len(fast) == 0 {
		t.Fatal("expected the fast group to contain at least one adapter")
	}
}
