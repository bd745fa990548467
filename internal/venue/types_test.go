package venue

import "testing"

func TestDedupKeepsLowestPrice(t *testing.T) {
	listings := []Listing{
		{ItemName: "AK-47 | Redline", Price: 12.50, Venue: "waxpeer"},
		{ItemName: "AK-47 | Redline", Price: 9.99, Venue: "waxpeer"},
		{ItemName: "AWP | Asiimov", Price: 45.00, Venue: "waxpeer"},
	}
	out := Dedup(listings)
	if len(out) != 2 {
		t.Fatalf("expected 2 distinct items, got %d", len(out))
	}
	for _, l := range out {
		if l.ItemName == "AK-47 | Redline" && l.Price != 9.99 {
			t.Fatalf("expected lowest price to survive, got %v", l.Price)
		}
	}
}

func TestDedupSortsByItemName(t *testing.T) {
	listings := []Listing{
		{ItemName: "P250 | Sand Dune", Price: 0.15, Venue: "waxpeer"},
		{ItemName: "AK-47 | Redline", Price: 9.99, Venue: "waxpeer"},
		{ItemName: "AWP | Asiimov", Price: 45.00, Venue: "waxpeer"},
	}
	out := Dedup(listings)
	for i := 1; i < len(out); i++ {
		if out[i-1].ItemName > out[i].ItemName {
			t.Fatalf("expected stable ascending item-name order, got %v then %v", out[i-1].ItemName, out[i].ItemName)
		}
	}
}

func TestListingKeyIsVenueAndName(t *testing.T) {
	a := Listing{Venue: "waxpeer", ItemName: "AK-47 | Redline"}
	b := Listing{Venue: "skinport", ItemName: "AK-47 | Redline"}
	if a.Key() == b.Key() {
		t.Fatal("expected distinct keys across venues for the same item name")
	}
}
