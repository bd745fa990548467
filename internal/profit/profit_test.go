package profit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/skinarb/skinarb/internal/venue"
)

func TestSteamReferenceKeepsMaxPrice(t *testing.T) {
	snaps := []*venue.VenueSnapshot{
		{Venue: "steam_market", Listings: []venue.Listing{{ItemName: "AK-47 | Redline", Price: 44.00}}},
		{Venue: "steam_listing", Listings: []venue.Listing{{ItemName: "AK-47 | Redline", Price: 45.50}}},
	}
	ref := SteamReference(snaps)
	if ref["AK-47 | Redline"] != 45.50 {
		t.Fatalf("expected max price 45.50, got %v", ref["AK-47 | Redline"])
	}
}

func TestScanArbitrageSelection(t *testing.T) {
	buy := []*venue.VenueSnapshot{
		{Venue: "waxpeer", Listings: []venue.Listing{{ItemName: "AK-47 | Redline (Field-Tested)", Price: 37.83}}},
	}
	steamRef := map[string]float64{"AK-47 | Redline (Field-Tested)": 45.50}

	e := NewEngine()
	opps := e.Scan(buy, steamRef, Filters{Mode: ModeComplete, MinProfitPercentage: 0.01})

	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	got := opps[0]
	if diff := got.ProfitPercentage - 0.046; diff < -0.01 || diff > 0.01 {
		t.Fatalf("expected profit_percentage near 0.046, got %v", got.ProfitPercentage)
	}
	if !startsWith(got.SteamURL, steamListingURLPrefix) {
		t.Fatalf("expected steam_url to start with %s, got %s", steamListingURLPrefix, got.SteamURL)
	}
}

func TestScanDiscardsBelowMinPrice(t *testing.T) {
	buy := []*venue.VenueSnapshot{
		{Venue: "waxpeer", Listings: []venue.Listing{{ItemName: "Cheap Skin", Price: 0.10}}},
	}
	steamRef := map[string]float64{"Cheap Skin": 5.00}

	e := NewEngine()
	opps := e.Scan(buy, steamRef, Filters{Mode: ModeFast, MinPrice: 1.00})
	if len(opps) != 0 {
		t.Fatalf("expected item below min_price to be discarded, got %d", len(opps))
	}
}

func TestScanPresetTakesPrecedenceOverNumericThreshold(t *testing.T) {
	buy := []*venue.VenueSnapshot{
		{Venue: "waxpeer", Listings: []venue.Listing{{ItemName: "Skin A", Price: 10.00}}},
	}
	steamRef := map[string]float64{"Skin A": 10.50}

	e := NewEngine()
	opps := e.Scan(buy, steamRef, Filters{
		Mode:                ModeFast,
		MinProfitPercentage: 0.5,
		Preset:              &PresetFilter{MinProfitPercentage: 0.01},
	})
	if len(opps) != 1 {
		t.Fatalf("expected preset's looser threshold to win, got %d opportunities", len(opps))
	}
}

func TestScanSortsByPercentageThenAbsoluteThenName(t *testing.T) {
	buy := []*venue.VenueSnapshot{
		{Venue: "waxpeer", Listings: []venue.Listing{
			{ItemName: "Z Skin", Price: 10.00},
			{ItemName: "A Skin", Price: 10.00},
		}},
	}
	steamRef := map[string]float64{"Z Skin": 15.00, "A Skin": 15.00}

	e := NewEngine()
	opps := e.Scan(buy, steamRef, Filters{Mode: ModeFast})
	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(opps))
	}
	if opps[0].ItemName != "A Skin" {
		t.Fatalf("expected lexicographic tie-break to put A Skin first, got %s", opps[0].ItemName)
	}
}

func TestEncodeItemNameSubstitutesSpaceAndPipe(t *testing.T) {
	got := EncodeItemName("AK-47 | Redline (Field-Tested)")
	want := "AK-47%20%7C%20Redline%20(Field-Tested)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestArchivePushesCurrentIntoHistoryAndCaps(t *testing.T) {
	dir := t.TempDir()
	store := NewArchiveStore(filepath.Join(dir, "profitability_data.json"))

	for i := 0; i < maxHistory+3; i++ {
		_, err := store.Push(Snapshot{Timestamp: time.Now(), Total: i, Mode: ModeFast})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	archive, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error loading: %v", err)
	}
	if len(archive.History) != maxHistory {
		t.Fatalf("expected history capped at %d, got %d", maxHistory, len(archive.History))
	}
	if archive.LastUpdated != archive.Current.Timestamp {
		t.Fatal("expected last_updated to match current snapshot's timestamp")
	}
}

func startsWith(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
