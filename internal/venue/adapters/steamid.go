package adapters

import "github.com/skinarb/skinarb/internal/venue"

// SteamID is a per-profile inventory lookup rather than a catalog feed; it
// has no listing endpoint to scrape and exists only as a placeholder in the
// closed identifier set this system's venue configuration names.
type SteamID struct{}

func (SteamID) Identifier() string { return "steamid" }

func (SteamID) Plan() venue.FetchPlan { return venue.FetchPlan{} }

func (SteamID) Parse(raw []byte) ([]venue.RawItem, error) { return nil, nil }

func (SteamID) Normalize(item venue.RawItem) venue.Listing { return venue.Listing{} }

func (SteamID) Validate(l venue.Listing) bool { return false }

func (SteamID) SkipReason() string {
	return "steamid resolves individual profiles, not a market catalog"
}
