package adapters

import "github.com/skinarb/skinarb/internal/venue"

// RapidSkins serves its catalog through a WebSocket-pushed SPA rather than a
// polled REST endpoint; scraping it would require full browser automation,
// which is out of scope here.
type RapidSkins struct{}

func (RapidSkins) Identifier() string { return "rapidskins" }

func (RapidSkins) Plan() venue.FetchPlan { return venue.FetchPlan{} }

func (RapidSkins) Parse(raw []byte) ([]venue.RawItem, error) { return nil, nil }

func (RapidSkins) Normalize(item venue.RawItem) venue.Listing { return venue.Listing{} }

func (RapidSkins) Validate(l venue.Listing) bool { return false }

func (RapidSkins) SkipReason() string {
	return "rapidskins catalog is pushed over a websocket feed, not a pollable endpoint"
}
