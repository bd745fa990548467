package adapters

import "github.com/skinarb/skinarb/internal/venue"

// MannCoStore's storefront is rendered client-side by a React SPA with no
// stable JSON API discovered for it, so this adapter is declared
// dynamic-content rather than attempting HTML heuristics against a page
// that never finishes loading without a browser.
type MannCoStore struct{}

func (MannCoStore) Identifier() string { return "manncostore" }

func (MannCoStore) Plan() venue.FetchPlan { return venue.FetchPlan{} }

func (MannCoStore) Parse(raw []byte) ([]venue.RawItem, error) { return nil, nil }

func (MannCoStore) Normalize(item venue.RawItem) venue.Listing { return venue.Listing{} }

func (MannCoStore) Validate(l venue.Listing) bool { return false }

func (MannCoStore) SkipReason() string {
	return "manncostore storefront is client-side rendered; no stable JSON endpoint available"
}
