package venue

import "context"

// Adapter is the contract every venue integration implements. The base
// Scheduler and the engine it drives own everything venue-agnostic (headers,
// retries, rate limits, concurrency; the orchestrator persists snapshots); an
// Adapter contributes only venue-specific knowledge.
type Adapter interface {
	// Identifier is the adapter's closed-set name, e.g. "waxpeer".
	Identifier() string

	// Plan describes how the scheduler should fetch this venue's catalog.
	Plan() FetchPlan

	// Parse decodes one raw response body into zero or more listings not
	// yet normalized or validated.
	Parse(raw []byte) ([]RawItem, error)

	// Normalize converts one raw item into a Listing: currency conversion,
	// URL construction, and price-unit conversion are applied here.
	Normalize(item RawItem) Listing

	// Validate enforces non-negative price, non-empty name, and a
	// positive-or-nil quantity.
	Validate(l Listing) bool
}

// RawItem is the venue-specific decoded shape Parse hands to Normalize.
// Kept as a loosely typed map so each adapter can carry whatever fields its
// venue's API returns without a shared schema forcing a lowest common
// denominator.
type RawItem map[string]interface{}

// DynamicContentAdapter is implemented by adapters whose venue is
// SPA-rendered and cannot be scraped without full browser automation. The
// scheduler calls SkipReason instead of Plan/Parse and returns an empty
// snapshot carrying that reason, rather than attempting HTML heuristics.
type DynamicContentAdapter interface {
	Adapter
	SkipReason() string
}

// LowLevelClientAdapter is implemented by adapters whose endpoint is
// fronted by a WAF that fingerprints modern HTTP libraries — the scheduler
// sets Request.UseLowLevelClient so the engine sends them through its second
// http.Client (HTTP/2 not attempted) instead of its default client.
type LowLevelClientAdapter interface {
	Adapter
	RequiresLowLevelClient() bool
}

// APIKeyAdapter is implemented by adapters that require a bearer token from
// the Secrets Registry. An adapter with an absent required key must fail
// with apperrors.MissingAPIKey before any network call.
type APIKeyAdapter interface {
	Adapter
	RequiresAPIKey() bool
}

// Headers lets an adapter contribute venue-specific header overrides on top
// of the scheduler's defaults (e.g. a resolved bearer token).
type HeaderAdapter interface {
	Adapter
	Headers(ctx context.Context) map[string]string
}
