package venue

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/httpengine"
	"github.com/skinarb/skinarb/internal/secrets"
)

const (
	defaultPageSize          = 100
	maxEmptyPagesBeforeStop  = 2
	defaultNameIDConcurrency = 5
)

// Telemetry receives per-run outcomes for the session report.
type Telemetry interface {
	ObserveAdapterRun(result RunResult)
}

type noopTelemetry struct{}

func (noopTelemetry) ObserveAdapterRun(RunResult) {}

// Scheduler is the shared run loop every adapter is driven through: compose
// headers, fetch per the adapter's plan, parse/normalize/validate each
// item, and assemble a VenueSnapshot. Grounded on the teacher's
// binance_provider.go fetch-with-circuit-breaker call shape, generalized to
// the three FetchKinds the spec names instead of one REST endpoint shape.
type Scheduler struct {
	engine    *httpengine.Engine
	secrets   *secrets.Registry
	telemetry Telemetry
}

func NewScheduler(engine *httpengine.Engine, secretsRegistry *secrets.Registry, telemetry Telemetry) *Scheduler {
	if telemetry == nil {
		telemetry = noopTelemetry{}
	}
	return &Scheduler{engine: engine, secrets: secretsRegistry, telemetry: telemetry}
}

// Run drives one adapter's fetch → parse → normalize → validate pipeline to
// completion and returns the resulting snapshot (or failure).
func (s *Scheduler) Run(ctx context.Context, a Adapter) RunResult {
	start := time.Now()
	venue := a.Identifier()

	if dyn, ok := a.(DynamicContentAdapter); ok {
		result := RunResult{
			Venue:    venue,
			State:    StateIdle,
			Snapshot: &VenueSnapshot{Venue: venue, Timestamp: time.Now(), Reason: dyn.SkipReason()},
			Duration: time.Since(start),
		}
		s.telemetry.ObserveAdapterRun(result)
		return result
	}

	if keyed, ok := a.(APIKeyAdapter); ok && keyed.RequiresAPIKey() {
		if _, hasKey := s.secrets.VenueAPIKey(venue); !hasKey {
			result := RunResult{
				Venue:    venue,
				State:    StateFailed,
				Err:      apperrors.MissingAPIKey(venue),
				Duration: time.Since(start),
			}
			s.telemetry.ObserveAdapterRun(result)
			return result
		}
	}

	headers := s.headersFor(ctx, a)

	raw, err := s.fetchAll(ctx, a, headers)
	if err != nil && len(raw) == 0 {
		result := RunResult{Venue: venue, State: StateFailed, Err: err, Duration: time.Since(start)}
		s.telemetry.ObserveAdapterRun(result)
		return result
	}

	listings := make([]Listing, 0, len(raw))
	for _, item := range raw {
		l := a.Normalize(item)
		if !a.Validate(l) {
			continue
		}
		listings = append(listings, l)
	}
	listings = Dedup(listings)

	snapshot := &VenueSnapshot{Venue: venue, Timestamp: time.Now(), Listings: listings}
	result := RunResult{Venue: venue, State: StateIdle, Snapshot: snapshot, Duration: time.Since(start)}
	if err != nil {
		// A fetch canceled mid-run keeps the pages it already collected.
		result.State = StateFailed
		result.Err = err
	}
	s.telemetry.ObserveAdapterRun(result)
	return result
}

func (s *Scheduler) headersFor(ctx context.Context, a Adapter) map[string]string {
	headers := map[string]string{}
	if h, ok := a.(HeaderAdapter); ok {
		for k, v := range h.Headers(ctx) {
			headers[k] = v
		}
	}
	if keyed, ok := a.(APIKeyAdapter); ok && keyed.RequiresAPIKey() {
		if token, hasKey := s.secrets.VenueAPIKey(a.Identifier()); hasKey {
			headers["Authorization"] = "Bearer " + token
		}
	}
	return headers
}

func (s *Scheduler) fetchAll(ctx context.Context, a Adapter, headers map[string]string) ([]RawItem, error) {
	plan := a.Plan()
	switch plan.Kind {
	case FetchSingle:
		return s.fetchSingle(ctx, a, plan, headers)
	case FetchPaginated:
		return s.fetchPaginated(ctx, a, plan, headers)
	case FetchNameIDBatch:
		return s.fetchNameIDBatch(ctx, a, plan, headers)
	default:
		return nil, apperrors.New(apperrors.KindValidation, a.Identifier(), "unknown fetch plan kind", nil)
	}
}

func (s *Scheduler) fetchSingle(ctx context.Context, a Adapter, plan FetchPlan, headers map[string]string) ([]RawItem, error) {
	resp, err := s.engine.Request(ctx, httpengine.Request{
		Venue:             a.Identifier(),
		URL:               plan.URL,
		Headers:           headers,
		UseProxy:          true,
		UseLowLevelClient: requiresLowLevelClient(a),
	})
	if err != nil {
		return nil, err
	}
	return a.Parse(resp.Body)
}

func (s *Scheduler) fetchPaginated(ctx context.Context, a Adapter, plan FetchPlan, headers map[string]string) ([]RawItem, error) {
	pageSize := plan.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageParam := plan.PageParam
	if pageParam == "" {
		pageParam = "offset"
	}

	var all []RawItem
	emptyStreak := 0
	offset := 0
	lowLevel := requiresLowLevelClient(a)

	for {
		url := plan.BaseURL + separatorFor(plan.BaseURL) + pageParam + "=" + strconv.Itoa(offset)
		resp, err := s.engine.Request(ctx, httpengine.Request{
			Venue:             a.Identifier(),
			URL:               url,
			Headers:           headers,
			UseProxy:          true,
			UseLowLevelClient: lowLevel,
		})
		if err != nil {
			return nil, err
		}
		items, err := a.Parse(resp.Body)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			emptyStreak++
			if emptyStreak >= maxEmptyPagesBeforeStop {
				break
			}
		} else {
			emptyStreak = 0
			all = append(all, items...)
			if len(items) < pageSize {
				break
			}
		}
		offset += pageSize

		select {
		case <-ctx.Done():
			return all, apperrors.Canceled(a.Identifier())
		default:
		}
	}
	return all, nil
}

func (s *Scheduler) fetchNameIDBatch(ctx context.Context, a Adapter, plan FetchPlan, headers map[string]string) ([]RawItem, error) {
	batchSize := plan.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	concurrency := plan.MaxConcurrent
	if concurrency <= 0 {
		concurrency = defaultNameIDConcurrency
	}

	var batches [][]string
	for i := 0; i < len(plan.IDs); i += batchSize {
		end := i + batchSize
		if end > len(plan.IDs) {
			end = len(plan.IDs)
		}
		batches = append(batches, plan.IDs[i:end])
	}

	lowLevel := requiresLowLevelClient(a)
	requests := make([]httpengine.Request, len(batches))
	for i, batch := range batches {
		requests[i] = httpengine.Request{
			Venue:             a.Identifier(),
			URL:               plan.BaseURL + "?ids=" + strings.Join(batch, ","),
			Headers:           headers,
			UseProxy:          true,
			UseLowLevelClient: lowLevel,
		}
	}

	results := s.engine.Batch(ctx, requests, concurrency)

	var all []RawItem
	var mu sync.Mutex
	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = r.Err
			}
			mu.Unlock()
			continue
		}
		items, err := a.Parse(r.Response.Body)
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			continue
		}
		all = append(all, items...)
	}

	if len(all) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return all, nil
}

func requiresLowLevelClient(a Adapter) bool {
	ll, ok := a.(LowLevelClientAdapter)
	return ok && ll.RequiresLowLevelClient()
}

func separatorFor(url string) string {
	for _, c := range url {
		if c == '?' {
			return "&"
		}
	}
	return "?"
}
