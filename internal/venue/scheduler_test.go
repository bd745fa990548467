package venue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skinarb/skinarb/internal/httpengine"
	"github.com/skinarb/skinarb/internal/secrets"
)

type fakeSingleAdapter struct {
	id  string
	url string
}

func (f fakeSingleAdapter) Identifier() string { return f.id }
func (f fakeSingleAdapter) Plan() FetchPlan    { return FetchPlan{Kind: FetchSingle, URL: f.url} }
func (f fakeSingleAdapter) Parse(raw []byte) ([]RawItem, error) {
	var items []RawItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
func (f fakeSingleAdapter) Normalize(item RawItem) Listing {
	name, _ := item["name"].(string)
	price, _ := item["price"].(float64)
	return Listing{ItemName: name, Price: price, Venue: f.id}
}
func (f fakeSingleAdapter) Validate(l Listing) bool {
	return l.Price >= 0 && l.ItemName != ""
}

func TestSchedulerRunFetchSingleSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"AK-47 | Redline","price":9.99},{"name":"bad","price":-1}]`))
	}))
	defer srv.Close()

	sched := NewScheduler(httpengine.New(), secrets.NewRegistry(), nil)
	result := sched.Run(context.Background(), fakeSingleAdapter{id: "waxpeer", url: srv.URL})

	if result.State != StateIdle {
		t.Fatalf("expected idle (success) state, got %v, err=%v", result.State, result.Err)
	}
	if len(result.Snapshot.Listings) != 1 {
		t.Fatalf("expected 1 listing to survive validation, got %d", len(result.Snapshot.Listings))
	}
}

type fakeAPIKeyAdapter struct {
	fakeSingleAdapter
}

func (f fakeAPIKeyAdapter) RequiresAPIKey() bool { return true }

func TestSchedulerFailsFastOnMissingAPIKey(t *testing.T) {
	sched := NewScheduler(httpengine.New(), secrets.NewRegistry(), nil)
	result := sched.Run(context.Background(), fakeAPIKeyAdapter{fakeSingleAdapter{id: "bitskins", url: "http://unused.invalid"}})

	if result.State != StateFailed {
		t.Fatalf("expected failed state, got %v", result.State)
	}
	if result.Err == nil {
		t.Fatal("expected a missing-api-key error")
	}
}

type fakeDynamicAdapter struct {
	fakeSingleAdapter
}

func (f fakeDynamicAdapter) SkipReason() string { return "SPA-rendered, no API endpoint" }

func TestSchedulerReturnsEmptySnapshotForDynamicContent(t *testing.T) {
	sched := NewScheduler(httpengine.New(), secrets.NewRegistry(), nil)
	result := sched.Run(context.Background(), fakeDynamicAdapter{fakeSingleAdapter{id: "white"}})

	if result.State != StateIdle {
		t.Fatalf("expected idle state for a deliberately skipped venue, got %v", result.State)
	}
	if result.Snapshot == nil || result.Snapshot.Reason == "" {
		t.Fatal("expected snapshot to carry the skip reason")
	}
	if len(result.Snapshot.Listings) != 0 {
		t.Fatal("expected no listings for a dynamic-content venue")
	}
}

type fakePaginatedAdapter struct {
	id string
}

func (f fakePaginatedAdapter) Identifier() string { return f.id }
func (f fakePaginatedAdapter) Plan() FetchPlan {
	return FetchPlan{Kind: FetchPaginated, BaseURL: "", PageSize: 2, PageParam: "offset"}
}
func (f fakePaginatedAdapter) Parse(raw []byte) ([]RawItem, error) {
	var items []RawItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
func (f fakePaginatedAdapter) Normalize(item RawItem) Listing {
	name, _ := item["name"].(string)
	price, _ := item["price"].(float64)
	return Listing{ItemName: name, Price: price, Venue: f.id}
}
func (f fakePaginatedAdapter) Validate(l Listing) bool { return l.ItemName != "" }

func TestSchedulerFetchPaginatedStopsOnEmptyPage(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		offset := r.URL.Query().Get("offset")
		if offset == "0" {
			w.Write([]byte(`[{"name":"a","price":1},{"name":"b","price":2}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := fakePaginatedAdapter{id: "steam_listing"}
	adapterWithURL := fakePaginatedAdapterWithURL{fakePaginatedAdapter: a, baseURL: srv.URL}

	sched := NewScheduler(httpengine.New(), secrets.NewRegistry(), nil)
	result := sched.Run(context.Background(), adapterWithURL)

	if result.State != StateIdle {
		t.Fatalf("expected success, got %v err=%v", result.State, result.Err)
	}
	if len(result.Snapshot.Listings) != 2 {
		t.Fatalf("expected 2 listings from the first page, got %d", len(result.Snapshot.Listings))
	}
}

type fakePaginatedAdapterWithURL struct {
	fakePaginatedAdapter
	baseURL string
}

func (f fakePaginatedAdapterWithURL) Plan() FetchPlan {
	p := f.fakePaginatedAdapter.Plan()
	p.BaseURL = f.baseURL
	return p
}

func TestRegistrySelectGroupsAndAll(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(fakeSingleAdapter{id: "waxpeer"}, GroupFast, GroupAll); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(fakeSingleAdapter{id: "steam_market"}, GroupEssential); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := r.Select([]string{"all"})
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 adapters for all, got %d err=%v", len(all), err)
	}

	fast, err := r.Select([]string{string(GroupFast)})
	if err != nil || len(fast) != 1 || fast[0].Identifier() != "waxpeer" {
		t.Fatalf("expected waxpeer from fast group, got %+v err=%v", fast, err)
	}

	explicit, err := r.Select([]string{"steam_market"})
	if err != nil || len(explicit) != 1 || explicit[0].Identifier() != "steam_market" {
		t.Fatalf("expected explicit selection to resolve steam_market, got %+v err=%v", explicit, err)
	}

	if _, err := r.Select([]string{"unknown_venue"}); err == nil {
		t.Fatal("expected an error for an unknown adapter identifier")
	}
}

func TestRegistryRejectsDuplicateIdentifier(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(fakeSingleAdapter{id: "waxpeer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(fakeSingleAdapter{id: "waxpeer"}); err == nil {
		t.Fatal("expected an error registering a duplicate identifier")
	}
}
