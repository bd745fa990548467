package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/skinarb/skinarb/internal/httpengine"
	"github.com/skinarb/skinarb/internal/merge"
	"github.com/skinarb/skinarb/internal/secrets"
	"github.com/skinarb/skinarb/internal/venue"
)

type stubAdapter struct {
	id  string
	url string
}

func (a stubAdapter) Identifier() string { return a.id }
func (a stubAdapter) Plan() venue.FetchPlan {
	return venue.FetchPlan{Kind: venue.FetchSingle, URL: a.url}
}
func (a stubAdapter) Parse(raw []byte) ([]venue.RawItem, error) {
	var items []venue.RawItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
func (a stubAdapter) Normalize(item venue.RawItem) venue.Listing {
	name, _ := item["name"].(string)
	price, _ := item["price"].(float64)
	return venue.Listing{ItemName: name, Price: price, Venue: a.id}
}
func (a stubAdapter) Validate(l venue.Listing) bool { return l.ItemName != "" }

type keyedStubAdapter struct{ stubAdapter }

func (a keyedStubAdapter) RequiresAPIKey() bool { return true }

func TestOrchestratorRunMergesSuccessfulAdapters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"AK-47 | Redline","price":9.99}]`))
	}))
	defer srv.Close()

	reg := venue.NewRegistry()
	if err := reg.Register(stubAdapter{id: "waxpeer", url: srv.URL}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := t.TempDir()
	sched := venue.NewScheduler(httpengine.New(), secrets.NewRegistry(), nil)
	orch := New(reg, sched, func(v string) *merge.Store {
		return merge.NewStore(filepath.Join(dir, v+"_data.json"))
	}, nil, 0)

	summary, err := orch.Run(context.Background(), []string{"all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ExitCode() != 0 {
		t.Fatalf("expected exit code 0, got %d", summary.ExitCode())
	}
	if len(summary.Reports) != 1 || summary.Reports[0].Outcome != OutcomeOK {
		t.Fatalf("expected 1 ok report, got %+v", summary.Reports)
	}

	store := merge.NewStore(filepath.Join(dir, "waxpeer_data.json"))
	catalog, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error loading catalog: %v", err)
	}
	if catalog.Items["AK-47 | Redline"].Price != 9.99 {
		t.Fatalf("expected merged catalog to contain the fetched listing")
	}
}

func TestOrchestratorRunReportsMissingAPIKeyAsFailedExitCode3(t *testing.T) {
	reg := venue.NewRegistry()
	if err := reg.Register(keyedStubAdapter{stubAdapter{id: "bitskins", url: "http://unused.invalid"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sched := venue.NewScheduler(httpengine.New(), secrets.NewRegistry(), nil)
	orch := New(reg, sched, nil, nil, 0)

	summary, err := orch.Run(context.Background(), []string{"all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ExitCode() != 3 {
		t.Fatalf("expected exit code 3, got %d", summary.ExitCode())
	}
	if summary.Reports[0].Outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %+v", summary.Reports[0])
	}
}

func TestSizeConcurrencyRespectsBounds(t *testing.T) {
	if got := sizeConcurrency(0); got < concurrencyFloor || got > concurrencyCeiling {
		t.Fatalf("expected default factor within bounds, got %d", got)
	}
	if got := sizeConcurrency(1000); got != concurrencyCeiling {
		t.Fatalf("expected ceiling clamp, got %d", got)
	}
}
