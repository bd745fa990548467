package telemetry

import (
	"fmt"
	"strings"
	"time"
)

// SessionReport summarizes one full orchestrator pass across every adapter,
// in the single-line style of datasources.HealthManager.GetHealthSummary —
// a fmt.Sprintf line rather than a structured log event, meant for an
// operator glancing at stdout.
type SessionReport struct {
	Started            time.Time
	Finished           time.Time
	AdaptersRun        int
	AdaptersFailed     int
	AdaptersSkipped    int
	ListingsTotal      int
	OpportunitiesFound int
	FailedVenues       []string
}

func (r SessionReport) Duration() time.Duration { return r.Finished.Sub(r.Started) }

func (r SessionReport) Summary() string {
	status := "healthy"
	if r.AdaptersFailed > 0 {
		status = "degraded"
	}
	failed := "none"
	if len(r.FailedVenues) > 0 {
		failed = strings.Join(r.FailedVenues, ",")
	}
	return fmt.Sprintf(
		"Session: %s | Adapters: %d run, %d failed, %d skipped | Listings: %d | Opportunities: %d | Duration: %v | Failed venues: %s",
		status,
		r.AdaptersRun,
		r.AdaptersFailed,
		r.AdaptersSkipped,
		r.ListingsTotal,
		r.OpportunitiesFound,
		r.Duration(),
		failed,
	)
}
