// Package orchestrator drives a full scraping pass: select adapters, run
// them with a bounded concurrency cap, merge each venue's snapshot into its
// on-disk catalog, and produce a session report. Grounded on the teacher's
// async.WorkerPool/ConcurrencyManager (bounded worker count, cooperative
// cancellation via context) generalized from a generic task queue to one
// venue.Adapter run per task.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/merge"
	"github.com/skinarb/skinarb/internal/telemetry"
	"github.com/skinarb/skinarb/internal/venue"
)

// AdapterOutcome is the per-venue status recorded in the session report
// (§7's "ok|failed|partial").
type AdapterOutcome string

const (
	OutcomeOK      AdapterOutcome = "ok"
	OutcomeFailed  AdapterOutcome = "failed"
	OutcomePartial AdapterOutcome = "partial"
)

// AdapterReport is one venue's result within a Summary.
type AdapterReport struct {
	Venue    string
	Outcome  AdapterOutcome
	Listings int
	Duration time.Duration
	Reason   string
}

// Summary is the full result of one Run call.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Reports  []AdapterReport
}

// ExitCode maps a Summary to the CLI exit codes named in §6: 0 success, 3
// partial failure (some adapters failed), 4 is reserved for fatal
// config/IO errors the caller detects before or after Run itself.
func (s Summary) ExitCode() int {
	for _, r := range s.Reports {
		if r.Outcome == OutcomeFailed || r.Outcome == OutcomePartial {
			return 3
		}
	}
	return 0
}

// MergeStoreFor resolves the on-disk merge.Store for a venue's catalog.
type MergeStoreFor func(venueName string) *merge.Store

// Orchestrator runs a registry selection against a concurrency cap.
type Orchestrator struct {
	registry      *venue.Registry
	scheduler     *venue.Scheduler
	mergeStoreFor MergeStoreFor
	telemetry     *telemetry.Registry
	concurrency   int
}

func New(registry *venue.Registry, scheduler *venue.Scheduler, mergeStoreFor MergeStoreFor, tel *telemetry.Registry, concurrencyFactor float64) *Orchestrator {
	return &Orchestrator{
		registry:      registry,
		scheduler:     scheduler,
		mergeStoreFor: mergeStoreFor,
		telemetry:     tel,
		concurrency:   sizeConcurrency(concurrencyFactor),
	}
}

// Run selects adapters per selection (an explicit list, a group name, or
// "all"), runs them concurrently under the orchestrator's cap, and merges
// each snapshot into its on-disk catalog as it completes.
func (o *Orchestrator) Run(ctx context.Context, selection []string) (*Summary, error) {
	adapters, err := o.registry.Select(selection)
	if err != nil {
		return nil, apperrors.New(apperrors.KindConfig, "", "invalid adapter selection", err)
	}

	summary := &Summary{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}

	sem := make(chan struct{}, o.concurrency)
	reports := make([]AdapterReport, len(adapters))
	var wg sync.WaitGroup

	if o.telemetry != nil {
		o.telemetry.SetActiveAdapterRuns(len(adapters))
	}

	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a venue.Adapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			reports[i] = o.runOne(ctx, a)
		}(i, a)
	}
	wg.Wait()

	if o.telemetry != nil {
		o.telemetry.SetActiveAdapterRuns(0)
	}

	summary.Reports = reports
	summary.Finished = time.Now()
	return summary, nil
}

func (o *Orchestrator) runOne(ctx context.Context, a venue.Adapter) AdapterReport {
	result := o.scheduler.Run(ctx, a)

	report := AdapterReport{
		Venue:    result.Venue,
		Duration: result.Duration,
	}

	switch {
	case result.Err != nil && errors.Is(result.Err, apperrors.Canceled(result.Venue)) && result.Snapshot != nil:
		report.Outcome = OutcomePartial
		report.Reason = "canceled mid-run"
	case result.Err != nil:
		report.Outcome = OutcomeFailed
		report.Reason = result.Err.Error()
	default:
		report.Outcome = OutcomeOK
	}

	if result.Snapshot != nil {
		report.Listings = len(result.Snapshot.Listings)
		if o.mergeStoreFor != nil && len(result.Snapshot.Listings) > 0 {
			store := o.mergeStoreFor(result.Venue)
			if _, err := store.Merge(result.Venue, result.Snapshot.Listings); err != nil {
				report.Outcome = OutcomeFailed
				report.Reason = "persistence: " + err.Error()
				log.Error().Str("venue", result.Venue).Err(err).Msg("failed to persist venue snapshot")
			}
		}
	}

	return report
}

func (s Summary) ToSessionReport() telemetry.SessionReport {
	r := telemetry.SessionReport{Started: s.Started, Finished: s.Finished}
	for _, rep := range s.Reports {
		r.ListingsTotal += rep.Listings
		switch rep.Outcome {
		case OutcomeOK:
			r.AdaptersRun++
		case OutcomeFailed:
			r.AdaptersRun++
			r.AdaptersFailed++
			r.FailedVenues = append(r.FailedVenues, rep.Venue)
		case OutcomePartial:
			r.AdaptersRun++
			r.FailedVenues = append(r.FailedVenues, rep.Venue)
		}
	}
	return r
}
