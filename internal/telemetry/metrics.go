// Package telemetry wires the scraping/arbitrage core's Prometheus metrics
// and session reporting. Grounded on
// internal/interfaces/http/metrics.go's MetricsRegistry — same field shape
// (HistogramVec/CounterVec/Gauge grouped by concern, package-level
// constructor, zerolog logging alongside the increments) generalized from
// momentum-pipeline step metrics to venue/adapter/proxy metrics.
package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/venue"
)

// Registry holds every Prometheus collector the scraping core emits.
type Registry struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	RequestErrors   *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	ProxyPoolScore     *prometheus.GaugeVec
	ProxyPoolFailures  *prometheus.CounterVec
	ActiveAdapterRuns  prometheus.Gauge
	AdapterRunsTotal   *prometheus.CounterVec
	OpportunitiesFound prometheus.Gauge
}

func NewRegistry() *Registry {
	r := &Registry{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skinarb_request_duration_seconds",
				Help:    "Duration of outbound HTTP requests per venue",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"venue"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skinarb_requests_total",
				Help: "Total outbound HTTP requests by venue and outcome",
			},
			[]string{"venue", "status"},
		),
		RequestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skinarb_request_errors_total",
				Help: "Total outbound HTTP request errors by venue and kind",
			},
			[]string{"venue", "kind"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skinarb_cache_hits_total",
				Help: "Cache hits by category",
			},
			[]string{"category"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skinarb_cache_misses_total",
				Help: "Cache misses by category",
			},
			[]string{"category"},
		),
		ProxyPoolScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skinarb_proxy_pool_score",
				Help: "Current health score of each proxy pool",
			},
			[]string{"pool"},
		),
		ProxyPoolFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skinarb_proxy_pool_failures_total",
				Help: "Total proxy acquisition failures by pool",
			},
			[]string{"pool"},
		),
		ActiveAdapterRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "skinarb_active_adapter_runs",
				Help: "Number of venue adapters currently running",
			},
		),
		AdapterRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skinarb_adapter_runs_total",
				Help: "Total adapter runs by venue and outcome state",
			},
			[]string{"venue", "state"},
		),
		OpportunitiesFound: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "skinarb_opportunities_found",
				Help: "Number of arbitrage opportunities found in the latest scan",
			},
		),
	}

	prometheus.MustRegister(
		r.RequestDuration,
		r.RequestsTotal,
		r.RequestErrors,
		r.CacheHits,
		r.CacheMisses,
		r.ProxyPoolScore,
		r.ProxyPoolFailures,
		r.ActiveAdapterRuns,
		r.AdapterRunsTotal,
		r.OpportunitiesFound,
	)

	return r
}

// ObserveRequest implements httpengine.Telemetry.
func (r *Registry) ObserveRequest(venue string, status int, latency time.Duration, err error) {
	r.RequestDuration.WithLabelValues(venue).Observe(latency.Seconds())
	if err != nil {
		r.RequestErrors.WithLabelValues(venue, errorKind(err)).Inc()
		return
	}
	r.RequestsTotal.WithLabelValues(venue, statusBucket(status)).Inc()
}

// ObserveAdapterRun implements venue.Telemetry.
func (r *Registry) ObserveAdapterRun(result venue.RunResult) {
	r.AdapterRunsTotal.WithLabelValues(result.Venue, string(result.State)).Inc()

	listingCount := 0
	if result.Snapshot != nil {
		listingCount = len(result.Snapshot.Listings)
	}

	evt := log.Info()
	if result.Err != nil {
		evt = log.Warn().Err(result.Err)
	}
	evt.
		Str("venue", result.Venue).
		Str("state", string(result.State)).
		Dur("duration", result.Duration).
		Int("listings", listingCount).
		Msg("adapter run completed")
}

func (r *Registry) RecordCacheHit(category string)  { r.CacheHits.WithLabelValues(category).Inc() }
func (r *Registry) RecordCacheMiss(category string) { r.CacheMisses.WithLabelValues(category).Inc() }

func (r *Registry) SetProxyPoolScore(pool string, score float64) {
	r.ProxyPoolScore.WithLabelValues(pool).Set(score)
}

func (r *Registry) RecordProxyPoolFailure(pool string) {
	r.ProxyPoolFailures.WithLabelValues(pool).Inc()
}

func (r *Registry) SetActiveAdapterRuns(n int)  { r.ActiveAdapterRuns.Set(float64(n)) }
func (r *Registry) SetOpportunitiesFound(n int) { r.OpportunitiesFound.Set(float64(n)) }

// Handler returns the standard Prometheus scrape handler.
func (r *Registry) Handler() http.Handler { return promhttp.Handler() }

func statusBucket(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// errorKind labels a request failure by its apperrors.Kind (the Error
// Taxonomy's closed set), so the request_errors_total metric can be broken
// down the same way the rest of the error-handling path already classifies
// failures.
func errorKind(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) {
		return string(e.Kind)
	}
	return "unknown"
}
