// Package httpengine is the single typed entry point every venue adapter
// uses to make web requests: header merging, proxy borrowing, retry with
// backoff, per-venue rate limiting, circuit breaking, and brotli-aware
// response decoding. Grounded on the teacher's internal/net/ratelimit
// (token-bucket-per-key shape) and infra/breakers (gobreaker wrapper),
// generalized from per-host/per-provider keys to per-venue keys.
package httpengine

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	gobreaker "github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/proxypool"
)

const (
	defaultMaxRetries = 3
	baseBackoff       = 250 * time.Millisecond
	capBackoff        = 8 * time.Second
	defaultTimeout    = 30 * time.Second
)

var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Encoding": "gzip, deflate, br",
}

// Request describes a single outbound call.
type Request struct {
	Venue      string
	Method     string
	URL        string
	Headers    map[string]string
	Body       []byte
	Timeout    time.Duration
	UseProxy   bool
	MaxRetries int

	// UseLowLevelClient routes this request through the engine's low-level
	// transport instead of its default client, for venues whose WAF
	// fingerprints the standard library's default HTTP/2-first handshake.
	UseLowLevelClient bool
}

// Response is the buffered, decoded result of a request.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Latency    time.Duration
}

// Result pairs a Response with an error for batch() slots, since a partial
// failure in one slot must never abort its siblings.
type Result struct {
	Response *Response
	Err      error
}

// Telemetry receives latency/outcome observations. Implemented by
// internal/telemetry; kept as a narrow interface here so httpengine never
// imports the metrics registry directly.
type Telemetry interface {
	ObserveRequest(venue string, status int, latency time.Duration, err error)
}

type noopTelemetry struct{}

func (noopTelemetry) ObserveRequest(string, int, time.Duration, error) {}

// Engine is the shared HTTP client every adapter calls through.
type Engine struct {
	client         *http.Client
	lowLevelClient *http.Client
	proxies        *proxypool.Manager
	telemetry      Telemetry

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	breakers map[string]*gobreaker.CircuitBreaker
}

// Option configures an Engine at construction time.
type Option func(*Engine)

func WithTelemetry(t Telemetry) Option {
	return func(e *Engine) { e.telemetry = t }
}

func WithProxyPool(p *proxypool.Manager) Option {
	return func(e *Engine) { e.proxies = p }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		client: &http.Client{Timeout: defaultTimeout},
		lowLevelClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				ForceAttemptHTTP2: false,
				TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		telemetry: noopTelemetry{},
		limiters:  make(map[string]*rate.Limiter),
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ConfigureVenue installs a per-venue token bucket (ratePerMinute, burst) and
// a per-venue circuit breaker that opens after 5 consecutive failures and
// stays open for 60s. A venue with no positive rate gets neither: the engine
// does not throttle its requests and does not break its circuit.
func (e *Engine) ConfigureVenue(venue string, ratePerMinute int, burst int) {
	if ratePerMinute <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.limiters[venue] = rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), burst)
	e.breakers[venue] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    venue,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

func (e *Engine) limiterFor(venue string) *rate.Limiter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.limiters[venue]
}

func (e *Engine) breakerFor(venue string) *gobreaker.CircuitBreaker {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.breakers[venue]
}

// Request performs one HTTP call with retry, proxy rotation, and telemetry.
func (e *Engine) Request(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	if limiter := e.limiterFor(req.Venue); limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, apperrors.New(apperrors.KindCanceled, req.Venue, "rate limiter wait canceled", err)
		}
	}

	breaker := e.breakerFor(req.Venue)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, backoffFor(attempt)); err != nil {
				return nil, apperrors.New(apperrors.KindCanceled, req.Venue, "canceled during backoff", err)
			}
		}

		start := time.Now()
		var resp *Response
		var err error
		if breaker != nil {
			var raw interface{}
			raw, err = breaker.Execute(func() (interface{}, error) {
				return e.doOnce(ctx, req, timeout)
			})
			if r, ok := raw.(*Response); ok {
				resp = r
			}
		} else {
			resp, err = e.doOnce(ctx, req, timeout)
		}

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		e.telemetry.ObserveRequest(req.Venue, status, time.Since(start), err)

		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !apperrors.Retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (e *Engine) doOnce(ctx context.Context, req Request, timeout time.Duration) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, req.Venue, "build request", err)
	}
	for k, v := range defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	client := e.client
	if req.UseLowLevelClient {
		client = e.lowLevelClient
	}
	var endpoint proxypool.Endpoint
	haveProxy := false
	if req.UseProxy && e.proxies != nil {
		if ep, ok := e.proxies.Acquire(); ok {
			endpoint = ep
			haveProxy = true
			client = e.clientWithProxy(ep.Address, timeout, req.UseLowLevelClient)
		}
	}

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	latency := time.Since(start)

	if err != nil {
		if haveProxy {
			e.proxies.RecordFailure(endpoint.Pool)
		}
		return nil, classifyTransportError(req.Venue, err)
	}
	defer httpResp.Body.Close()

	if haveProxy {
		e.proxies.RecordSuccess(endpoint.Pool, latency)
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.New(apperrors.KindParse, req.Venue, "read response body", err)
	}

	if httpResp.Header.Get("Content-Encoding") == "br" {
		decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, apperrors.New(apperrors.KindParse, req.Venue, "decode brotli body", err)
		}
		raw = decoded
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       raw,
		Headers:    httpResp.Header,
		Latency:    latency,
	}

	if httpResp.StatusCode >= 400 {
		return resp, apperrors.NewHTTP(req.Venue, httpResp.StatusCode, fmt.Sprintf("unexpected status %d", httpResp.StatusCode), nil)
	}
	if len(raw) == 0 {
		return resp, apperrors.New(apperrors.KindParse, req.Venue, "empty response body", nil)
	}

	return resp, nil
}

func (e *Engine) clientWithProxy(address string, timeout time.Duration, lowLevel bool) *http.Client {
	proxyURL, err := url.Parse("http://" + address)
	if err != nil {
		if lowLevel {
			return e.lowLevelClient
		}
		return e.client
	}
	transport := &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	if lowLevel {
		transport.ForceAttemptHTTP2 = false
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Batch runs requests concurrently under a concurrency cap, preserving
// input order in the returned slice.
func (e *Engine) Batch(ctx context.Context, requests []Request, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]Result, len(requests))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resp, err := e.Request(ctx, req)
			results[i] = Result{Response: resp, Err: err}
		}(i, req)
	}
	wg.Wait()
	return results
}

func backoffFor(attempt int) time.Duration {
	d := time.Duration(float64(baseBackoff) * math.Pow(2, float64(attempt-1)))
	if d > capBackoff {
		return capBackoff
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func classifyTransportError(venue string, err error) error {
	var netErr net.Error
	if ok := isNetError(err, &netErr); ok && netErr.Timeout() {
		return apperrors.NewNetwork(venue, apperrors.NetTimeout, "request timed out", err)
	}
	if _, ok := err.(*net.DNSError); ok {
		return apperrors.NewNetwork(venue, apperrors.NetDNSFailure, "dns resolution failed", err)
	}
	return apperrors.NewNetwork(venue, apperrors.NetConnectionReset, "connection error", err)
}

func isNetError(err error, target *net.Error) bool {
	ne, ok := err.(net.Error)
	if ok {
		*target = ne
	}
	return ok
}
