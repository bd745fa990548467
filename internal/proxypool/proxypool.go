// Package proxypool rotates across named proxy pools, tracking per-pool
// health so acquire() favors pools with the best recent success rate.
// Grounded on the teacher's provider.ProviderChain — same health-scored
// selection and reordering idea, applied to proxy endpoints instead of
// exchange providers.
package proxypool

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// State is a pool's position in its empty → active → degraded state
// machine. Degraded differs from active only in scoring weight, never in
// eligibility — a degraded pool can still be acquired.
type State string

const (
	StateEmpty    State = "empty"
	StateActive   State = "active"
	StateDegraded State = "degraded"
)

const (
	degradedThreshold = 5
	skipBurstSize     = 3
	latencyWindow     = 50
)

// Endpoint is a single proxy address within a pool.
type Endpoint struct {
	Pool    string
	Address string
}

type pool struct {
	name    string
	geoTag  string
	addrs   []string
	cursor  int
	active  bool

	successCount      int64
	failureCount      int64
	consecutiveErrors int
	latencies         []time.Duration
}

// PoolStats is the caller-facing summary returned by Stats().
type PoolStats struct {
	CurrentIP string
	Pools     []PoolStat
}

type PoolStat struct {
	Name              string
	State             State
	ProxyCount        int
	SuccessCount      int64
	FailureCount      int64
	ConsecutiveErrors int
	Score             float64
}

// IPResolver detects the process's current public egress IP.
type IPResolver interface {
	ResolveIP() (string, error)
}

// AllowListUpdater pushes a new IP to the upstream proxy vendor's allow-list.
type AllowListUpdater interface {
	UpdateAllowList(ip string) error
}

// Manager is the Proxy Pool Manager described in the component design: a
// rotating, health-scored source of proxy endpoints plus allow-list upkeep.
type Manager struct {
	mu        sync.Mutex
	pools     map[string]*pool
	order     []string
	resolver  IPResolver
	updater   AllowListUpdater
	currentIP string
}

func NewManager(resolver IPResolver, updater AllowListUpdater) *Manager {
	return &Manager{
		pools:    make(map[string]*pool),
		resolver: resolver,
		updater:  updater,
	}
}

// AddPool registers or replaces a named pool's endpoint list. A pool with a
// non-empty address list starts active; an empty one starts empty.
func (m *Manager) AddPool(name, geoTag string, addrs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.pools[name]
	if !exists {
		p = &pool{name: name, geoTag: geoTag}
		m.pools[name] = p
		m.order = append(m.order, name)
	}
	p.addrs = addrs
	p.active = len(addrs) > 0
	p.cursor = 0
}

// Acquire returns an endpoint from the pool with the highest score that
// currently has proxies available, round-robining within that pool. It
// returns false when every pool is empty — callers must tolerate this and
// fall back to a direct (proxy-less) request.
func (m *Manager) Acquire() (Endpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	best := m.bestEligiblePoolLocked()
	if best == nil {
		return Endpoint{}, false
	}

	addr := best.addrs[best.cursor%len(best.addrs)]
	best.cursor = (best.cursor + 1) % len(best.addrs)
	return Endpoint{Pool: best.name, Address: addr}, true
}

func (m *Manager) bestEligiblePoolLocked() *pool {
	var best *pool
	var bestScore float64
	for _, name := range m.order {
		p := m.pools[name]
		if len(p.addrs) == 0 {
			continue
		}
		score := p.score()
		if best == nil || score > bestScore {
			best, bestScore = p, score
		}
	}
	return best
}

// score mirrors the teacher's calculateProviderScore shape: success rate
// scaled by pool size, penalized by consecutive errors.
func (p *pool) score() float64 {
	total := p.successCount + p.failureCount
	successRate := 1.0
	if total > 0 {
		successRate = float64(p.successCount) / float64(total)
	}
	return successRate*float64(len(p.addrs)) - float64(p.consecutiveErrors)*5
}

func (p *pool) state() State {
	if len(p.addrs) == 0 {
		return StateEmpty
	}
	if p.consecutiveErrors >= degradedThreshold {
		return StateDegraded
	}
	return StateActive
}

// RecordSuccess resets the pool's consecutive-error run and appends a
// bounded latency sample.
func (m *Manager) RecordSuccess(poolName string, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pools[poolName]
	if !ok {
		return
	}
	p.successCount++
	p.consecutiveErrors = 0
	p.latencies = append(p.latencies, latency)
	if len(p.latencies) > latencyWindow {
		p.latencies = p.latencies[len(p.latencies)-latencyWindow:]
	}
}

// RecordFailure increments the pool's failure and consecutive-error
// counters. Once consecutive errors cross the degraded threshold, the
// pool's cursor jumps forward by a skip-burst so the same dead endpoint
// isn't retried on the very next acquire, without dropping the pool from
// eligibility.
func (m *Manager) RecordFailure(poolName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pools[poolName]
	if !ok {
		return
	}
	p.failureCount++
	p.consecutiveErrors++

	if p.consecutiveErrors >= degradedThreshold && len(p.addrs) > 0 {
		p.cursor = (p.cursor + skipBurstSize) % len(p.addrs)
	}
}

// RefreshAllowListIfNeeded detects the current egress IP and, if it differs
// from the stored value, pushes an allow-list update to the proxy vendor.
// IP-detection failure is logged by the caller and the stored IP is reused;
// allow-list update failure is non-fatal and retried on the next call.
func (m *Manager) RefreshAllowListIfNeeded() error {
	if m.resolver == nil {
		return nil
	}
	ip, err := m.resolver.ResolveIP()
	if err != nil {
		return fmt.Errorf("resolve egress ip: %w", err)
	}

	m.mu.Lock()
	changed := ip != m.currentIP
	m.mu.Unlock()

	if !changed {
		return nil
	}
	if m.updater != nil {
		if err := m.updater.UpdateAllowList(ip); err != nil {
			return fmt.Errorf("update allow list: %w", err)
		}
	}
	m.mu.Lock()
	m.currentIP = ip
	m.mu.Unlock()
	return nil
}

// Stats aggregates per-pool counts, scores, and the current known IP.
func (m *Manager) Stats() PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := PoolStats{CurrentIP: m.currentIP}
	for _, name := range m.order {
		p := m.pools[name]
		stats.Pools = append(stats.Pools, PoolStat{
			Name:              p.name,
			State:             p.state(),
			ProxyCount:        len(p.addrs),
			SuccessCount:      p.successCount,
			FailureCount:      p.failureCount,
			ConsecutiveErrors: p.consecutiveErrors,
			Score:             p.score(),
		})
	}
	sort.Slice(stats.Pools, func(i, j int) bool { return stats.Pools[i].Score > stats.Pools[j].Score })
	return stats
}
