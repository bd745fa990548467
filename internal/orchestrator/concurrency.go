package orchestrator

import "runtime"

// concurrencyFloor/Ceiling bound the adapter concurrency cap regardless of
// the computed factor, grounded on the teacher's ConcurrencyManager (NumCPU
// default, "cap at 4x CPU cores", "minimum of 1x CPU cores").
const (
	concurrencyFloor   = 2
	concurrencyCeiling = 64
)

// sizeConcurrency computes the orchestrator's adapter concurrency cap from
// the host's CPU count and an environment-provided scaling factor (e.g. a
// container memory limit expressed as "how many adapter workers fit"),
// clamped to [concurrencyFloor, concurrencyCeiling]. factor <= 0 falls back
// to 2 (mirrors NewConcurrencyManager's "NumCPU * 2" default).
func sizeConcurrency(factor float64) int {
	if factor <= 0 {
		factor = 2
	}
	n := int(float64(runtime.NumCPU()) * factor)
	if n < concurrencyFloor {
		n = concurrencyFloor
	}
	if n > concurrencyCeiling {
		n = concurrencyCeiling
	}
	return n
}
