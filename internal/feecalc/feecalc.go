// Package feecalc implements Steam Community Market's seller fee ladder as
// a pure function: gross sale price in USD in, net seller-received price
// out. The ladder itself has no analogue anywhere in the teacher or pack —
// it's the spec's own exact algorithm, required to be bit-compatible with
// existing data, so this is stdlib math only by necessity, not preference.
package feecalc

import "math"

var baseIntervals = []float64{0.02, 0.21, 0.32, 0.43}
var baseFees = []float64{0.02, 0.03, 0.04, 0.05, 0.07, 0.09}

// Net computes the seller-received net price for a gross sale price,
// following Steam's dynamic interval ladder (§4.8):
//   - start from the fixed initial intervals/fees
//   - extend intervals by +0.11 (even-parity last index) or +0.12
//     (odd-parity) until an interval covers gross
//   - extend fees in lockstep by +0.01 or +0.02 under the same parity rule
//     until there are at least as many fees as intervals
//   - the first interval ≥ gross selects the fee index
func Net(gross float64) float64 {
	if gross <= 0 {
		return 0
	}

	intervals := append([]float64(nil), baseIntervals...)
	fees := append([]float64(nil), baseFees...)

	for intervals[len(intervals)-1] < gross {
		lastIdx := len(intervals) - 1
		var step float64
		if lastIdx%2 == 0 {
			step = 0.11
		} else {
			step = 0.12
		}
		intervals = append(intervals, intervals[lastIdx]+step)
	}

	for len(fees) < len(intervals) {
		lastIdx := len(fees) - 1
		var step float64
		if lastIdx%2 == 0 {
			step = 0.01
		} else {
			step = 0.02
		}
		fees = append(fees, fees[lastIdx]+step)
	}

	idx := len(intervals) - 1
	for i, bound := range intervals {
		if bound >= gross {
			idx = i
			break
		}
	}

	fee := fees[idx]
	net := math.Round((gross-fee)*100) / 100
	if net < 0 {
		return 0
	}
	return net
}
