package enrich

import (
	"math"
	"sort"
)

// AdjustBenjaminiHochberg applies Benjamini-Hochberg FDR correction to a
// vector of raw p-values and returns the adjusted values in the same
// order. m is the length of the input: callers must pass exactly the
// p-values of the sets that were actually tested, because every adjusted
// value depends on that count.
//
// Procedure: sort ascending, scale rank i (1-based) by p*m/i, enforce
// monotonicity with a running minimum from the largest rank down, clip to
// 1, restore input order.
func AdjustBenjaminiHochberg(rawP []float64) []float64 {
	m := len(rawP)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return rawP[order[i]] < rawP[order[j]]
	})

	scaled := make([]float64, m)
	for rank, idx := range order {
		scaled[rank] = rawP[idx] * float64(m) / float64(rank+1)
	}

	runningMin := scaled[m-1]
	for rank := m - 1; rank >= 0; rank-- {
		if scaled[rank] < runningMin {
			runningMin = scaled[rank]
		}
		scaled[rank] = runningMin
	}

	adjusted := make([]float64, m)
	for rank, idx := range order {
		v := scaled[rank]
		if v > 1 {
			v = 1
		}
		// p*m/i can round one ULP below p itself; mathematically the
		// adjusted value never drops under the raw value, so the clamp
		// only absorbs floating-point noise.
		adjusted[idx] = math.Max(v, rawP[idx])
	}

	return adjusted
}
