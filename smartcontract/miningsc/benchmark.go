package miningsc

import (
	"math"
	"math/bits"
)

// update records a heartbeat report. Reports that do not move both the clock
// and the iteration counter forward are rejected and leave the benchmark
// untouched.
//
// p_instant is the iteration rate normalised to 6 seconds, capped at 120% of
// the worker's initial score.
func (b *Benchmark) update(updatedAt, iterations uint64, initialScore uint32) bool {
	if updatedAt <= b.UpdatedAt || iterations <= b.Iterations {
		return false
	}
	deltaIter := iterations - b.Iterations
	deltaTs := updatedAt - b.UpdatedAt
	b.UpdatedAt = updatedAt
	b.Iterations = iterations

	p := scaleRate(deltaIter, deltaTs)
	limit := uint64(initialScore) * 12 / 10
	if p > limit {
		p = limit
	}
	b.PInstant = uint32(p)
	return true
}

// scaleRate returns floor(deltaIter * 6 / deltaTs) without overflowing,
// clamped to the uint32 range.
func scaleRate(deltaIter, deltaTs uint64) uint64 {
	hi, lo := bits.Mul64(deltaIter, 6)
	if hi >= deltaTs {
		return math.MaxUint32
	}
	q, _ := bits.Div64(hi, lo, deltaTs)
	if q > math.MaxUint32 {
		return math.MaxUint32
	}
	return q
}
