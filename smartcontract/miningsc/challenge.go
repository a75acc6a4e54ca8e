package miningsc

import (
	"math"

	"github.com/holiman/uint256"
)

const (
	// RandomnessSubject is the domain tag of the heartbeat challenge seed.
	RandomnessSubject = "mining/heartbeat"

	DefaultExpectedHeartbeatCount uint32 = 20

	// heartbeatsPerMinerHour caps how often a single miner may win.
	heartbeatsPerMinerHour = 2
	u32f32Frac             = 32
	targetFracBits         = 24
)

// PowTarget returns the threshold a heartbeat hash must stay below so that
// numTx heartbeats are expected per tick across all online workers, with no
// single worker expected to win more than twice an hour.
//
// The ratio is evaluated in 32.32 fixed point and only its top 24 fractional
// bits are kept. With no online worker the target is zero.
func PowTarget(numTx, onlineWorkers, secsPerTick uint32) *uint256.Int {
	if onlineWorkers == 0 || secsPerTick == 0 {
		return new(uint256.Int)
	}
	workers := uint64(onlineWorkers) << u32f32Frac
	ticksPerHour := uint64(3600 / secsPerTick)
	if ticksPerHour == 0 {
		ticksPerHour = 1
	}

	var maxTx uint64
	if onlineWorkers >= 1<<31 {
		maxTx = math.MaxUint64
	} else {
		// (2w << 32) / n, the 32.32 quotient of 2w by n.
		maxTx = (uint64(heartbeatsPerMinerHour) * workers) / ticksPerHour
	}
	target := uint64(numTx) << u32f32Frac
	if maxTx < target {
		target = maxTx
	}

	// target / workers in 32.32, computed on 128 bits.
	q := new(uint256.Int).Lsh(uint256.NewInt(target), u32f32Frac)
	q.Div(q, uint256.NewInt(workers))
	frac := (q.Uint64() << targetFracBits) >> u32f32Frac

	unit := new(uint256.Int).Rsh(maxUint256(), targetFracBits)
	threshold, overflow := new(uint256.Int).MulOverflow(unit, uint256.NewInt(frac))
	if overflow {
		return maxUint256()
	}
	return threshold
}

func maxUint256() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}
