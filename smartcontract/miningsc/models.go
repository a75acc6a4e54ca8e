package miningsc

import (
	"math"

	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
)

// Benchmark is the smoothed performance of the worker bound to a miner.
type Benchmark struct {
	PInstant        uint32 `json:"p_instant"`
	Iterations      uint64 `json:"iterations"`
	MiningStartTime uint64 `json:"mining_start_time"`
	UpdatedAt       uint64 `json:"updated_at"`
}

type MinerStats struct {
	TotalReward currency.Coin `json:"total_reward"`
}

// MinerInfo is the mining record of a miner account. It is created on bind
// and kept after unbind until the next bind resets it.
type MinerInfo struct {
	State MinerState `json:"state"`
	// Ve is the initial score.
	Ve fixedpoint.U64F64 `json:"ve"`
	// V is the current score, updated by settlement.
	V             fixedpoint.U64F64 `json:"v"`
	VUpdatedAt    uint64            `json:"v_updated_at"`
	Benchmark     Benchmark         `json:"benchmark"`
	CoolDownStart uint64            `json:"cool_down_start"`
	Stats         MinerStats        `json:"stats"`
}

func newMinerInfo(now uint64) *MinerInfo {
	return &MinerInfo{
		State:      Ready,
		VUpdatedAt: now,
		Benchmark: Benchmark{
			MiningStartTime: now,
		},
	}
}

func (mi *MinerInfo) clone() *MinerInfo {
	c := *mi
	return &c
}

// onReward adds a settled payout carried as fixed point bits. The total
// saturates instead of wrapping.
func (ms *MinerStats) onReward(payout fixedpoint.U64F64) (saturated bool) {
	amount, err := currency.FromFixed(payout)
	if err == nil {
		if sum, err := ms.TotalReward.AddCoin(amount); err == nil {
			ms.TotalReward = sum
			return false
		}
	}
	ms.TotalReward = currency.Coin(math.MaxUint64)
	return true
}
