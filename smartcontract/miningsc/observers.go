package miningsc

import (
	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/pkg/currency"
)

// RewardObserver receives every settlement batch after it is applied.
type RewardObserver interface {
	OnReward(balances cstate.StateContextI, settle []SettleInfo)
}

// UnboundObserver is told when a worker is unbound. force is set when the
// unbind stopped a running miner.
type UnboundObserver interface {
	OnUnbound(balances cstate.StateContextI, worker string, force bool)
}

// ReclaimObserver is told how much of a miner's stake to release. The miner
// may no longer have a worker at that point.
type ReclaimObserver interface {
	OnReclaim(balances cstate.StateContextI, miner string, origStake, slashed currency.Coin)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) OnReward(cstate.StateContextI, []SettleInfo)                          {}
func (NopObserver) OnUnbound(cstate.StateContextI, string, bool)                         {}
func (NopObserver) OnReclaim(cstate.StateContextI, string, currency.Coin, currency.Coin) {}
