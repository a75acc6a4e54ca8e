// Package stakepool holds the stake miners lock before they start mining and
// releases it when the mining contract reports a reclaim.
package stakepool

import (
	"encoding/json"

	"go.uber.org/zap"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/state"
	"pouw.net/core/common"
	. "pouw.net/core/logging"
	"pouw.net/pkg/currency"
	"pouw.net/smartcontract/miningsc"
)

var (
	ErrInsufficientLocked = common.NewError("insufficient_locked", "miner has not locked enough tokens")
	ErrAlreadyLocked      = common.NewError("already_locked", "miner already has a locked stake")
)

// UnbindRecord remembers the last unbind of a worker.
type UnbindRecord struct {
	Count  uint32 `json:"count" yaml:"count"`
	Forced uint32 `json:"forced" yaml:"forced"`
}

// StakePool holds the locked stakes in the pool account and keeps the
// bookkeeping the mining contract reports to it.
type StakePool struct {
	PoolAccount string                   `json:"pool_account" yaml:"pool_account"`
	Locked      map[string]currency.Coin `json:"locked" yaml:"locked"`
	Rewards     map[string]currency.Coin `json:"rewards" yaml:"rewards"`
	Unbinds     map[string]*UnbindRecord `json:"unbinds" yaml:"unbinds"`
	Slashed     currency.Coin            `json:"slashed" yaml:"slashed"`
}

var (
	_ miningsc.RewardObserver  = (*StakePool)(nil)
	_ miningsc.UnboundObserver = (*StakePool)(nil)
	_ miningsc.ReclaimObserver = (*StakePool)(nil)
)

func NewStakePool(poolAccount string) *StakePool {
	return &StakePool{
		PoolAccount: poolAccount,
		Locked:      make(map[string]currency.Coin),
		Rewards:     make(map[string]currency.Coin),
		Unbinds:     make(map[string]*UnbindRecord),
	}
}

func (sp *StakePool) Encode() (b []byte) {
	var err error
	if b, err = json.Marshal(sp); err != nil {
		panic(err)
	}
	return
}

// Decode replaces the pool with an encoded snapshot.
func (sp *StakePool) Decode(input []byte) error {
	next := NewStakePool("")
	if err := json.Unmarshal(input, next); err != nil {
		return err
	}
	*sp = *next
	return nil
}

// Lock moves amount from miner into the pool account.
func (sp *StakePool) Lock(balances cstate.StateContextI, miner string, amount currency.Coin) error {
	if _, ok := sp.Locked[miner]; ok {
		return ErrAlreadyLocked
	}
	if err := balances.AddTransfer(state.NewTransfer(miner, sp.PoolAccount, amount)); err != nil {
		return err
	}
	sp.Locked[miner] = amount
	return nil
}

// Release hands a stake that never started mining back to its miner.
func (sp *StakePool) Release(balances cstate.StateContextI, miner string) error {
	amount, ok := sp.Locked[miner]
	if !ok {
		return ErrInsufficientLocked
	}
	if err := balances.AddTransfer(state.NewTransfer(sp.PoolAccount, miner, amount)); err != nil {
		return err
	}
	delete(sp.Locked, miner)
	return nil
}

// EnsureLocked checks miner has locked at least stake.
func (sp *StakePool) EnsureLocked(miner string, stake currency.Coin) error {
	if sp.Locked[miner] < stake {
		return ErrInsufficientLocked
	}
	return nil
}

// OnReclaim returns the unslashed part of the stake to the miner and burns
// the slashed part.
func (sp *StakePool) OnReclaim(balances cstate.StateContextI, miner string, origStake, slashed currency.Coin) {
	returned, err := origStake.SubCoin(slashed)
	if err != nil {
		Logger.Error("reclaim slashed more than staked",
			zap.String("miner", miner),
			zap.Uint64("orig_stake", uint64(origStake)),
			zap.Uint64("slashed", uint64(slashed)))
		return
	}
	if err := balances.AddTransfer(state.NewTransfer(sp.PoolAccount, miner, returned)); err != nil {
		Logger.Error("return reclaimed stake", zap.String("miner", miner), zap.Error(err))
	}
	if err := balances.AddBurn(state.NewBurn(sp.PoolAccount, slashed)); err != nil {
		Logger.Error("burn slashed stake", zap.String("miner", miner), zap.Error(err))
	}
	if total, err := sp.Slashed.AddCoin(slashed); err == nil {
		sp.Slashed = total
	}
	delete(sp.Locked, miner)
}

func (sp *StakePool) OnUnbound(_ cstate.StateContextI, worker string, force bool) {
	rec, ok := sp.Unbinds[worker]
	if !ok {
		rec = &UnbindRecord{}
		sp.Unbinds[worker] = rec
	}
	rec.Count++
	if force {
		rec.Forced++
	}
}

// OnReward accumulates the settled payouts per worker. Distributing them is
// left to the reward budget policy.
func (sp *StakePool) OnReward(_ cstate.StateContextI, settle []miningsc.SettleInfo) {
	for _, info := range settle {
		payout, err := currency.FromFixed(info.Payout)
		if err != nil {
			Logger.Warn("payout out of range", zap.String("worker", info.PubKey))
			continue
		}
		sum, err := sp.Rewards[info.PubKey].AddCoin(payout)
		if err != nil {
			Logger.Warn("reward total saturated", zap.String("worker", info.PubKey))
			sum = currency.Coin(^uint64(0))
		}
		sp.Rewards[info.PubKey] = sum
	}
}
