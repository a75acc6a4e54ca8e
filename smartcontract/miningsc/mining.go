package miningsc

import (
	"go.uber.org/zap"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/core/common"
	. "pouw.net/core/logging"
	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
)

// StartMining moves a Ready miner to MiningIdle with stake, which is assumed
// to be locked already by the caller. The initial score Ve is derived from
// the stake and the worker's benchmark and becomes the current score.
func (msc *MiningSmartContract) StartMining(st *State, balances cstate.StateContextI, miner string, stake currency.Coin) error {
	worker, ok := st.MinerBindings[miner]
	if !ok {
		return ErrMinerNotFound
	}
	mi := st.boundMiner(miner)
	if mi.State != Ready {
		return ErrMinerNotReady
	}
	info, ok := balances.GetWorker(worker)
	if !ok {
		common.Invariant("bound worker %v of miner %v is not registered", worker, miner)
	}
	if info.InitialScore == nil {
		return ErrBenchmarkMissing
	}
	p := *info.InitialScore

	tokenomic, err := st.tokenomic()
	if err != nil {
		return err
	}
	minStake, err := tokenomic.MinimalStake(p)
	if err != nil || stake < minStake {
		return ErrInsufficientStake
	}
	ve, err := tokenomic.Ve(stake, p, info.ConfidenceLevel)
	if err != nil || ve.Cmp(tokenomic.VMax()) > 0 {
		return ErrTooMuchStake
	}

	now := nowSec(balances)
	st.Stakes[miner] = stake
	mi.State = MiningIdle
	mi.Ve = ve
	mi.V = ve
	mi.VUpdatedAt = now
	st.OnlineMiners++

	sessionID := st.NextSessionID
	st.NextSessionID++
	pushWorkerEvent(balances, WorkerEvent{
		PubKey: worker,
		Start:  &MiningStart{SessionID: sessionID, InitV: ve},
	})
	emitMinerStarted(balances, miner)

	msc.stakeHistogram.Update(int64(stake / currency.Token))
	Logger.Debug("mining started",
		zap.String("miner", miner),
		zap.Uint32("session_id", sessionID),
		zap.String("ve", ve.String()))
	return nil
}

// StopMining moves a mining miner to MiningCoolingDown. The stake stays
// locked until Reclaim.
func (msc *MiningSmartContract) StopMining(st *State, balances cstate.StateContextI, miner string) error {
	worker, err := st.ensureMinerBound(miner)
	if err != nil {
		return err
	}
	mi := st.boundMiner(miner)
	if mi.State == Ready || mi.State == MiningCoolingDown {
		return ErrMinerNotMining
	}
	if st.OnlineMiners == 0 {
		common.Invariant("miner %v is %v while no miner is online", miner, mi.State)
	}

	mi.State = MiningCoolingDown
	mi.CoolDownStart = nowSec(balances)
	st.OnlineMiners--

	pushWorkerEvent(balances, WorkerEvent{PubKey: worker, Stop: true})
	emitMinerStopped(balances, miner)
	return nil
}

func (st *State) canReclaim(mi *MinerInfo, now uint64) bool {
	if mi.State != MiningCoolingDown {
		return false
	}
	return now >= mi.CoolDownStart && now-mi.CoolDownStart >= st.CoolDownPeriod
}

// Reclaim returns a cooled down miner to Ready and releases its stake. The
// share returned is V/Ve capped at 1; the rest is slashed. Anyone may call
// it, bound or not.
func (msc *MiningSmartContract) Reclaim(st *State, balances cstate.StateContextI, miner string) error {
	mi, ok := st.Miners[miner]
	if !ok {
		return ErrMinerNotFound
	}
	if !st.canReclaim(mi, nowSec(balances)) {
		return ErrCoolDownNotReady
	}

	origStake := st.Stakes[miner]
	share, err := returnRate(mi.V, mi.Ve).Mul(currency.ToFixed(origStake))
	if err != nil {
		common.Invariant("return rate of %v above one", miner)
	}
	returned, err := currency.FromFixed(share)
	if err != nil || returned > origStake {
		common.Invariant("returned stake of %v exceeds the original stake %d", miner, origStake)
	}
	slashed := origStake - returned

	mi.State = Ready
	mi.CoolDownStart = 0
	delete(st.Stakes, miner)

	msc.reclaim.OnReclaim(balances, miner, origStake, slashed)
	emitMinerReclaimed(balances, miner, origStake, slashed)

	if slashed > 0 {
		msc.slashedCounter.Inc(int64(slashed / currency.Token))
	}
	Logger.Debug("miner reclaimed",
		zap.String("miner", miner),
		zap.Uint64("orig_stake", uint64(origStake)),
		zap.Uint64("slashed", uint64(slashed)))
	return nil
}

// returnRate is min(v / ve, 1). A miner that never had a score keeps its
// whole stake.
func returnRate(v, ve fixedpoint.U64F64) fixedpoint.U64F64 {
	if ve.IsZero() {
		return fixedpoint.One
	}
	r, err := v.Div(ve)
	if err != nil {
		return fixedpoint.One
	}
	return fixedpoint.Min(r, fixedpoint.One)
}

// ForceStartMining is StartMining for test harnesses.
func (msc *MiningSmartContract) ForceStartMining(st *State, balances cstate.StateContextI, miner string, stake currency.Coin) error {
	return msc.StartMining(st, balances, miner, stake)
}

// ForceStopMining is StopMining for test harnesses.
func (msc *MiningSmartContract) ForceStopMining(st *State, balances cstate.StateContextI, miner string) error {
	return msc.StopMining(st, balances, miner)
}
