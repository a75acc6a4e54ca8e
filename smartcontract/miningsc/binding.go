package miningsc

import (
	"go.uber.org/zap"

	cstate "pouw.net/chaincore/chain/state"
	. "pouw.net/core/logging"
)

func nowSec(balances cstate.StateContextI) uint64 {
	now := balances.Now()
	if now < 0 {
		return 0
	}
	return uint64(now)
}

// Bind binds miner to worker and starts a fresh mining record for the miner.
//
// The worker must be registered and benchmarked, and neither side may already
// be bound. A miner whose previous session has not been reclaimed yet cannot
// be bound again.
func (msc *MiningSmartContract) Bind(st *State, balances cstate.StateContextI, miner, worker string) error {
	info, ok := balances.GetWorker(worker)
	if !ok {
		return ErrWorkerNotRegistered
	}
	if info.InitialScore == nil {
		return ErrBenchmarkMissing
	}
	if _, err := st.ensureMinerBound(miner); err == nil {
		return ErrDuplicateBoundMiner
	}
	if _, err := st.ensureWorkerBound(worker); err == nil {
		return ErrDuplicateBoundMiner
	}
	// A record kept from a previous binding still holds a stake until it is
	// reclaimed.
	if prev, ok := st.Miners[miner]; ok && prev.State != Ready {
		return ErrMinerNotReady
	}

	now := nowSec(balances)
	st.MinerBindings[miner] = worker
	st.WorkerBindings[worker] = miner
	st.Miners[miner] = newMinerInfo(now)

	emitMinerBound(balances, miner, worker)
	return nil
}

// UnbindMiner removes the binding of miner. A miner that is still mining is
// stopped first, which is reported to the unbound observer as a forced
// unbind when notify is set.
func (msc *MiningSmartContract) UnbindMiner(st *State, balances cstate.StateContextI, miner string, notify bool) error {
	worker, err := st.ensureMinerBound(miner)
	if err != nil {
		return err
	}
	mi := st.boundMiner(miner)

	force := !mi.State.CanUnbind()
	if force {
		if err := msc.StopMining(st, balances, miner); err != nil {
			return err
		}
	}
	delete(st.MinerBindings, miner)
	delete(st.WorkerBindings, worker)
	emitMinerUnbound(balances, miner, worker)
	if notify {
		msc.unbound.OnUnbound(balances, worker, force)
	}

	Logger.Debug("miner unbound",
		zap.String("miner", miner),
		zap.String("worker", worker),
		zap.Bool("force", force))
	return nil
}

// Unbind is the signed form of UnbindMiner: only the operator of the bound
// worker may call it, and the observer is always notified.
func (msc *MiningSmartContract) Unbind(st *State, balances cstate.StateContextI, sender, miner string) error {
	worker, err := st.ensureMinerBound(miner)
	if err != nil {
		return err
	}
	info, ok := balances.GetWorker(worker)
	if !ok {
		return ErrWorkerNotRegistered
	}
	if info.Operator == "" || info.Operator != sender {
		return ErrBadSender
	}
	return msc.UnbindMiner(st, balances, miner, true)
}
