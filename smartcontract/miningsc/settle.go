package miningsc

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/mq"
	"pouw.net/core/common"
	. "pouw.net/core/logging"
)

// HeartbeatChallenge runs once per tick. It broadcasts a fresh seed and the
// target tuned to the number of online miners.
func (msc *MiningSmartContract) HeartbeatChallenge(st *State, balances cstate.StateContextI) {
	seed := balances.Random(RandomnessSubject)
	target := PowTarget(st.expectedHeartbeatCount(), st.OnlineMiners, msc.secsPerTick)
	pushChallenge(balances, newHeartbeatChallenge(new(uint256.Int).SetBytes32(seed[:]), target))
}

// ForceHeartbeat asks every worker for a heartbeat by sending the maximum
// target with a zero seed.
func (msc *MiningSmartContract) ForceHeartbeat(balances cstate.StateContextI) {
	pushChallenge(balances, newHeartbeatChallenge(new(uint256.Int), maxUint256()))
}

// OnMiningMessageReceived applies a worker heartbeat to the benchmark of the
// bound miner. The worker may have been unbound while the message was in
// flight, in which case ErrWorkerNotBound is returned and nothing changes.
func (msc *MiningSmartContract) OnMiningMessageReceived(st *State, balances cstate.StateContextI, msg mq.Message) error {
	if !msg.Sender.IsWorker() {
		Logger.Debug("ignoring mining report", zap.String("sender", msg.Sender.String()))
		return nil
	}
	var hb Heartbeat
	if err := msg.Decode(&hb); err != nil {
		return ErrInvalidMessage
	}
	worker := msg.Sender.ID
	miner, err := st.ensureWorkerBound(worker)
	if err != nil {
		return err
	}
	mi := st.boundMiner(miner)
	info, ok := balances.GetWorker(worker)
	if !ok {
		common.Invariant("bound worker %v is not registered", worker)
	}
	if info.InitialScore == nil {
		common.Invariant("bound worker %v has no benchmark", worker)
	}

	if !mi.Benchmark.update(nowSec(balances), hb.Iterations, *info.InitialScore) {
		Logger.Warn("stale heartbeat dropped",
			zap.String("worker", worker),
			zap.Uint64("iterations", hb.Iterations),
			zap.Uint64("last_iterations", mi.Benchmark.Iterations),
			zap.Uint64("last_updated_at", mi.Benchmark.UpdatedAt))
		return ErrInvalidMessage
	}
	msc.heartbeatCounter.Inc(1)
	return nil
}

// OnGatekeeperMessageReceived applies a settlement batch. Entries naming a
// worker that is no longer bound are skipped.
func (msc *MiningSmartContract) OnGatekeeperMessageReceived(st *State, balances cstate.StateContextI, msg mq.Message) error {
	if !msg.Sender.IsGatekeeper() {
		return ErrBadSender
	}
	var ev MiningInfoUpdateEvent
	if err := msg.Decode(&ev); err != nil {
		return ErrInvalidMessage
	}
	if ev.IsEmpty() {
		return nil
	}
	now := nowSec(balances)

	for _, worker := range ev.Offline {
		miner, ok := st.WorkerBindings[worker]
		if !ok {
			msc.skip("offline", worker, "worker not bound")
			continue
		}
		mi := st.boundMiner(miner)
		if mi.State != MiningIdle && mi.State != MiningActive {
			msc.skip("offline", worker, "miner is "+mi.State.String())
			continue
		}
		mi.State = MiningUnresponsive
		emitMinerEnterUnresponsive(balances, miner)
	}

	for _, worker := range ev.RecoveredToOnline {
		miner, ok := st.WorkerBindings[worker]
		if !ok {
			msc.skip("recovered", worker, "worker not bound")
			continue
		}
		mi := st.boundMiner(miner)
		if mi.State != MiningUnresponsive {
			msc.skip("recovered", worker, "miner is "+mi.State.String())
			continue
		}
		mi.State = MiningIdle
		emitMinerExitUnresponsive(balances, miner)
	}

	for _, info := range ev.Settle {
		miner, ok := st.WorkerBindings[info.PubKey]
		if !ok {
			msc.skip("settle", info.PubKey, "worker not bound")
			continue
		}
		mi := st.boundMiner(miner)
		if !mi.State.CanSettle() {
			Logger.Debug("settling a miner that cannot settle",
				zap.String("miner", miner),
				zap.String("state", mi.State.String()))
		}
		mi.V = info.V
		mi.VUpdatedAt = now
		if saturated := mi.Stats.onReward(info.Payout); saturated {
			Logger.Warn("total reward saturated", zap.String("miner", miner))
		}
		emitMinerSettled(balances, miner, info.V, info.Payout)
		msc.settleCounter.Inc(1)
	}

	msc.reward.OnReward(balances, ev.Settle)
	return nil
}

func (msc *MiningSmartContract) skip(kind, worker, reason string) {
	msc.droppedCounter.Inc(1)
	Logger.Debug("settlement entry skipped",
		zap.String("kind", kind),
		zap.String("worker", worker),
		zap.String("reason", reason))
}

// HandleMessage routes an inbound message to its handler by topic.
func (msc *MiningSmartContract) HandleMessage(st *State, balances cstate.StateContextI, msg mq.Message) error {
	switch msg.Destination {
	case TopicMiningReport:
		return msc.OnMiningMessageReceived(st, balances, msg)
	case TopicMiningInfoUpdate:
		return msc.OnGatekeeperMessageReceived(st, balances, msg)
	}
	return common.NewErrorf("unknown_topic", "no handler for topic %v", msg.Destination)
}
