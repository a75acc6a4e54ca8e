package miningsc

import (
	"encoding/json"

	"go.uber.org/zap"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/mq"
	"pouw.net/core/common"
	. "pouw.net/core/logging"
	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
	"pouw.net/smartcontract/dbs/event"
)

const palletName = "mining"

// MiningEvent is the data of every chain event the contract emits. Only the
// fields relevant to the tag are set.
type MiningEvent struct {
	Miner     string             `json:"miner,omitempty"`
	Worker    string             `json:"worker,omitempty"`
	Period    *uint64            `json:"period,omitempty"`
	OrigStake *currency.Coin     `json:"orig_stake,omitempty"`
	Slashed   *currency.Coin     `json:"slashed,omitempty"`
	V         *fixedpoint.U64F64 `json:"v,omitempty"`
	Payout    *fixedpoint.U64F64 `json:"payout,omitempty"`
	Version   *uint64            `json:"version,omitempty"`
	Target    string             `json:"target,omitempty"`
	Amount    *currency.Coin     `json:"amount,omitempty"`
}

func emit(balances cstate.StateContextI, tag event.EventTag, index string, data MiningEvent) {
	raw, err := json.Marshal(data)
	if err != nil {
		Logger.Error("marshal mining event", zap.String("tag", tag.String()), zap.Error(err))
		return
	}
	balances.EmitEvent(event.TypeChain, tag, index, string(raw))
}

func emitMinerBound(balances cstate.StateContextI, miner, worker string) {
	emit(balances, event.TagMinerBound, miner, MiningEvent{Miner: miner, Worker: worker})
}

func emitMinerUnbound(balances cstate.StateContextI, miner, worker string) {
	emit(balances, event.TagMinerUnbound, miner, MiningEvent{Miner: miner, Worker: worker})
}

func emitMinerStarted(balances cstate.StateContextI, miner string) {
	emit(balances, event.TagMinerStarted, miner, MiningEvent{Miner: miner})
}

func emitMinerStopped(balances cstate.StateContextI, miner string) {
	emit(balances, event.TagMinerStopped, miner, MiningEvent{Miner: miner})
}

func emitMinerReclaimed(balances cstate.StateContextI, miner string, origStake, slashed currency.Coin) {
	emit(balances, event.TagMinerReclaimed, miner, MiningEvent{Miner: miner, OrigStake: &origStake, Slashed: &slashed})
}

func emitMinerEnterUnresponsive(balances cstate.StateContextI, miner string) {
	emit(balances, event.TagMinerEnterUnresponsive, miner, MiningEvent{Miner: miner})
}

func emitMinerExitUnresponsive(balances cstate.StateContextI, miner string) {
	emit(balances, event.TagMinerExitUnresponsive, miner, MiningEvent{Miner: miner})
}

func emitMinerSettled(balances cstate.StateContextI, miner string, v, payout fixedpoint.U64F64) {
	emit(balances, event.TagMinerSettled, miner, MiningEvent{Miner: miner, V: &v, Payout: &payout})
}

func emitCoolDownExpirationChanged(balances cstate.StateContextI, period uint64) {
	emit(balances, event.TagCoolDownExpirationChanged, "", MiningEvent{Period: &period})
}

func emitTokenomicParametersChanged(balances cstate.StateContextI, version uint64) {
	emit(balances, event.TagTokenomicParametersChanged, "", MiningEvent{Version: &version})
}

func emitSubsidyPoolWithdrawn(balances cstate.StateContextI, target string, amount currency.Coin) {
	emit(balances, event.TagSubsidyPoolWithdrawn, target, MiningEvent{Target: target, Amount: &amount})
}

// pushMessage publishes payload from the contract. The payloads are plain
// structs, so an encoding failure means a broken build.
func pushMessage(balances cstate.StateContextI, topic mq.Topic, payload interface{}) {
	msg, err := mq.NewMessage(mq.Pallet(palletName), topic, payload)
	if err != nil {
		common.Invariant("encode %v message: %v", topic, err)
	}
	balances.PushMessage(msg)
}

func pushWorkerEvent(balances cstate.StateContextI, we WorkerEvent) {
	pushMessage(balances, TopicSystemEvent, SystemEvent{Worker: &we})
}

func pushChallenge(balances cstate.StateContextI, hc HeartbeatChallenge) {
	pushMessage(balances, TopicSystemEvent, SystemEvent{Challenge: &hc})
}

func pushGatekeeperEvent(balances cstate.StateContextI, ge GatekeeperEvent) {
	pushMessage(balances, TopicGatekeeperEvent, ge)
}
