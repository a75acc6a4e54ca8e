package miningsc

import (
	"testing"

	"github.com/stretchr/testify/require"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/mq"
	"pouw.net/chaincore/registry"
	"pouw.net/core/common"
	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
	"pouw.net/smartcontract/dbs/event"
)

type unboundCall struct {
	worker string
	force  bool
}

type reclaimCall struct {
	miner     string
	origStake currency.Coin
	slashed   currency.Coin
}

type recordingObserver struct {
	rewards  [][]SettleInfo
	unbounds []unboundCall
	reclaims []reclaimCall
}

func (o *recordingObserver) OnReward(_ cstate.StateContextI, settle []SettleInfo) {
	o.rewards = append(o.rewards, settle)
}

func (o *recordingObserver) OnUnbound(_ cstate.StateContextI, worker string, force bool) {
	o.unbounds = append(o.unbounds, unboundCall{worker: worker, force: force})
}

func (o *recordingObserver) OnReclaim(_ cstate.StateContextI, miner string, origStake, slashed currency.Coin) {
	o.reclaims = append(o.reclaims, reclaimCall{miner: miner, origStake: origStake, slashed: slashed})
}

type testEnv struct {
	t        *testing.T
	now      common.Timestamp
	workers  *registry.Workers
	balances *cstate.StateContext
	msc      *MiningSmartContract
	st       *State
	obs      *recordingObserver
}

func score(s uint32) *uint32 {
	return &s
}

// newTestEnv registers w1 (operator op1, score 1000) and w2 (operator op2,
// score 1000, confidence 4), plus the unbenchmarked w3.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{t: t, now: 1000, workers: registry.NewWorkers(), obs: &recordingObserver{}}
	require.NoError(t, env.workers.Register(registry.WorkerInfo{PubKey: "w1", Operator: "op1", InitialScore: score(1000), ConfidenceLevel: 1}))
	require.NoError(t, env.workers.Register(registry.WorkerInfo{PubKey: "w2", Operator: "op2", InitialScore: score(1000), ConfidenceLevel: 4}))
	require.NoError(t, env.workers.Register(registry.WorkerInfo{PubKey: "w3", Operator: "op3"}))

	env.balances = cstate.NewStateContext(
		cstate.WithClock(func() common.Timestamp { return env.now }),
		cstate.WithRegistry(env.workers),
		cstate.WithRandomness(cstate.SeededRandomness{Seed: []byte("test")}),
		cstate.WithBlock(1, "txn"),
	)
	env.msc = NewMiningSmartContract(
		WithOwner("root"),
		WithSubsidyAccount("subsidy"),
		WithRewardObserver(env.obs),
		WithUnboundObserver(env.obs),
		WithReclaimObserver(env.obs),
	)
	st, err := NewState(DefaultGenesisConfig(), env.balances)
	require.NoError(t, err)
	env.st = st
	// drop the genesis broadcast
	env.balances.GetQueue().Take()
	return env
}

func (env *testEnv) bind(miner, worker string) {
	env.t.Helper()
	require.NoError(env.t, env.msc.Bind(env.st, env.balances, miner, worker))
}

func (env *testEnv) start(miner string, tokens uint64) {
	env.t.Helper()
	require.NoError(env.t, env.msc.StartMining(env.st, env.balances, miner, currency.Coin(tokens)*currency.Token))
}

func (env *testEnv) hash() string {
	env.t.Helper()
	h, err := env.st.Hash()
	require.NoError(env.t, err)
	return h
}

func (env *testEnv) tags() []event.EventTag {
	var tags []event.EventTag
	for _, e := range env.balances.GetEvents() {
		tags = append(tags, e.Tag)
	}
	return tags
}

func (env *testEnv) systemEvents() []SystemEvent {
	env.t.Helper()
	var out []SystemEvent
	for _, m := range env.balances.GetMessages() {
		if m.Destination != TopicSystemEvent {
			continue
		}
		var se SystemEvent
		require.NoError(env.t, m.Decode(&se))
		out = append(out, se)
	}
	return out
}

func (env *testEnv) gatekeeperMessage(ev MiningInfoUpdateEvent) mq.Message {
	env.t.Helper()
	msg, err := mq.NewMessage(mq.Gatekeeper(), TopicMiningInfoUpdate, ev)
	require.NoError(env.t, err)
	return msg
}

func (env *testEnv) heartbeat(worker string, iterations uint64) mq.Message {
	env.t.Helper()
	msg, err := mq.NewMessage(mq.Worker(worker), TopicMiningReport, Heartbeat{Iterations: iterations})
	require.NoError(env.t, err)
	return msg
}

func requireInvariant(t *testing.T, fn func()) {
	t.Helper()
	var err error
	func() {
		defer func() {
			err = common.RecoverInvariant(recover())
		}()
		fn()
	}()
	require.Error(t, err, "expected an invariant violation")
	require.ErrorIs(t, err, common.NewError(common.ErrInvariantCode, ""))
}

func bitsValue(t *testing.T, s string) fixedpoint.U64F64 {
	t.Helper()
	var f fixedpoint.U64F64
	require.NoError(t, f.UnmarshalText([]byte(s)))
	return f
}
