package replay

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"pouw.net/chaincore/config"
	"pouw.net/pkg/currency"
	sccommon "pouw.net/smartcontract/common"
	"pouw.net/smartcontract/dbs/event"
	"pouw.net/smartcontract/miningsc"
)

func scConfig() *viper.Viper {
	prev := config.SmartContractConfig
	defer func() { config.SmartContractConfig = prev }()
	config.SmartContractConfig = viper.New()
	config.SetupDefaultSmartContractConfig()
	return config.SmartContractConfig
}

func runLifecycle(t *testing.T, opts ...Option) (*Runner, *Report) {
	t.Helper()
	sc, err := ReadScenario(filepath.Join("testdata", "lifecycle.yaml"))
	require.NoError(t, err)
	r, err := NewRunner(sc, scConfig(), append([]Option{WithInvariantChecks(true)}, opts...)...)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	return r, report
}

func TestRunner_Lifecycle(t *testing.T) {
	r, report := runLifecycle(t)
	for _, s := range report.Steps {
		require.False(t, s.Unexpected, "step %d: %v", s.Index, s.Error)
		require.False(t, s.Aborted)
	}
	require.False(t, report.Failed())

	returned := currency.Coin(2515723270440251)
	require.Equal(t, 5000*currency.Token+returned, report.Ledger.Balances["m1"])
	require.Equal(t, 5000*currency.Token-returned, report.Ledger.Burned)
	require.Zero(t, report.Ledger.Balances["mining_pool"])
	require.Equal(t, 90*currency.Token, report.Ledger.Balances["subsidy_pool"])
	require.Equal(t, 10*currency.Token, report.Ledger.Balances["alice"])

	require.Equal(t, 5000*currency.Token-returned, report.Pool.Slashed)
	require.Equal(t, currency.Token+currency.Token/2, report.Pool.Rewards["w1"])
	require.Empty(t, report.Pool.Locked)

	// genesis broadcast, start, tick, stop
	require.Equal(t, 1, report.Messages[miningsc.TopicGatekeeperEvent])
	require.Equal(t, 3, report.Messages[miningsc.TopicSystemEvent])

	mi, ok := r.State().Miner("m1")
	require.True(t, ok)
	require.Equal(t, miningsc.Ready, mi.State)
	require.EqualValues(t, 660, mi.Benchmark.PInstant)
	worker, ok := r.State().MinerBinding("m2")
	require.True(t, ok)
	require.Equal(t, "w2", worker)

	h, err := r.State().Hash()
	require.NoError(t, err)
	require.Equal(t, h, report.StateHash)
}

func TestRunner_Deterministic(t *testing.T) {
	_, first := runLifecycle(t)
	_, second := runLifecycle(t)
	require.Equal(t, first.StateHash, second.StateHash)
	require.Equal(t, first.Ledger, second.Ledger)
}

func TestRunner_UnexpectedOutcome(t *testing.T) {
	sc, err := ParseScenario([]byte(`
steps:
  - at: 1
    kind: call
    call: {from: owner, function: stop_mining, input: '{"miner":"m1"}'}
  - at: 2
    kind: call
    expect: miner_not_bound
    call: {from: owner, function: set_cool_down_expiration, input: '{"period":5}'}
`))
	require.NoError(t, err)
	r, err := NewRunner(sc, scConfig())
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	require.True(t, report.Steps[0].Unexpected)
	require.Contains(t, report.Steps[0].Error, "miner_not_bound")
	require.True(t, report.Steps[1].Unexpected)
	require.EqualValues(t, 5, r.State().CoolDownPeriod)
	require.True(t, report.Failed())
}

func TestRunner_InvariantRollsBack(t *testing.T) {
	sc, err := ParseScenario([]byte(`
workers:
  - {pubkey: w1, operator: op1, initial_score: 1000, confidence_level: 1}
steps:
  - at: 1
    kind: call
    expect: invariant_violation
    call: {from: owner, function: stop_mining, input: '{"miner":"m1"}'}
`))
	require.NoError(t, err)
	r, err := NewRunner(sc, scConfig(), WithInvariantChecks(false))
	require.NoError(t, err)

	// a binding without a mining record
	r.State().MinerBindings["m1"] = "w1"
	r.State().WorkerBindings["w1"] = "m1"
	before, err := r.State().Hash()
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.True(t, report.Steps[0].Aborted)
	require.False(t, report.Steps[0].Unexpected)
	require.Equal(t, before, report.StateHash)
}

func TestRunner_BrokenStateStopsRun(t *testing.T) {
	sc, err := ParseScenario([]byte(`
steps:
  - at: 1
    kind: tick
`))
	require.NoError(t, err)
	r, err := NewRunner(sc, scConfig(), WithInvariantChecks(true))
	require.NoError(t, err)
	r.State().OnlineMiners = 3

	_, err = r.Run(context.Background())
	require.Error(t, err)
}

func TestRunner_InvalidGenesis(t *testing.T) {
	sc, err := ParseScenario([]byte("genesis:\n  tokenomic:\n    re: \"0.5\"\n"))
	require.NoError(t, err)
	_, err = NewRunner(sc, scConfig())
	require.Error(t, err)

	sc, err = ParseScenario([]byte("accounts:\n  a: \"-1\"\n"))
	require.NoError(t, err)
	_, err = NewRunner(sc, scConfig())
	require.Error(t, err)
}

func TestRunner_PersistsEvents(t *testing.T) {
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	edb, err := event.NewEventDb(config.DbAccess{
		Enabled: true,
		Driver:  "sqlite",
		DSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	defer edb.Close()

	r, _ := runLifecycle(t, WithEventDb(edb))
	require.EqualValues(t, 18, edb.GetRound())

	resp, err := r.Contract().Query(context.Background(), "/getMinerEvents",
		map[string]string{"miner": "m1", "tag": fmt.Sprint(event.TagMinerReclaimed.Int())}, r.State())
	require.NoError(t, err)
	require.Len(t, resp.([]event.Event), 1)

	errs, err := edb.GetErrorByTransactionHash("step-1", sccommon.Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, errs, 1)
}

func TestRunner_ContextCancelled(t *testing.T) {
	sc, err := ParseScenario([]byte("steps:\n  - at: 1\n    kind: tick\n"))
	require.NoError(t, err)
	r, err := NewRunner(sc, scConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_StakeMustBeLocked(t *testing.T) {
	sc, err := ParseScenario([]byte(`
accounts:
  m1: "6000"
workers:
  - {pubkey: w1, operator: op1, initial_score: 1000, confidence_level: 1}
steps:
  - at: 1
    kind: call
    call: {from: owner, function: bind, input: '{"miner":"m1","worker":"w1"}'}
  - at: 1
    kind: call
    expect: insufficient_locked
    call: {from: owner, function: start_mining, input: '{"miner":"m1","stake":"5000"}'}
  - at: 2
    kind: lock
    lock: {miner: m1, amount: "5000"}
  - at: 2
    kind: lock
    expect: already_locked
    lock: {miner: m1, amount: "1"}
  - at: 3
    kind: unlock
    lock: {miner: m1}
  - at: 4
    kind: lock
    expect: insufficient_balance
    lock: {miner: m1, amount: "7000"}
  - at: 5
    kind: lock
    lock: {miner: m1, amount: "5000"}
  - at: 5
    kind: call
    call: {from: owner, function: start_mining, input: '{"miner":"m1","stake":"5000"}'}
  - at: 6
    kind: unlock
    expect: miner_not_ready
    lock: {miner: m1}
`))
	require.NoError(t, err)
	r, err := NewRunner(sc, scConfig())
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	for _, s := range report.Steps {
		require.False(t, s.Unexpected, "step %d: %v", s.Index, s.Error)
	}
	require.Equal(t, 1000*currency.Token, report.Ledger.Balances["m1"])
	require.Equal(t, 5000*currency.Token, report.Pool.Locked["m1"])
}

func TestRunner_ScenarioGenesis(t *testing.T) {
	sc, err := ParseScenario([]byte(`
genesis:
  owner: council
  cool_down_period: 60
  tokenomic:
    k: "50"
steps:
  - at: 1
    kind: call
    expect: bad_sender
    call: {from: owner, function: force_heartbeat, input: '{}'}
  - at: 1
    kind: call
    call: {from: council, function: force_heartbeat, input: '{}'}
`))
	require.NoError(t, err)
	v := scConfig()
	v.Set("smart_contracts.miningsc.expected_heartbeat_count", 40)
	r, err := NewRunner(sc, v)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.False(t, report.Failed())

	st := r.State()
	require.EqualValues(t, 60, st.CoolDownPeriod)
	require.EqualValues(t, 40, *st.ExpectedHeartbeatCount)
	require.Equal(t, "50", st.Tokenomic.K.String())
	require.Equal(t, "1.5", st.Tokenomic.Re.String())
}

func TestRunner_ReclaimTransferFailureRollsBack(t *testing.T) {
	sc, err := ParseScenario([]byte(`
genesis:
  cool_down_period: 10
  subsidy_account: mining_pool
accounts:
  m1: "6000"
workers:
  - {pubkey: w1, operator: op1, initial_score: 1000, confidence_level: 1}
steps:
  - at: 1
    kind: call
    call: {from: owner, function: bind, input: '{"miner":"m1","worker":"w1"}'}
  - at: 1
    kind: lock
    lock: {miner: m1, amount: "5000"}
  - at: 1
    kind: call
    call: {from: owner, function: start_mining, input: '{"miner":"m1","stake":"5000"}'}
  - at: 2
    kind: call
    call: {from: owner, function: stop_mining, input: '{"miner":"m1"}'}
  - at: 3
    kind: call
    call: {from: owner, function: withdraw_subsidy_pool, input: '{"target":"alice","amount":"5000"}'}
  - at: 20
    kind: call
    expect: insufficient_balance
    call: {from: anyone, function: reclaim, input: '{"miner":"m1"}'}
`))
	require.NoError(t, err)
	r, err := NewRunner(sc, scConfig(), WithInvariantChecks(true))
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.False(t, report.Failed())

	mi, ok := r.State().Miner("m1")
	require.True(t, ok)
	require.Equal(t, miningsc.MiningCoolingDown, mi.State)
	stake, ok := r.State().Stake("m1")
	require.True(t, ok)
	require.Equal(t, 5000*currency.Token, stake)
	require.Equal(t, 5000*currency.Token, report.Pool.Locked["m1"])
	require.Equal(t, 5000*currency.Token, report.Ledger.Balances["alice"])
	require.Zero(t, report.Ledger.Burned)
}
