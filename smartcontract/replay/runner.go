package replay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/config"
	"pouw.net/chaincore/mq"
	"pouw.net/chaincore/registry"
	sci "pouw.net/chaincore/smartcontractinterface"
	"pouw.net/chaincore/transaction"
	"pouw.net/core/common"
	. "pouw.net/core/logging"
	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
	"pouw.net/smartcontract/dbs/event"
	"pouw.net/smartcontract/miningsc"
	"pouw.net/smartcontract/stakepool"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int              `yaml:"index"`
	At     common.Timestamp `yaml:"at"`
	Kind   string           `yaml:"kind"`
	Output string           `yaml:"output,omitempty"`
	Error  string           `yaml:"error,omitempty"`
	// Aborted is set when the step hit an invariant violation and was rolled
	// back.
	Aborted bool `yaml:"aborted,omitempty"`
	// Unexpected is set when the outcome differs from the step expectation.
	Unexpected bool `yaml:"unexpected,omitempty"`
}

// Report summarises a replay.
type Report struct {
	Scenario  string               `yaml:"scenario"`
	Steps     []StepResult         `yaml:"steps"`
	StateHash string               `yaml:"state_hash"`
	Messages  map[mq.Topic]int     `yaml:"messages"`
	Ledger    *Ledger              `yaml:"ledger"`
	Pool      *stakepool.StakePool `yaml:"pool"`
	Stats     []sci.MetricStats    `yaml:"stats"`
}

// Failed reports whether any step ended differently than expected.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Unexpected {
			return true
		}
	}
	return false
}

// Runner replays a scenario against a fresh contract.
type Runner struct {
	scenario        *Scenario
	workers         *registry.Workers
	msc             *miningsc.MiningSmartContract
	st              *miningsc.State
	pool            *stakepool.StakePool
	ledger          *Ledger
	eventDb         *event.EventDb
	checkInvariants bool
	round           int64
	messages        map[mq.Topic]int
}

type Option func(*Runner)

// WithEventDb persists the events of every step.
func WithEventDb(edb *event.EventDb) Option {
	return func(r *Runner) {
		r.eventDb = edb
	}
}

// WithInvariantChecks overrides development.check_invariants.
func WithInvariantChecks(check bool) Option {
	return func(r *Runner) {
		r.checkInvariants = check
	}
}

// NewRunner builds the contract from v, the smart contract configuration,
// with the scenario genesis applied on top. Scalar genesis keys are set on v.
func NewRunner(sc *Scenario, v *viper.Viper, options ...Option) (*Runner, error) {
	r := &Runner{
		scenario:        sc,
		workers:         registry.NewWorkers(),
		ledger:          NewLedger(),
		checkInvariants: config.DevConfiguration.CheckInvariants,
		messages:        make(map[mq.Topic]int),
	}
	for _, opt := range options {
		opt(r)
	}

	gc, err := miningsc.ReadGenesisConfig(v)
	if err != nil {
		return nil, err
	}
	if len(sc.Genesis) > 0 {
		if err := config.Decode(sc.Genesis, &gc); err != nil {
			return nil, errors.Wrap(err, "decode scenario genesis")
		}
		if err := gc.Tokenomic.Validate(); err != nil {
			return nil, err
		}
		// contract level settings such as owner or secs_per_tick
		for key, val := range sc.Genesis {
			if _, nested := val.(map[interface{}]interface{}); !nested {
				v.Set("smart_contracts.miningsc."+key, val)
			}
		}
	}
	for _, w := range sc.Workers {
		if err := r.workers.Register(w); err != nil {
			return nil, errors.Wrapf(err, "register worker %q", w.PubKey)
		}
	}
	for account, tokens := range sc.Accounts {
		amount, err := currency.ParseToken(tokens)
		if err != nil {
			return nil, errors.Wrapf(err, "balance of %v", account)
		}
		r.ledger.Balances[account] = amount
	}

	r.pool = stakepool.NewStakePool(v.GetString("smart_contracts.miningsc.pool_account"))
	r.msc = miningsc.NewMiningSmartContractFromConfig(v,
		miningsc.WithEventDb(r.eventDb),
		miningsc.WithRewardObserver(r.pool),
		miningsc.WithUnboundObserver(r.pool),
		miningsc.WithReclaimObserver(r.pool),
	)

	balances := r.stateContext(0, "genesis")
	if r.st, err = miningsc.NewState(gc, balances); err != nil {
		return nil, err
	}
	r.drain(balances)
	return r, nil
}

func (r *Runner) stateContext(at common.Timestamp, txnHash string) *cstate.StateContext {
	return cstate.NewStateContext(
		cstate.WithFixedTime(at),
		cstate.WithRegistry(r.workers),
		cstate.WithRandomness(cstate.SeededRandomness{Seed: []byte(r.scenario.Seed)}),
		cstate.WithBlock(r.round, txnHash),
	)
}

func (r *Runner) drain(balances *cstate.StateContext) {
	for _, m := range balances.GetQueue().Take() {
		r.messages[m.Destination]++
	}
}

// Contract exposes the contract for queries after a run.
func (r *Runner) Contract() *miningsc.MiningSmartContract {
	return r.msc
}

// State exposes the contract state for queries after a run.
func (r *Runner) State() *miningsc.State {
	return r.st
}

// Run executes every step in order. Failing steps are rolled back and
// reported; only a broken state or event store stops the run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{Scenario: r.scenario.Name}
	for i, step := range r.scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.round++
		res, err := r.step(ctx, i, step)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		if res.Unexpected {
			Logger.Warn("unexpected step outcome",
				zap.Int("step", i),
				zap.String("kind", step.Kind),
				zap.String("expect", step.Expect),
				zap.String("error", res.Error))
		}
		report.Steps = append(report.Steps, res)
	}

	hash, err := r.st.Hash()
	if err != nil {
		return nil, err
	}
	report.StateHash = hash
	report.Messages = r.messages
	report.Ledger = r.ledger
	report.Pool = r.pool
	report.Stats = r.msc.HandlerStats()
	return report, nil
}

func (r *Runner) step(ctx context.Context, i int, step Step) (StepResult, error) {
	res := StepResult{Index: i, At: step.At, Kind: step.Kind}
	txnHash := fmt.Sprintf("step-%d", i)
	balances := r.stateContext(step.At, txnHash)

	snapshot, err := r.st.Encode()
	if err != nil {
		return res, err
	}
	poolSnapshot := r.pool.Encode()

	out, err := r.apply(balances, step)
	if err == nil {
		err = r.ledger.Apply(balances.GetTransfers(), balances.GetBurns())
	}
	if err != nil {
		res.Error = err.Error()
		res.Aborted = isInvariant(err)
		if restoreErr := r.st.Decode(snapshot); restoreErr != nil {
			return res, restoreErr
		}
		if restoreErr := r.pool.Decode(poolSnapshot); restoreErr != nil {
			return res, restoreErr
		}
		balances.EmitError(err)
	} else {
		res.Output = out
		r.drain(balances)
		if r.checkInvariants {
			if err := r.st.CheckInvariants(); err != nil {
				return res, err
			}
		}
	}
	res.Unexpected = errorCode(err) != step.Expect

	if r.eventDb != nil {
		if err := r.eventDb.AddEvents(ctx, balances.GetEvents(), r.round); err != nil {
			return res, err
		}
	}
	return res, nil
}

// apply runs the action of one step, turning invariant panics into errors.
func (r *Runner) apply(balances *cstate.StateContext, step Step) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = common.RecoverInvariant(rec)
		}
	}()

	switch step.Kind {
	case KindCall:
		c := step.Call
		if err := r.checkLocked(c); err != nil {
			return "", err
		}
		txn := transaction.NewTransaction(c.From, miningsc.ADDRESS, c.Function, []byte(c.Input), 0, step.At)
		return r.msc.Execute(txn, c.Function, txn.Input, r.st, balances)
	case KindTick:
		r.msc.HeartbeatChallenge(r.st, balances)
	case KindHeartbeat:
		msg, err := mq.NewMessage(mq.Worker(step.Heartbeat.Worker), miningsc.TopicMiningReport,
			miningsc.Heartbeat{ChallengeTime: uint64(step.At), Iterations: step.Heartbeat.Iterations})
		if err != nil {
			return "", err
		}
		return "", r.msc.HandleMessage(r.st, balances, msg)
	case KindSettle:
		ev, err := settleEvent(r.round, step)
		if err != nil {
			return "", err
		}
		msg, err := mq.NewMessage(mq.Gatekeeper(), miningsc.TopicMiningInfoUpdate, ev)
		if err != nil {
			return "", err
		}
		return "", r.msc.HandleMessage(r.st, balances, msg)
	case KindLock:
		amount, err := currency.ParseToken(step.Lock.Amount)
		if err != nil {
			return "", common.InvalidRequest("lock amount " + step.Lock.Amount)
		}
		return "", r.pool.Lock(balances, step.Lock.Miner, amount)
	case KindUnlock:
		if _, staked := r.st.Stake(step.Lock.Miner); staked {
			return "", miningsc.ErrMinerNotReady
		}
		return "", r.pool.Release(balances, step.Lock.Miner)
	case KindRegister:
		return "", r.workers.Register(*step.Register)
	}
	return "", nil
}

// checkLocked requires the stake of a start_mining call to be locked in the
// pool beforehand.
func (r *Runner) checkLocked(c *CallStep) error {
	if c.Function != "start_mining" && c.Function != "force_start_mining" {
		return nil
	}
	var in struct {
		Miner string `json:"miner"`
		Stake string `json:"stake"`
	}
	if err := json.Unmarshal([]byte(c.Input), &in); err != nil {
		// left to the contract to reject
		return nil
	}
	stake, err := currency.ParseToken(in.Stake)
	if err != nil {
		return nil
	}
	return r.pool.EnsureLocked(in.Miner, stake)
}

func settleEvent(block int64, step Step) (miningsc.MiningInfoUpdateEvent, error) {
	s := step.Settle
	ev := miningsc.MiningInfoUpdateEvent{
		BlockNumber:       block,
		Timestamp:         uint64(step.At),
		Offline:           s.Offline,
		RecoveredToOnline: s.Recovered,
	}
	for _, e := range s.Entries {
		v, err := fixedpoint.Parse(e.V)
		if err != nil {
			return ev, common.InvalidRequest("settle v " + e.V)
		}
		payout := fixedpoint.Zero
		if e.Payout != "" {
			if payout, err = fixedpoint.Parse(e.Payout); err != nil {
				return ev, common.InvalidRequest("settle payout " + e.Payout)
			}
		}
		ev.Settle = append(ev.Settle, miningsc.SettleInfo{PubKey: e.Worker, V: v, Payout: payout})
	}
	return ev, nil
}

func isInvariant(err error) bool {
	return errorCode(err) == common.ErrInvariantCode
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var ce *common.Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return err.Error()
}
