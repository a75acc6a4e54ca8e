package miningsc

import (
	"context"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	cstate "pouw.net/chaincore/chain/state"
	sci "pouw.net/chaincore/smartcontractinterface"
	"pouw.net/chaincore/transaction"
	"pouw.net/core/common"
	. "pouw.net/core/logging"
	"pouw.net/smartcontract/dbs/event"
)

const (
	//ADDRESS address of the mining contract
	ADDRESS = "6dba10422e368813802877a85039d3985d96760ed844092319743fb3a7671300"
	name    = "mining"

	DefaultSecsPerTick = 12
	tokenomicCacheSize = 16
)

type smartContractFunction func(t *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error)

// MiningSmartContract tracks miners, their bindings to workers and the
// scores the gatekeepers settle for them.
type MiningSmartContract struct {
	*sci.SmartContract

	secsPerTick    uint32
	owner          string
	subsidyAccount string

	reward  RewardObserver
	unbound UnboundObserver
	reclaim ReclaimObserver

	smartContractFunctions map[string]smartContractFunction
	ownerOnly              map[string]bool
	restHandlers           map[string]QueryHandler
	tokenomicCache         *lru.Cache[uint64, *TokenomicView]
	eventDb                *event.EventDb

	stakeHistogram   metrics.Histogram
	slashedCounter   metrics.Counter
	heartbeatCounter metrics.Counter
	settleCounter    metrics.Counter
	droppedCounter   metrics.Counter
}

// Option is the option type used when creating the contract
type Option func(*MiningSmartContract)

// WithSecsPerTick sets the interval between two heartbeat challenges.
func WithSecsPerTick(secs uint32) Option {
	return func(msc *MiningSmartContract) {
		msc.secsPerTick = secs
	}
}

// WithOwner sets the account allowed to call administrative functions.
func WithOwner(owner string) Option {
	return func(msc *MiningSmartContract) {
		msc.owner = owner
	}
}

// WithSubsidyAccount sets the account subsidies are paid from.
func WithSubsidyAccount(account string) Option {
	return func(msc *MiningSmartContract) {
		msc.subsidyAccount = account
	}
}

// WithEventDb lets the event queries read persisted events.
func WithEventDb(edb *event.EventDb) Option {
	return func(msc *MiningSmartContract) {
		msc.eventDb = edb
	}
}

func WithRewardObserver(o RewardObserver) Option {
	return func(msc *MiningSmartContract) {
		msc.reward = o
	}
}

func WithUnboundObserver(o UnboundObserver) Option {
	return func(msc *MiningSmartContract) {
		msc.unbound = o
	}
}

func WithReclaimObserver(o ReclaimObserver) Option {
	return func(msc *MiningSmartContract) {
		msc.reclaim = o
	}
}

// NewMiningSmartContract creates the contract. Observers default to no-ops.
func NewMiningSmartContract(options ...Option) *MiningSmartContract {
	msc := &MiningSmartContract{
		SmartContract:  sci.NewSC(ADDRESS),
		secsPerTick:    DefaultSecsPerTick,
		owner:          "owner",
		subsidyAccount: ADDRESS,
		reward:         NopObserver{},
		unbound:        NopObserver{},
		reclaim:        NopObserver{},
	}
	for _, opt := range options {
		opt(msc)
	}
	if msc.secsPerTick == 0 || msc.secsPerTick > 3600 {
		Logger.Warn("secs per tick out of range, using default",
			zap.Uint32("secs_per_tick", msc.secsPerTick))
		msc.secsPerTick = DefaultSecsPerTick
	}

	cache, err := lru.New[uint64, *TokenomicView](tokenomicCacheSize)
	if err != nil {
		panic(err)
	}
	msc.tokenomicCache = cache
	msc.InitSC()
	msc.setSC()
	return msc
}

// NewMiningSmartContractFromConfig reads smart_contracts.miningsc for the
// tick length, the owner and the subsidy account.
func NewMiningSmartContractFromConfig(v *viper.Viper, options ...Option) *MiningSmartContract {
	opts := []Option{
		WithSecsPerTick(v.GetUint32("smart_contracts.miningsc.secs_per_tick")),
	}
	if owner := v.GetString("smart_contracts.miningsc.owner"); owner != "" {
		opts = append(opts, WithOwner(owner))
	}
	if subsidy := v.GetString("smart_contracts.miningsc.subsidy_account"); subsidy != "" {
		opts = append(opts, WithSubsidyAccount(subsidy))
	}
	return NewMiningSmartContract(append(opts, options...)...)
}

func (msc *MiningSmartContract) InitSC() {
	msc.smartContractFunctions = map[string]smartContractFunction{
		"bind":                         msc.bind,
		"unbind":                       msc.unbind,
		"start_mining":                 msc.startMining,
		"stop_mining":                  msc.stopMining,
		"reclaim":                      msc.reclaimStake,
		"set_cool_down_expiration":     msc.setCoolDownExpiration,
		"set_expected_heartbeat_count": msc.setExpectedHeartbeatCount,
		"update_tokenomic":             msc.updateTokenomic,
		"force_heartbeat":              msc.forceHeartbeat,
		"force_start_mining":           msc.startMining,
		"force_stop_mining":            msc.stopMining,
		"withdraw_subsidy_pool":        msc.withdrawSubsidyPool,
	}
	// unbind checks the worker operator itself and reclaim is open to all.
	msc.ownerOnly = map[string]bool{
		"bind":                         true,
		"start_mining":                 true,
		"stop_mining":                  true,
		"set_cool_down_expiration":     true,
		"set_expected_heartbeat_count": true,
		"update_tokenomic":             true,
		"force_heartbeat":              true,
		"force_start_mining":           true,
		"force_stop_mining":            true,
		"withdraw_subsidy_pool":        true,
	}
}

func (msc *MiningSmartContract) setSC() {
	msc.restHandlers = map[string]QueryHandler{
		"/getMiner":         msc.GetMinerHandler,
		"/getMinerBinding":  msc.GetMinerBindingHandler,
		"/getWorkerBinding": msc.GetWorkerBindingHandler,
		"/getStake":         msc.GetStakeHandler,
		"/getOnlineMiners":  msc.GetOnlineMinersHandler,
		"/getTokenomic":     msc.GetTokenomicHandler,
		"/getMinerStates":   msc.GetMinerStatesHandler,
		"/getMiners":        msc.GetMinersHandler,
		"/getMinerEvents":   msc.GetMinerEventsHandler,
		"/getTotalStake":    msc.GetTotalStakeHandler,
	}
	for funcName := range msc.smartContractFunctions {
		msc.AddCounter(funcName)
	}
	msc.stakeHistogram = msc.AddHistogram("stake tokens")
	msc.slashedCounter = msc.AddCounter("slashed tokens")
	msc.heartbeatCounter = msc.AddCounter("heartbeats")
	msc.settleCounter = msc.AddCounter("settlements")
	msc.droppedCounter = msc.AddCounter("dropped entries")
}

func (msc *MiningSmartContract) GetName() string {
	return name
}

func (msc *MiningSmartContract) GetAddress() string {
	return ADDRESS
}

func (msc *MiningSmartContract) GetRestPoints() map[string]QueryHandler {
	return msc.restHandlers
}

// Query runs the query handler registered under path.
func (msc *MiningSmartContract) Query(ctx context.Context, path string, params map[string]string, st *State) (interface{}, error) {
	h, ok := msc.restHandlers[path]
	if !ok {
		return nil, common.NewErrNoResource("no query handler for " + path)
	}
	return h(ctx, params, st)
}

func (msc *MiningSmartContract) GetExecutionStats() map[string]interface{} {
	return msc.SmartContractExecutionStats
}

//Execute runs one contract function of a transaction against st
func (msc *MiningSmartContract) Execute(t *transaction.Transaction, funcName string, input []byte,
	st *State, balances cstate.StateContextI) (string, error) {
	scFunc, found := msc.smartContractFunctions[funcName]
	if !found {
		return "", common.NewErrorf("failed execution", "no function with name %v", funcName)
	}
	if msc.ownerOnly[funcName] && t.ClientID != msc.owner {
		return "", ErrBadSender
	}
	if c, ok := msc.SmartContractExecutionStats[funcName].(metrics.Counter); ok {
		c.Inc(1)
	}
	return scFunc(t, input, st, balances)
}

type bindInput struct {
	Miner  string `json:"miner"`
	Worker string `json:"worker"`
}

type minerInput struct {
	Miner string `json:"miner"`
}

type startMiningInput struct {
	Miner string `json:"miner"`
	// Stake is a token amount such as "3162.5".
	Stake string `json:"stake"`
}

type coolDownInput struct {
	Period uint64 `json:"period"`
}

type heartbeatCountInput struct {
	Count uint32 `json:"count"`
}

type withdrawInput struct {
	Target string `json:"target"`
	Amount string `json:"amount"`
}

func decodeInput(input []byte, v interface{}) error {
	if err := json.Unmarshal(input, v); err != nil {
		return common.InvalidRequest("malformed input: " + err.Error())
	}
	return nil
}

func (msc *MiningSmartContract) bind(_ *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error) {
	var in bindInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	if err := msc.Bind(st, balances, in.Miner, in.Worker); err != nil {
		return "", err
	}
	return string(mustJSON(in)), nil
}

func (msc *MiningSmartContract) unbind(t *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error) {
	var in minerInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	if err := msc.Unbind(st, balances, t.ClientID, in.Miner); err != nil {
		return "", err
	}
	return string(mustJSON(in)), nil
}

func (msc *MiningSmartContract) startMining(_ *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error) {
	var in startMiningInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	stake, err := parseTokens(in.Stake)
	if err != nil {
		return "", err
	}
	if err := msc.StartMining(st, balances, in.Miner, stake); err != nil {
		return "", err
	}
	return msc.minerResponse(st, in.Miner)
}

func (msc *MiningSmartContract) stopMining(_ *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error) {
	var in minerInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	if err := msc.StopMining(st, balances, in.Miner); err != nil {
		return "", err
	}
	return msc.minerResponse(st, in.Miner)
}

func (msc *MiningSmartContract) reclaimStake(_ *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error) {
	var in minerInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	if err := msc.Reclaim(st, balances, in.Miner); err != nil {
		return "", err
	}
	return msc.minerResponse(st, in.Miner)
}

func (msc *MiningSmartContract) setCoolDownExpiration(_ *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error) {
	var in coolDownInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	msc.SetCoolDownExpiration(st, balances, in.Period)
	return string(mustJSON(in)), nil
}

func (msc *MiningSmartContract) setExpectedHeartbeatCount(_ *transaction.Transaction, input []byte, st *State, _ cstate.StateContextI) (string, error) {
	var in heartbeatCountInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	if err := msc.SetExpectedHeartbeatCount(st, in.Count); err != nil {
		return "", err
	}
	return string(mustJSON(in)), nil
}

func (msc *MiningSmartContract) updateTokenomic(_ *transaction.Transaction, input []byte, st *State, balances cstate.StateContextI) (string, error) {
	base := DefaultTokenomicParameters()
	if st.Tokenomic != nil {
		base = *st.Tokenomic
	}
	params, err := applyTokenomicUpdate(base, input)
	if err != nil {
		return "", err
	}
	if err := msc.UpdateTokenomic(st, balances, params); err != nil {
		return "", err
	}
	return string(mustJSON(NewTokenomicView(*st.Tokenomic))), nil
}

func (msc *MiningSmartContract) forceHeartbeat(_ *transaction.Transaction, _ []byte, _ *State, balances cstate.StateContextI) (string, error) {
	msc.ForceHeartbeat(balances)
	return "", nil
}

func (msc *MiningSmartContract) withdrawSubsidyPool(_ *transaction.Transaction, input []byte, _ *State, balances cstate.StateContextI) (string, error) {
	var in withdrawInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	amount, err := parseTokens(in.Amount)
	if err != nil {
		return "", err
	}
	if err := msc.WithdrawSubsidyPool(balances, in.Target, amount); err != nil {
		return "", err
	}
	return string(mustJSON(in)), nil
}

func (msc *MiningSmartContract) minerResponse(st *State, miner string) (string, error) {
	mi, ok := st.Miner(miner)
	if !ok {
		return "", ErrMinerNotFound
	}
	return string(mustJSON(mi)), nil
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		common.Invariant("encode response: %v", err)
	}
	return b
}
