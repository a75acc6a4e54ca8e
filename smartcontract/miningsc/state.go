package miningsc

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/config"
	"pouw.net/core/common"
	"pouw.net/core/encryption"
	"pouw.net/pkg/currency"
)

// State is everything the mining contract owns. Operations mutate it in place
// and validate all preconditions before the first write.
type State struct {
	Miners map[string]*MinerInfo `json:"miners"`
	// MinerBindings maps miner accounts to worker public keys and
	// WorkerBindings is its inverse.
	MinerBindings  map[string]string `json:"miner_bindings"`
	WorkerBindings map[string]string `json:"worker_bindings"`
	// Stakes exist for every miner that is not Ready.
	Stakes                 map[string]currency.Coin `json:"stakes"`
	OnlineMiners           uint32                   `json:"online_miners"`
	CoolDownPeriod         uint64                   `json:"cool_down_period"`
	NextSessionID          uint32                   `json:"next_session_id"`
	ExpectedHeartbeatCount *uint32                  `json:"expected_heartbeat_count,omitempty"`
	Tokenomic              *TokenomicParameters     `json:"tokenomic,omitempty"`
}

// GenesisConfig seeds a fresh State.
type GenesisConfig struct {
	CoolDownPeriod         uint64              `json:"cool_down_period" mapstructure:"cool_down_period"`
	ExpectedHeartbeatCount uint32              `json:"expected_heartbeat_count" mapstructure:"expected_heartbeat_count"`
	Tokenomic              TokenomicParameters `json:"tokenomic" mapstructure:"tokenomic"`
}

func DefaultGenesisConfig() GenesisConfig {
	return GenesisConfig{
		CoolDownPeriod:         604800,
		ExpectedHeartbeatCount: DefaultExpectedHeartbeatCount,
		Tokenomic:              DefaultTokenomicParameters(),
	}
}

// ReadGenesisConfig reads smart_contracts.miningsc. Tokenomic parameters that
// are not configured keep their default values.
func ReadGenesisConfig(v *viper.Viper) (GenesisConfig, error) {
	gc := DefaultGenesisConfig()
	if err := config.UnmarshalKey(v, "smart_contracts.miningsc", &gc); err != nil {
		return gc, errors.Wrap(err, "decode mining genesis config")
	}
	if err := gc.Tokenomic.Validate(); err != nil {
		return gc, err
	}
	return gc, nil
}

func newState() *State {
	return &State{
		Miners:         make(map[string]*MinerInfo),
		MinerBindings:  make(map[string]string),
		WorkerBindings: make(map[string]string),
		Stakes:         make(map[string]currency.Coin),
	}
}

// NewState builds the genesis state and broadcasts the initial tokenomic
// parameters to the gatekeepers.
func NewState(gc GenesisConfig, balances cstate.StateContextI) (*State, error) {
	if err := gc.Tokenomic.Validate(); err != nil {
		return nil, err
	}
	st := newState()
	st.CoolDownPeriod = gc.CoolDownPeriod
	if gc.ExpectedHeartbeatCount != 0 {
		count := gc.ExpectedHeartbeatCount
		st.ExpectedHeartbeatCount = &count
	}
	params := gc.Tokenomic
	st.Tokenomic = &params
	pushGatekeeperEvent(balances, GatekeeperEvent{TokenomicParametersChanged: &params})
	return st, nil
}

func (st *State) tokenomic() (Tokenomic, error) {
	if st.Tokenomic == nil {
		return Tokenomic{}, ErrNoTokenomic
	}
	return NewTokenomic(*st.Tokenomic), nil
}

func (st *State) expectedHeartbeatCount() uint32 {
	if st.ExpectedHeartbeatCount == nil {
		return DefaultExpectedHeartbeatCount
	}
	return *st.ExpectedHeartbeatCount
}

// MinerBinding returns the worker bound to miner.
func (st *State) MinerBinding(miner string) (string, bool) {
	w, ok := st.MinerBindings[miner]
	return w, ok
}

// WorkerBinding returns the miner bound to worker.
func (st *State) WorkerBinding(worker string) (string, bool) {
	m, ok := st.WorkerBindings[worker]
	return m, ok
}

func (st *State) ensureMinerBound(miner string) (string, error) {
	w, ok := st.MinerBindings[miner]
	if !ok {
		return "", ErrMinerNotBound
	}
	return w, nil
}

func (st *State) ensureWorkerBound(worker string) (string, error) {
	m, ok := st.WorkerBindings[worker]
	if !ok {
		return "", ErrWorkerNotBound
	}
	return m, nil
}

// boundMiner returns the record of a bound miner. A bound miner without a
// record means the state is corrupted.
func (st *State) boundMiner(miner string) *MinerInfo {
	mi, ok := st.Miners[miner]
	if !ok {
		common.Invariant("bound miner %v has no mining record", miner)
	}
	return mi
}

// Miner returns a copy of the miner record.
func (st *State) Miner(miner string) (*MinerInfo, bool) {
	mi, ok := st.Miners[miner]
	if !ok {
		return nil, false
	}
	return mi.clone(), true
}

// Stake returns the stake locked by miner.
func (st *State) Stake(miner string) (currency.Coin, bool) {
	s, ok := st.Stakes[miner]
	return s, ok
}

// stateSnapshot is the canonical form of State: every table is a slice
// ordered by key.
type stateSnapshot struct {
	Miners                 []minerEntry         `json:"miners"`
	MinerBindings          []bindingEntry       `json:"miner_bindings"`
	WorkerBindings         []bindingEntry       `json:"worker_bindings"`
	Stakes                 []stakeEntry         `json:"stakes"`
	OnlineMiners           uint32               `json:"online_miners"`
	CoolDownPeriod         uint64               `json:"cool_down_period"`
	NextSessionID          uint32               `json:"next_session_id"`
	ExpectedHeartbeatCount *uint32              `json:"expected_heartbeat_count,omitempty"`
	Tokenomic              *TokenomicParameters `json:"tokenomic,omitempty"`
}

type minerEntry struct {
	Miner string     `json:"miner"`
	Info  *MinerInfo `json:"info"`
}

type bindingEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type stakeEntry struct {
	Miner string        `json:"miner"`
	Stake currency.Coin `json:"stake"`
}

func bindingEntries(m map[string]string) []bindingEntry {
	entries := make([]bindingEntry, 0, len(m))
	for _, k := range sortedKeys(m) {
		entries = append(entries, bindingEntry{From: k, To: m[k]})
	}
	return entries
}

func (st *State) snapshot() *stateSnapshot {
	snap := &stateSnapshot{
		Miners:                 make([]minerEntry, 0, len(st.Miners)),
		MinerBindings:          bindingEntries(st.MinerBindings),
		WorkerBindings:         bindingEntries(st.WorkerBindings),
		Stakes:                 make([]stakeEntry, 0, len(st.Stakes)),
		OnlineMiners:           st.OnlineMiners,
		CoolDownPeriod:         st.CoolDownPeriod,
		NextSessionID:          st.NextSessionID,
		ExpectedHeartbeatCount: st.ExpectedHeartbeatCount,
		Tokenomic:              st.Tokenomic,
	}
	for _, miner := range sortedKeys(st.Miners) {
		snap.Miners = append(snap.Miners, minerEntry{Miner: miner, Info: st.Miners[miner]})
	}
	for _, miner := range sortedKeys(st.Stakes) {
		snap.Stakes = append(snap.Stakes, stakeEntry{Miner: miner, Stake: st.Stakes[miner]})
	}
	return snap
}

func (snap *stateSnapshot) restore() (*State, error) {
	st := newState()
	for _, e := range snap.Miners {
		if e.Info == nil {
			return nil, fmt.Errorf("miner %v has an empty record", e.Miner)
		}
		st.Miners[e.Miner] = e.Info
	}
	for _, e := range snap.MinerBindings {
		st.MinerBindings[e.From] = e.To
	}
	for _, e := range snap.WorkerBindings {
		st.WorkerBindings[e.From] = e.To
	}
	for _, e := range snap.Stakes {
		st.Stakes[e.Miner] = e.Stake
	}
	st.OnlineMiners = snap.OnlineMiners
	st.CoolDownPeriod = snap.CoolDownPeriod
	st.NextSessionID = snap.NextSessionID
	st.ExpectedHeartbeatCount = snap.ExpectedHeartbeatCount
	st.Tokenomic = snap.Tokenomic
	return st, nil
}

// Encode returns the canonical msgpack encoding of the state. Equal states
// encode to equal bytes.
func (st *State) Encode() ([]byte, error) {
	buf, err := common.ToMsgpack(st.snapshot())
	if err != nil {
		return nil, errors.Wrap(err, "encode mining state")
	}
	return buf.Bytes(), nil
}

// Decode replaces the state with a snapshot produced by Encode.
func (st *State) Decode(data []byte) error {
	snap := &stateSnapshot{}
	if err := common.FromMsgpack(data, snap); err != nil {
		return errors.Wrap(err, "decode mining state")
	}
	next, err := snap.restore()
	if err != nil {
		return errors.Wrap(err, "decode mining state")
	}
	*st = *next
	return nil
}

// Hash is the hex sha3 digest of the canonical encoding. Two executors that
// applied the same steps agree on it.
func (st *State) Hash() (string, error) {
	data, err := st.Encode()
	if err != nil {
		return "", err
	}
	h := encryption.DomainHash("mining/state", data)
	return hex.EncodeToString(h[:]), nil
}

// CheckInvariants verifies the cross table consistency of the state.
func (st *State) CheckInvariants() error {
	if len(st.MinerBindings) != len(st.WorkerBindings) {
		return common.NewErrorf(common.ErrInvariantCode, "binding tables differ in size: %d miners, %d workers",
			len(st.MinerBindings), len(st.WorkerBindings))
	}
	for _, miner := range sortedKeys(st.MinerBindings) {
		worker := st.MinerBindings[miner]
		if back, ok := st.WorkerBindings[worker]; !ok || back != miner {
			return common.NewErrorf(common.ErrInvariantCode, "miner %v bound to %v but worker maps to %q", miner, worker, back)
		}
		if _, ok := st.Miners[miner]; !ok {
			return common.NewErrorf(common.ErrInvariantCode, "bound miner %v has no mining record", miner)
		}
	}

	var online uint32
	for _, miner := range sortedKeys(st.Miners) {
		mi := st.Miners[miner]
		if mi.State.IsOnline() {
			online++
		}
		_, staked := st.Stakes[miner]
		if staked != (mi.State != Ready) {
			return common.NewErrorf(common.ErrInvariantCode, "miner %v in state %v has stake present=%v", miner, mi.State, staked)
		}
		if mi.State != MiningCoolingDown && mi.CoolDownStart != 0 {
			return common.NewErrorf(common.ErrInvariantCode, "miner %v in state %v has cool down start %d", miner, mi.State, mi.CoolDownStart)
		}
	}
	for _, miner := range sortedKeys(st.Stakes) {
		if _, ok := st.Miners[miner]; !ok {
			return common.NewErrorf(common.ErrInvariantCode, "stake of %v has no mining record", miner)
		}
	}
	if online != st.OnlineMiners {
		return common.NewErrorf(common.ErrInvariantCode, "online miners is %d, counted %d", st.OnlineMiners, online)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func (st *State) String() string {
	return fmt.Sprintf("miners=%d bound=%d online=%d next_session=%d",
		len(st.Miners), len(st.MinerBindings), st.OnlineMiners, st.NextSessionID)
}
