package miningsc

import (
	"context"

	"github.com/spf13/cast"

	"pouw.net/core/common"
	"pouw.net/pkg/currency"
	sccommon "pouw.net/smartcontract/common"
	"pouw.net/smartcontract/dbs/event"
)

// QueryHandler answers a read only query against the contract state.
type QueryHandler func(ctx context.Context, params map[string]string, st *State) (interface{}, error)

// TokenomicView renders the tokenomic parameters as exact decimals.
type TokenomicView struct {
	Version         uint64 `json:"version" yaml:"version"`
	PhaRate         string `json:"pha_rate" yaml:"pha_rate"`
	Rho             string `json:"rho" yaml:"rho"`
	BudgetPerSec    string `json:"budget_per_sec" yaml:"budget_per_sec"`
	VMax            string `json:"v_max" yaml:"v_max"`
	CostK           string `json:"cost_k" yaml:"cost_k"`
	CostB           string `json:"cost_b" yaml:"cost_b"`
	SlashRate       string `json:"slash_rate" yaml:"slash_rate"`
	HeartbeatWindow uint32 `json:"heartbeat_window" yaml:"heartbeat_window"`
	RigK            string `json:"rig_k" yaml:"rig_k"`
	RigB            string `json:"rig_b" yaml:"rig_b"`
	Re              string `json:"re" yaml:"re"`
	K               string `json:"k" yaml:"k"`
	Kappa           string `json:"kappa" yaml:"kappa"`
}

// NewTokenomicView renders p.
func NewTokenomicView(p TokenomicParameters) *TokenomicView {
	return &TokenomicView{
		Version:         p.Version,
		PhaRate:         p.PhaRate.String(),
		Rho:             p.Rho.String(),
		BudgetPerSec:    p.BudgetPerSec.String(),
		VMax:            p.VMax.String(),
		CostK:           p.CostK.String(),
		CostB:           p.CostB.String(),
		SlashRate:       p.SlashRate.String(),
		HeartbeatWindow: p.HeartbeatWindow,
		RigK:            p.RigK.String(),
		RigB:            p.RigB.String(),
		Re:              p.Re.String(),
		K:               p.K.String(),
		Kappa:           p.Kappa.String(),
	}
}

type minerResponse struct {
	Miner  string     `json:"miner"`
	Worker string     `json:"worker,omitempty"`
	Info   *MinerInfo `json:"info"`
	Stake  *string    `json:"stake,omitempty"`
}

func requireParam(params map[string]string, name string) (string, error) {
	v := params[name]
	if v == "" {
		return "", common.InvalidRequest("missing " + name)
	}
	return v, nil
}

// GetMinerHandler returns the mining record of ?miner=.
func (msc *MiningSmartContract) GetMinerHandler(_ context.Context, params map[string]string, st *State) (interface{}, error) {
	miner, err := requireParam(params, "miner")
	if err != nil {
		return nil, err
	}
	mi, ok := st.Miner(miner)
	if !ok {
		return nil, common.NewErrNoResource("miner " + miner + " not found")
	}
	resp := &minerResponse{Miner: miner, Info: mi}
	resp.Worker, _ = st.MinerBinding(miner)
	if stake, ok := st.Stake(miner); ok {
		s := stake.ToToken().String()
		resp.Stake = &s
	}
	return resp, nil
}

// GetMinerBindingHandler returns the worker bound to ?miner=.
func (msc *MiningSmartContract) GetMinerBindingHandler(_ context.Context, params map[string]string, st *State) (interface{}, error) {
	miner, err := requireParam(params, "miner")
	if err != nil {
		return nil, err
	}
	worker, ok := st.MinerBinding(miner)
	if !ok {
		return nil, common.NewErrNoResource("miner " + miner + " is not bound")
	}
	return map[string]string{"miner": miner, "worker": worker}, nil
}

// GetWorkerBindingHandler returns the miner bound to ?worker=.
func (msc *MiningSmartContract) GetWorkerBindingHandler(_ context.Context, params map[string]string, st *State) (interface{}, error) {
	worker, err := requireParam(params, "worker")
	if err != nil {
		return nil, err
	}
	miner, ok := st.WorkerBinding(worker)
	if !ok {
		return nil, common.NewErrNoResource("worker " + worker + " is not bound")
	}
	return map[string]string{"miner": miner, "worker": worker}, nil
}

// GetStakeHandler returns the stake locked by ?miner=.
func (msc *MiningSmartContract) GetStakeHandler(_ context.Context, params map[string]string, st *State) (interface{}, error) {
	miner, err := requireParam(params, "miner")
	if err != nil {
		return nil, err
	}
	stake, ok := st.Stake(miner)
	if !ok {
		return nil, common.NewErrNoResource("miner " + miner + " has no stake")
	}
	return map[string]interface{}{"miner": miner, "stake": stake, "tokens": stake.ToToken().String()}, nil
}

func (msc *MiningSmartContract) GetOnlineMinersHandler(_ context.Context, _ map[string]string, st *State) (interface{}, error) {
	return map[string]uint32{"online_miners": st.OnlineMiners}, nil
}

// GetTokenomicHandler renders the current parameters. Renderings are cached
// per parameter version.
func (msc *MiningSmartContract) GetTokenomicHandler(_ context.Context, _ map[string]string, st *State) (interface{}, error) {
	if st.Tokenomic == nil {
		return nil, ErrNoTokenomic
	}
	if view, ok := msc.tokenomicCache.Get(st.Tokenomic.Version); ok {
		return view, nil
	}
	view := NewTokenomicView(*st.Tokenomic)
	msc.tokenomicCache.Add(st.Tokenomic.Version, view)
	return view, nil
}

func (msc *MiningSmartContract) GetMinerStatesHandler(_ context.Context, _ map[string]string, _ *State) (interface{}, error) {
	return MinerStateLookups(), nil
}

// GetMinersHandler pages through miner accounts in lexical order, optionally
// filtered by ?state=.
func (msc *MiningSmartContract) GetMinersHandler(_ context.Context, params map[string]string, st *State) (interface{}, error) {
	limit, err := sccommon.GetOffsetLimitOrderParam(params)
	if err != nil {
		return nil, err
	}
	var filter *MinerState
	if v := params["state"]; v != "" {
		s, err := cast.ToUint8E(v)
		if err != nil || int(s) >= len(minerStateNames) {
			return nil, common.InvalidRequest("invalid state " + v)
		}
		ms := MinerState(s)
		filter = &ms
	}

	keys := sortedKeys(st.Miners)
	if limit.IsDescending {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	out := make([]*minerResponse, 0, limit.Limit)
	skipped := 0
	for _, miner := range keys {
		mi := st.Miners[miner]
		if filter != nil && mi.State != *filter {
			continue
		}
		if skipped < limit.Offset {
			skipped++
			continue
		}
		if len(out) == limit.Limit {
			break
		}
		resp := &minerResponse{Miner: miner, Info: mi.clone()}
		resp.Worker, _ = st.MinerBinding(miner)
		out = append(out, resp)
	}
	return out, nil
}

// GetMinerEventsHandler lists the persisted events of ?miner=, optionally
// restricted to one ?tag=.
func (msc *MiningSmartContract) GetMinerEventsHandler(ctx context.Context, params map[string]string, _ *State) (interface{}, error) {
	if msc.eventDb == nil {
		return nil, event.ErrNoEventDb
	}
	miner, err := requireParam(params, "miner")
	if err != nil {
		return nil, err
	}
	limit, err := sccommon.GetOffsetLimitOrderParam(params)
	if err != nil {
		return nil, err
	}
	search := event.Event{Index: miner}
	if v := params["tag"]; v != "" {
		tag, err := cast.ToIntE(v)
		if err != nil || tag <= 0 || tag >= int(event.NumberOfTags) {
			return nil, common.InvalidRequest("invalid tag " + v)
		}
		search.Tag = event.EventTag(tag)
	}
	return msc.eventDb.FindEvents(ctx, search, limit)
}

func (msc *MiningSmartContract) totalStake(st *State) currency.Coin {
	var total currency.Coin
	for _, miner := range sortedKeys(st.Stakes) {
		sum, err := total.AddCoin(st.Stakes[miner])
		if err != nil {
			return currency.Coin(^uint64(0))
		}
		total = sum
	}
	return total
}

// GetTotalStakeHandler sums every locked stake.
func (msc *MiningSmartContract) GetTotalStakeHandler(_ context.Context, _ map[string]string, st *State) (interface{}, error) {
	total := msc.totalStake(st)
	return map[string]interface{}{"stake": total, "tokens": total.ToToken().String()}, nil
}
