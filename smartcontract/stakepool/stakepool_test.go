package stakepool

import (
	"testing"

	"github.com/stretchr/testify/require"

	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/registry"
	"pouw.net/chaincore/state"
	"pouw.net/core/common"
	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
	"pouw.net/smartcontract/miningsc"
)

func TestStakePool_LockRelease(t *testing.T) {
	balances := cstate.NewStateContext()
	sp := NewStakePool("pool")

	require.NoError(t, sp.Lock(balances, "m1", 10*currency.Token))
	require.ErrorIs(t, sp.Lock(balances, "m1", currency.Token), ErrAlreadyLocked)
	require.NoError(t, sp.EnsureLocked("m1", 10*currency.Token))
	require.ErrorIs(t, sp.EnsureLocked("m1", 11*currency.Token), ErrInsufficientLocked)
	require.ErrorIs(t, sp.EnsureLocked("m2", 1), ErrInsufficientLocked)

	require.NoError(t, sp.Release(balances, "m1"))
	require.ErrorIs(t, sp.Release(balances, "m1"), ErrInsufficientLocked)
	require.Equal(t, []*state.Transfer{
		state.NewTransfer("m1", "pool", 10*currency.Token),
		state.NewTransfer("pool", "m1", 10*currency.Token),
	}, balances.GetTransfers())
}

func TestStakePool_LockRejectedTransfer(t *testing.T) {
	balances := cstate.NewStateContext()
	sp := NewStakePool("pool")
	require.ErrorIs(t, sp.Lock(balances, "pool", currency.Token), state.ErrInvalidTransfer)
	require.Empty(t, sp.Locked)
}

func TestStakePool_OnReclaim(t *testing.T) {
	tests := []struct {
		name     string
		slashed  currency.Coin
		returned []*state.Transfer
		burns    []*state.Burn
	}{
		{
			name:     "no_slash",
			returned: []*state.Transfer{state.NewTransfer("pool", "m1", 100)},
		},
		{
			name:     "partial",
			slashed:  40,
			returned: []*state.Transfer{state.NewTransfer("pool", "m1", 60)},
			burns:    []*state.Burn{state.NewBurn("pool", 40)},
		},
		{
			name:    "full",
			slashed: 100,
			burns:   []*state.Burn{state.NewBurn("pool", 100)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := cstate.NewStateContext()
			sp := NewStakePool("pool")
			sp.Locked["m1"] = 100

			sp.OnReclaim(balances, "m1", 100, tt.slashed)
			require.Equal(t, tt.returned, balances.GetTransfers())
			require.Equal(t, tt.burns, balances.GetBurns())
			require.Equal(t, tt.slashed, sp.Slashed)
			require.NotContains(t, sp.Locked, "m1")
		})
	}
}

func TestStakePool_OnReclaimOverSlashed(t *testing.T) {
	balances := cstate.NewStateContext()
	sp := NewStakePool("pool")
	sp.Locked["m1"] = 10
	sp.OnReclaim(balances, "m1", 10, 11)
	require.Empty(t, balances.GetTransfers())
	require.Contains(t, sp.Locked, "m1")
}

func TestStakePool_OnUnbound(t *testing.T) {
	sp := NewStakePool("pool")
	sp.OnUnbound(nil, "w1", false)
	sp.OnUnbound(nil, "w1", true)
	sp.OnUnbound(nil, "w2", true)
	require.Equal(t, &UnbindRecord{Count: 2, Forced: 1}, sp.Unbinds["w1"])
	require.Equal(t, &UnbindRecord{Count: 1, Forced: 1}, sp.Unbinds["w2"])
}

func TestStakePool_OnReward(t *testing.T) {
	sp := NewStakePool("pool")
	sp.Rewards["w2"] = currency.Coin(^uint64(0) - 1)
	sp.OnReward(nil, []miningsc.SettleInfo{
		{PubKey: "w1", Payout: fixedpoint.MustParse("1.25")},
		{PubKey: "w1", Payout: fixedpoint.One},
		{PubKey: "w2", Payout: fixedpoint.One},
		{PubKey: "w3", Payout: fixedpoint.FromUint64(^uint64(0))},
	})
	require.Equal(t, 2*currency.Token+currency.Token/4, sp.Rewards["w1"])
	require.Equal(t, currency.Coin(^uint64(0)), sp.Rewards["w2"])
	require.NotContains(t, sp.Rewards, "w3")
}

func TestStakePool_EncodeDecode(t *testing.T) {
	sp := NewStakePool("pool")
	sp.Locked["m1"] = 5
	sp.Unbinds["w1"] = &UnbindRecord{Count: 1}
	sp.Slashed = 3

	restored := &StakePool{}
	require.NoError(t, restored.Decode(sp.Encode()))
	require.Equal(t, sp, restored)
}

// The pool sees the same split the mining contract computes on reclaim.
func TestStakePool_WithMiningContract(t *testing.T) {
	now := common.Timestamp(1000)
	score := uint32(1000)
	workers := registry.NewWorkers()
	require.NoError(t, workers.Register(registry.WorkerInfo{PubKey: "w1", Operator: "op1", InitialScore: &score, ConfidenceLevel: 1}))
	balances := cstate.NewStateContext(
		cstate.WithClock(func() common.Timestamp { return now }),
		cstate.WithRegistry(workers),
	)

	sp := NewStakePool("pool")
	msc := miningsc.NewMiningSmartContract(
		miningsc.WithRewardObserver(sp),
		miningsc.WithUnboundObserver(sp),
		miningsc.WithReclaimObserver(sp),
	)
	st, err := miningsc.NewState(miningsc.DefaultGenesisConfig(), balances)
	require.NoError(t, err)

	stake := 5000 * currency.Token
	require.NoError(t, msc.Bind(st, balances, "m1", "w1"))
	require.NoError(t, sp.Lock(balances, "m1", stake))
	require.NoError(t, msc.StartMining(st, balances, "m1", stake))

	mi := st.Miners["m1"]
	half, err := mi.Ve.DivInt(2)
	require.NoError(t, err)
	mi.V = half

	require.NoError(t, msc.UnbindMiner(st, balances, "m1", true))
	require.Equal(t, &UnbindRecord{Count: 1, Forced: 1}, sp.Unbinds["w1"])

	now += common.Timestamp(st.CoolDownPeriod)
	require.NoError(t, msc.Reclaim(st, balances, "m1"))

	transfers := balances.GetTransfers()
	require.Equal(t, state.NewTransfer("pool", "m1", 2500*currency.Token), transfers[len(transfers)-1])
	require.Equal(t, []*state.Burn{state.NewBurn("pool", 2500*currency.Token)}, balances.GetBurns())
	require.Equal(t, 2500*currency.Token, sp.Slashed)
	require.Empty(t, sp.Locked)
}
