package miningsc

import (
	cstate "pouw.net/chaincore/chain/state"
	"pouw.net/chaincore/state"
	"pouw.net/core/common"
	"pouw.net/pkg/currency"
)

func (msc *MiningSmartContract) SetCoolDownExpiration(st *State, balances cstate.StateContextI, period uint64) {
	st.CoolDownPeriod = period
	emitCoolDownExpirationChanged(balances, period)
}

// SetExpectedHeartbeatCount sets how many heartbeats the network should
// produce per tick.
func (msc *MiningSmartContract) SetExpectedHeartbeatCount(st *State, count uint32) error {
	if count == 0 {
		return common.InvalidRequest("expected heartbeat count must be positive")
	}
	st.ExpectedHeartbeatCount = &count
	return nil
}

// UpdateTokenomic replaces the tokenomic parameters, bumps their version and
// broadcasts them to the gatekeepers.
func (msc *MiningSmartContract) UpdateTokenomic(st *State, balances cstate.StateContextI, params TokenomicParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	params.Version = 0
	if st.Tokenomic != nil {
		params.Version = st.Tokenomic.Version + 1
	}
	st.Tokenomic = &params
	broadcast := params
	pushGatekeeperEvent(balances, GatekeeperEvent{TokenomicParametersChanged: &broadcast})
	emitTokenomicParametersChanged(balances, params.Version)
	return nil
}

// WithdrawSubsidyPool pays amount from the subsidy account to target.
func (msc *MiningSmartContract) WithdrawSubsidyPool(balances cstate.StateContextI, target string, amount currency.Coin) error {
	if err := balances.AddTransfer(state.NewTransfer(msc.subsidyAccount, target, amount)); err != nil {
		return err
	}
	emitSubsidyPoolWithdrawn(balances, target, amount)
	return nil
}
