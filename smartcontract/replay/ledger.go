package replay

import (
	"golang.org/x/exp/maps"

	"pouw.net/chaincore/state"
	"pouw.net/core/common"
	"pouw.net/pkg/currency"
)

var ErrInsufficientBalance = common.NewError("insufficient_balance", "account balance is too low")

// Ledger holds the account balances of a replay. Transfers of a step are
// applied together or not at all.
type Ledger struct {
	Balances map[string]currency.Coin `yaml:"balances"`
	Burned   currency.Coin            `yaml:"burned"`
}

func NewLedger() *Ledger {
	return &Ledger{Balances: make(map[string]currency.Coin)}
}

func (l *Ledger) clone() *Ledger {
	return &Ledger{Balances: maps.Clone(l.Balances), Burned: l.Burned}
}

// Apply debits and credits every transfer, then disposes of every burn.
func (l *Ledger) Apply(transfers []*state.Transfer, burns []*state.Burn) error {
	next := l.clone()
	for _, t := range transfers {
		from, err := next.Balances[t.ClientID].SubCoin(t.Amount)
		if err != nil {
			return common.NewErrorf(ErrInsufficientBalance.Code, "%v cannot pay %v to %v", t.ClientID, t.Amount, t.ToClientID)
		}
		to, err := next.Balances[t.ToClientID].AddCoin(t.Amount)
		if err != nil {
			return err
		}
		next.Balances[t.ClientID] = from
		next.Balances[t.ToClientID] = to
	}
	for _, b := range burns {
		left, err := next.Balances[b.Burner].SubCoin(b.Amount)
		if err != nil {
			return common.NewErrorf(ErrInsufficientBalance.Code, "%v cannot burn %v", b.Burner, b.Amount)
		}
		next.Balances[b.Burner] = left
		if next.Burned, err = next.Burned.AddCoin(b.Amount); err != nil {
			return err
		}
	}
	*l = *next
	return nil
}
