package state

import (
	"encoding/json"
	"fmt"

	"pouw.net/core/common"
	"pouw.net/pkg/currency"
)

var ErrInvalidTransfer = common.NewError("invalid_transfer", "invalid transfer of state")

//Transfer - tokens moved between two accounts by a contract call
type Transfer struct {
	ClientID   string        `json:"from" yaml:"from"`
	ToClientID string        `json:"to" yaml:"to"`
	Amount     currency.Coin `json:"amount" yaml:"amount"`
}

//NewTransfer - create a new transfer
func NewTransfer(fromClientID, toClientID string, amount currency.Coin) *Transfer {
	return &Transfer{ClientID: fromClientID, ToClientID: toClientID, Amount: amount}
}

// Validate rejects transfers without both parties or to the sender itself.
func (t *Transfer) Validate() error {
	if t.ClientID == "" || t.ToClientID == "" {
		return common.NewErrorf(ErrInvalidTransfer.Code, "missing account in %v", t)
	}
	if t.ClientID == t.ToClientID {
		return common.NewErrorf(ErrInvalidTransfer.Code, "%v transfers to itself", t.ClientID)
	}
	return nil
}

func (t *Transfer) String() string {
	return fmt.Sprintf("%v -> %v: %v", t.ClientID, t.ToClientID, t.Amount)
}

func (t *Transfer) Encode() []byte {
	buff, _ := json.Marshal(t)
	return buff
}

func (t *Transfer) Decode(input []byte) error {
	return json.Unmarshal(input, t)
}
