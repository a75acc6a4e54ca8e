package state

import (
	"encoding/json"

	"pouw.net/core/common"
	"pouw.net/pkg/currency"
)

var ErrInvalidBurn = common.NewError("invalid_burn", "invalid burner")

// Burn disposes of an amount held by an account, used for slashed stake.
type Burn struct {
	Burner string        `json:"burner"`
	Amount currency.Coin `json:"amount"`
}

func NewBurn(burner string, amount currency.Coin) *Burn {
	m := &Burn{Burner: burner, Amount: amount}
	return m
}

func (b *Burn) Encode() []byte {
	buff, _ := json.Marshal(b)
	return buff
}

func (b *Burn) Decode(input []byte) error {
	err := json.Unmarshal(input, b)
	return err
}
