// Package transaction holds the signed call a host hands to a smart contract.
package transaction

import (
	"encoding/hex"
	"strconv"

	"pouw.net/core/common"
	"pouw.net/core/encryption"
	"pouw.net/pkg/currency"
)

var ErrInvalidTransaction = common.NewError("invalid_transaction", "transaction is missing the sender or the contract")

/*Transaction - a call to a smart contract, already authenticated by the host */
type Transaction struct {
	Hash         string           `json:"hash"`
	ClientID     string           `json:"client_id"`
	ToClientID   string           `json:"to_client_id"`
	Value        currency.Coin    `json:"transaction_value"`
	CreationDate common.Timestamp `json:"creation_date"`
	FunctionName string           `json:"function_name"`
	Input        []byte           `json:"input,omitempty"`
}

// NewTransaction builds a transaction and fills in its hash.
func NewTransaction(from, to, function string, input []byte, value currency.Coin, ts common.Timestamp) *Transaction {
	t := &Transaction{
		ClientID:     from,
		ToClientID:   to,
		Value:        value,
		CreationDate: ts,
		FunctionName: function,
		Input:        input,
	}
	t.Hash = t.ComputeHash()
	return t
}

// ComputeHash hashes every field except the hash itself.
func (t *Transaction) ComputeHash() string {
	h := encryption.DomainHash("transaction",
		[]byte(t.ClientID),
		[]byte(t.ToClientID),
		[]byte(strconv.FormatUint(uint64(t.Value), 10)),
		[]byte(common.TimeToString(t.CreationDate)),
		[]byte(t.FunctionName),
		t.Input,
	)
	return hex.EncodeToString(h[:])
}

//Validate - check the transaction can be dispatched
func (t *Transaction) Validate() error {
	if t.ClientID == "" || t.ToClientID == "" {
		return ErrInvalidTransaction
	}
	if t.Hash != t.ComputeHash() {
		return common.NewError("invalid_hash", "transaction hash does not match its content")
	}
	return nil
}
