package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pouw.net/core/common"
	"pouw.net/core/encryption"
)

func TestNewTransaction(t *testing.T) {
	t.Parallel()

	txn := NewTransaction("alice", "mining_sc", "bind", []byte(`{"worker":"w1"}`), 0, 100)
	require.True(t, encryption.IsHash(txn.Hash))
	require.NoError(t, txn.Validate())

	other := NewTransaction("alice", "mining_sc", "bind", []byte(`{"worker":"w2"}`), 0, 100)
	require.NotEqual(t, txn.Hash, other.Hash)
}

func TestTransaction_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr string
	}{
		{name: "ok", mutate: func(*Transaction) {}},
		{name: "no_sender", mutate: func(t *Transaction) { t.ClientID = "" }, wantErr: "invalid_transaction"},
		{name: "tampered", mutate: func(t *Transaction) { t.Value = 5 }, wantErr: "invalid_hash"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			txn := NewTransaction("alice", "mining_sc", "reclaim", nil, 0, 7)
			tt.mutate(txn)
			err := txn.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.NewError(tt.wantErr, ""))
		})
	}
}
