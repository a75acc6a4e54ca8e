package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransfer_EncodeDecode(t *testing.T) {
	tr := NewTransfer("pool", "miner", 1000)
	var got Transfer
	require.NoError(t, got.Decode(tr.Encode()))
	require.Equal(t, *tr, got)
	require.JSONEq(t, `{"from":"pool","to":"miner","amount":1000}`, string(tr.Encode()))
}

func TestBurn_EncodeDecode(t *testing.T) {
	b := NewBurn("pool", 7)
	var got Burn
	require.NoError(t, got.Decode(b.Encode()))
	require.Equal(t, *b, got)
	require.Error(t, got.Decode([]byte("{")))
}

func TestTransfer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tr      *Transfer
		wantErr bool
	}{
		{name: "ok", tr: NewTransfer("pool", "miner", 1)},
		{name: "zero_amount", tr: NewTransfer("pool", "miner", 0)},
		{name: "no_sender", tr: NewTransfer("", "miner", 1), wantErr: true},
		{name: "no_receiver", tr: NewTransfer("pool", "", 1), wantErr: true},
		{name: "self", tr: NewTransfer("pool", "pool", 1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tr.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransfer)
				return
			}
			require.NoError(t, err)
		})
	}
}
