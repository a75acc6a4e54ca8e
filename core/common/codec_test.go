package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type codecEntity struct {
	ID     string            `json:"id"`
	Amount uint64            `json:"amount"`
	Tags   map[string]uint32 `json:"tags"`
}

func TestToMsgpack_FromMsgpack(t *testing.T) {
	t.Parallel()

	in := codecEntity{ID: "miner", Amount: 42, Tags: map[string]uint32{"b": 2, "a": 1}}
	buf, err := ToMsgpack(in)
	require.NoError(t, err)

	var out codecEntity
	require.NoError(t, FromMsgpack(buf.Bytes(), &out))
	require.Equal(t, in, out)
}

func TestFromMsgpack_UnknownType(t *testing.T) {
	t.Parallel()

	var out codecEntity
	err := FromMsgpack(42, &out)
	require.Error(t, err)
	require.ErrorIs(t, err, NewError("unknown_data_type", ""))
}

func TestSince(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 10, Since(110, 100))
	require.EqualValues(t, 0, Since(100, 100))
	require.EqualValues(t, 0, Since(90, 100))
}
