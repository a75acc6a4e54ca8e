package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"pouw.net/pkg/fixedpoint"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Coin
		wantErr error
	}{
		{name: "whole tokens", in: "1000", want: 1000 * Token},
		{name: "fraction", in: "3162.277660146355", want: 3162277660146355},
		{name: "smallest unit", in: "0.000000000001", want: 1},
		{name: "too many decimals", in: "0.0000000000001", wantErr: ErrTooManyDecimals},
		{name: "negative", in: "-1", wantErr: ErrNegativeValue},
		{name: "too large", in: "18446745", wantErr: ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToken(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCoin_ToToken(t *testing.T) {
	require.Equal(t, "3162.277660146355", Coin(3162277660146355).ToToken().String())
	require.Equal(t, "0.000000000012", Coin(12).ToToken().String())
}

func TestCoin_Arithmetic(t *testing.T) {
	sum, err := Coin(5).AddCoin(7)
	require.NoError(t, err)
	require.EqualValues(t, 12, sum)

	_, err = Coin(math.MaxUint64).AddCoin(1)
	require.ErrorIs(t, err, ErrUint64AddOverflow)

	diff, err := Coin(7).SubCoin(5)
	require.NoError(t, err)
	require.EqualValues(t, 2, diff)

	_, err = Coin(5).SubCoin(7)
	require.ErrorIs(t, err, ErrUint64SubUnderflow)
}

func TestFixedConversion(t *testing.T) {
	require.Equal(t, 0, ToFixed(1000*Token).Cmp(fixedpoint.FromUint64(1000)))

	minimal, err := fixedpoint.MustParse("100").Mul(fixedpoint.FromUint64(1000).Sqrt())
	require.NoError(t, err)
	c, err := FromFixed(minimal)
	require.NoError(t, err)
	require.EqualValues(t, 3162277660146355, c)

	// balance -> fixed -> balance loses at most one unit
	back, err := FromFixed(ToFixed(3162277660146355))
	require.NoError(t, err)
	require.EqualValues(t, 3162277660146354, back)

	c, err = FromFixed(fixedpoint.FromUint64(2))
	require.NoError(t, err)
	require.Equal(t, 2*Token, c)

	_, err = FromFixed(fixedpoint.Max)
	require.ErrorIs(t, err, ErrTooLarge)
}
