package miningsc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
)

func fixedBits(t *testing.T, f fixedpoint.U64F64) string {
	t.Helper()
	b, err := f.MarshalText()
	require.NoError(t, err)
	return string(b)
}

func TestTokenomic_MinimalStake(t *testing.T) {
	t.Parallel()

	tk := NewTokenomic(DefaultTokenomicParameters())
	stake, err := tk.MinimalStake(1000)
	require.NoError(t, err)
	require.EqualValues(t, 3162277660146355, stake)
	require.Equal(t, "3162.277660146355", stake.ToToken().String())

	zero, err := tk.MinimalStake(0)
	require.NoError(t, err)
	require.Zero(t, zero)
}

func TestTokenomic_Ve(t *testing.T) {
	t.Parallel()

	tk := NewTokenomic(DefaultTokenomicParameters())
	stake := 1000 * currency.Token
	tests := []struct {
		level uint8
		bits  string
		dec   string
	}{
		{level: 1, bits: "35971150943733625651500", dec: "1950.00000000000000001626"},
		{level: 2, bits: "35971150943733625651500", dec: "1950.00000000000000001626"},
		{level: 3, bits: "35971150943733625651500", dec: "1950.00000000000000001626"},
		{level: 4, bits: "33573074214151383940879", dec: "1819.99999999999999998694"},
		{level: 5, bits: "32374035849360263085569", dec: "1754.9999999999999999723"},
		{level: 0, bits: "35971150943733625651500", dec: "1950.00000000000000001626"},
		{level: 9, bits: "35971150943733625651500", dec: "1950.00000000000000001626"},
	}
	for _, tt := range tests {
		ve, err := tk.Ve(stake, 1000, tt.level)
		require.NoError(t, err)
		require.Equal(t, tt.bits, fixedBits(t, ve), "level %d", tt.level)
		require.Equal(t, tt.dec, ve.Decimal().Round(int32(len(tt.dec)-5)).String(), "level %d", tt.level)
	}
}

func TestTokenomic_Costs(t *testing.T) {
	t.Parallel()

	tk := NewTokenomic(DefaultTokenomicParameters())
	rig := map[uint32]string{
		500:  "2767011611056432742500",
		2000: "11068046444225730970000",
		2800: "15495265021916023358000",
	}
	for p, want := range rig {
		c, err := tk.RigCost(p)
		require.NoError(t, err)
		require.Equal(t, want, fixedBits(t, c), "rig cost of %d", p)
	}

	op, err := tk.OpCost(2000)
	require.NoError(t, err)
	yearly, err := op.MulInt(secondsPerYear)
	require.NoError(t, err)
	require.Equal(t, "3167651833887088800000", fixedBits(t, yearly))

	daily, err := tk.Params().BudgetPerSec.MulInt(86400)
	require.NoError(t, err)
	require.Equal(t, "13281655733070877163491200", fixedBits(t, daily))

	require.Equal(t, 0, tk.VMax().Cmp(fixedpoint.FromUint64(30000)))
	require.Equal(t, 0, tk.Kappa().Cmp(fixedpoint.One))
}

func TestConfidenceScore(t *testing.T) {
	t.Parallel()

	require.Equal(t, fixedpoint.One, ConfidenceScore(0))
	require.Equal(t, fixedpoint.One, ConfidenceScore(3))
	require.Equal(t, fixedpoint.MustParse("0.8"), ConfidenceScore(4))
	require.Equal(t, fixedpoint.MustParse("0.7"), ConfidenceScore(5))
	require.Equal(t, fixedpoint.One, ConfidenceScore(6))
}

func TestTokenomicParameters_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*TokenomicParameters)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*TokenomicParameters) {}},
		{name: "zero_rate", mutate: func(p *TokenomicParameters) { p.PhaRate = fixedpoint.Zero }, wantErr: true},
		{name: "re_below_one", mutate: func(p *TokenomicParameters) { p.Re = fixedpoint.MustParse("0.5") }, wantErr: true},
		{name: "zero_v_max", mutate: func(p *TokenomicParameters) { p.VMax = fixedpoint.Zero }, wantErr: true},
		{name: "slash_above_one", mutate: func(p *TokenomicParameters) { p.SlashRate = fixedpoint.FromUint64(2) }, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultTokenomicParameters()
			tt.mutate(&p)
			if tt.wantErr {
				require.Error(t, p.Validate())
				return
			}
			require.NoError(t, p.Validate())
		})
	}
}
