package currency

import (
	"github.com/holiman/uint256"

	"pouw.net/pkg/fixedpoint"
)

// Token is one whole token in the lowest denomination.
const Token Coin = 1_000_000_000_000

// ToFixed converts a balance into a token amount: (c << 64) / 10^12.
func ToFixed(c Coin) fixedpoint.U64F64 {
	z := new(uint256.Int).Lsh(uint256.NewInt(uint64(c)), fixedpoint.FracBits)
	z.Div(z, uint256.NewInt(uint64(Token)))
	v, _ := fixedpoint.FromUint256Bits(z)
	return v
}

// FromFixed converts a token amount back into a balance: (bits * 10^12) >> 64.
func FromFixed(v fixedpoint.U64F64) (Coin, error) {
	z := new(uint256.Int).Mul(v.BitsUint256(), uint256.NewInt(uint64(Token)))
	z.Rsh(z, fixedpoint.FracBits)
	if !z.IsUint64() {
		return 0, ErrTooLarge
	}
	return Coin(z.Uint64()), nil
}
