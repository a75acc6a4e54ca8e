// Package fixedpoint implements an unsigned binary fixed-point number with 64
// integer and 64 fractional bits. Every operation truncates toward zero, so
// results are bit-identical on every executor.
package fixedpoint

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const FracBits = 64

var (
	ErrOverflow  = errors.New("fixed point overflow")
	ErrDivByZero = errors.New("fixed point division by zero")
	ErrNegative  = errors.New("fixed point value is negative")
	ErrSyntax    = errors.New("invalid fixed point literal")
)

var (
	Zero = U64F64{}
	One  = U64F64{hi: 1}
	Max  = U64F64{hi: ^uint64(0), lo: ^uint64(0)}
)

// U64F64 holds the raw 128-bit pattern of the number, value = bits / 2^64.
type U64F64 struct {
	hi uint64
	lo uint64
}

// FromBits builds a value from the high and low words of its bit pattern.
func FromBits(hi, lo uint64) U64F64 {
	return U64F64{hi: hi, lo: lo}
}

// FromUint256Bits builds a value from a bit pattern held in a uint256.
func FromUint256Bits(b *uint256.Int) (U64F64, error) {
	return fromU256(b)
}

// FromUint64 converts an integer.
func FromUint64(n uint64) U64F64 {
	return U64F64{hi: n}
}

// Bits returns the high and low words of the bit pattern.
func (f U64F64) Bits() (hi, lo uint64) {
	return f.hi, f.lo
}

// BitsUint256 returns the bit pattern widened to 256 bits.
func (f U64F64) BitsUint256() *uint256.Int {
	return &uint256.Int{f.lo, f.hi, 0, 0}
}

// BitsBig returns the bit pattern as a big integer.
func (f U64F64) BitsBig() *big.Int {
	return f.BitsUint256().ToBig()
}

func fromU256(x *uint256.Int) (U64F64, error) {
	if x[2] != 0 || x[3] != 0 {
		return Zero, ErrOverflow
	}
	return U64F64{hi: x[1], lo: x[0]}, nil
}

func (f U64F64) IsZero() bool {
	return f.hi == 0 && f.lo == 0
}

// Cmp returns -1, 0 or +1.
func (f U64F64) Cmp(g U64F64) int {
	switch {
	case f.hi < g.hi:
		return -1
	case f.hi > g.hi:
		return 1
	case f.lo < g.lo:
		return -1
	case f.lo > g.lo:
		return 1
	}
	return 0
}

func Min(a, b U64F64) U64F64 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// TruncInt drops the fractional part.
func (f U64F64) TruncInt() uint64 {
	return f.hi
}

func (f U64F64) Add(g U64F64) (U64F64, error) {
	z, overflow := new(uint256.Int).AddOverflow(f.BitsUint256(), g.BitsUint256())
	if overflow {
		return Zero, ErrOverflow
	}
	return fromU256(z)
}

func (f U64F64) Sub(g U64F64) (U64F64, error) {
	if f.Cmp(g) < 0 {
		return Zero, ErrNegative
	}
	z := new(uint256.Int).Sub(f.BitsUint256(), g.BitsUint256())
	return fromU256(z)
}

// Mul computes (f * g) >> 64 on the full 256-bit product.
func (f U64F64) Mul(g U64F64) (U64F64, error) {
	z := new(uint256.Int).Mul(f.BitsUint256(), g.BitsUint256())
	z.Rsh(z, FracBits)
	return fromU256(z)
}

// Div computes (f << 64) / g.
func (f U64F64) Div(g U64F64) (U64F64, error) {
	if g.IsZero() {
		return Zero, ErrDivByZero
	}
	z := new(uint256.Int).Lsh(f.BitsUint256(), FracBits)
	z.Div(z, g.BitsUint256())
	return fromU256(z)
}

// MulInt multiplies the bit pattern by an integer.
func (f U64F64) MulInt(n uint64) (U64F64, error) {
	z := new(uint256.Int).Mul(f.BitsUint256(), uint256.NewInt(n))
	return fromU256(z)
}

// DivInt divides the bit pattern by an integer.
func (f U64F64) DivInt(n uint64) (U64F64, error) {
	if n == 0 {
		return Zero, ErrDivByZero
	}
	z := new(uint256.Int).Div(f.BitsUint256(), uint256.NewInt(n))
	return fromU256(z)
}

// Sqrt takes the integer square root of the bit pattern and shifts it back
// by half the fractional width. Only 32 fractional bits of the result are
// significant; the minimal stake schedule is defined on exactly this value.
func (f U64F64) Sqrt() U64F64 {
	z := new(uint256.Int).Sqrt(f.BitsUint256())
	z.Lsh(z, FracBits/2)
	r, _ := fromU256(z)
	return r
}

var (
	twoPow64  = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), FracBits), 0)
	fivePow64 = new(big.Int).Exp(big.NewInt(5), big.NewInt(FracBits), nil)
)

// Parse reads a decimal literal and rounds it to the nearest representable
// value, ties to even.
func Parse(s string) (U64F64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrSyntax
	}
	if d.Sign() < 0 {
		return Zero, ErrNegative
	}
	scaled := d.Mul(twoPow64).RoundBank(0)
	z, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return Zero, ErrOverflow
	}
	return fromU256(z)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) U64F64 {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Decimal returns the exact decimal value.
func (f U64F64) Decimal() decimal.Decimal {
	n := new(big.Int).Mul(f.BitsBig(), fivePow64)
	return decimal.NewFromBigInt(n, -FracBits)
}

// String renders the exact decimal value.
func (f U64F64) String() string {
	return f.Decimal().String()
}

// MarshalText encodes the raw bit pattern as a decimal integer.
func (f U64F64) MarshalText() ([]byte, error) {
	return []byte(f.BitsUint256().Dec()), nil
}

func (f *U64F64) UnmarshalText(text []byte) error {
	z, err := uint256.FromDecimal(string(text))
	if err != nil {
		return ErrSyntax
	}
	v, err := fromU256(z)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalBinary encodes the bit pattern as 16 big-endian bytes.
func (f U64F64) MarshalBinary() ([]byte, error) {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], f.hi)
	binary.BigEndian.PutUint64(b[8:], f.lo)
	return b, nil
}

func (f *U64F64) UnmarshalBinary(b []byte) error {
	if len(b) != 16 {
		return ErrSyntax
	}
	f.hi = binary.BigEndian.Uint64(b[:8])
	f.lo = binary.BigEndian.Uint64(b[8:])
	return nil
}
