package currency

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenExponent is the number of decimal places of one token.
const TokenExponent = 12

var (
	// ErrNegativeValue is returned if a token value is a negative number
	ErrNegativeValue = errors.New("negative coin value")
	// ErrTooManyDecimals is returned if a value has more than 12 decimal places
	ErrTooManyDecimals = errors.New("too many decimal places")
	// ErrTooLarge is returned if a value does not fit a Coin
	ErrTooLarge = errors.New("value is too large")

	// ErrUint64AddOverflow is returned if when adding uint64 values overflow uint64
	ErrUint64AddOverflow = errors.New("uint64 addition overflow")
	// ErrUint64SubUnderflow is returned if a subtraction would go below zero
	ErrUint64SubUnderflow = errors.New("uint64 subtraction underflow")
)

var maxDecimal = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// Coin - any quantity that is represented as an integer in the lowest denomination
type Coin uint64

// ParseToken converts a decimal token amount such as "3162.277660146355"
// into the lowest denomination.
func ParseToken(s string) (Coin, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.Sign() == -1 {
		return 0, ErrNegativeValue
	}

	// Tokens have a maximum of 12 decimal places
	if d.Exponent() < -TokenExponent {
		return 0, ErrTooManyDecimals
	}

	e := d.Shift(TokenExponent)
	if e.GreaterThan(maxDecimal) {
		return 0, ErrTooLarge
	}

	return Coin(e.BigInt().Uint64()), nil
}

// ToToken renders the coin amount in whole tokens.
func (c Coin) ToToken() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(c)), -TokenExponent)
}

// AddCoin adds a and b, returning an error if the values overflow
func (c Coin) AddCoin(b Coin) (Coin, error) {
	sum := c + b
	if sum < c || sum < b {
		return 0, ErrUint64AddOverflow
	}
	return sum, nil
}

// SubCoin subtracts b from c, returning an error if b is larger
func (c Coin) SubCoin(b Coin) (Coin, error) {
	if b > c {
		return 0, ErrUint64SubUnderflow
	}
	return c - b, nil
}
