package miningsc

import (
	"pouw.net/core/common"
	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
)

// TokenomicParameters are the constants the gatekeepers use to promote V.
// Version is bumped on every update.
type TokenomicParameters struct {
	Version         uint64            `json:"version" mapstructure:"-"`
	PhaRate         fixedpoint.U64F64 `json:"pha_rate" mapstructure:"pha_rate"`
	Rho             fixedpoint.U64F64 `json:"rho" mapstructure:"rho"`
	BudgetPerSec    fixedpoint.U64F64 `json:"budget_per_sec" mapstructure:"budget_per_sec"`
	VMax            fixedpoint.U64F64 `json:"v_max" mapstructure:"v_max"`
	CostK           fixedpoint.U64F64 `json:"cost_k" mapstructure:"cost_k"`
	CostB           fixedpoint.U64F64 `json:"cost_b" mapstructure:"cost_b"`
	SlashRate       fixedpoint.U64F64 `json:"slash_rate" mapstructure:"slash_rate"`
	HeartbeatWindow uint32            `json:"heartbeat_window" mapstructure:"heartbeat_window"`
	RigK            fixedpoint.U64F64 `json:"rig_k" mapstructure:"rig_k"`
	RigB            fixedpoint.U64F64 `json:"rig_b" mapstructure:"rig_b"`
	Re              fixedpoint.U64F64 `json:"re" mapstructure:"re"`
	K               fixedpoint.U64F64 `json:"k" mapstructure:"k"`
	Kappa           fixedpoint.U64F64 `json:"kappa" mapstructure:"kappa"`
}

const secondsPerYear = 3600 * 24 * 365

func mustDiv(f fixedpoint.U64F64, ns ...uint64) fixedpoint.U64F64 {
	for _, n := range ns {
		var err error
		if f, err = f.DivInt(n); err != nil {
			panic(err)
		}
	}
	return f
}

// DefaultTokenomicParameters returns the genesis parameters. Annual and daily
// figures are converted to per second rates.
func DefaultTokenomicParameters() TokenomicParameters {
	return TokenomicParameters{
		PhaRate:         fixedpoint.One,
		Rho:             fixedpoint.MustParse("1.00000099985"),
		SlashRate:       mustDiv(fixedpoint.MustParse("0.001"), 300),
		BudgetPerSec:    mustDiv(fixedpoint.FromUint64(720000), 24, 3600),
		VMax:            fixedpoint.FromUint64(30000),
		CostK:           mustDiv(fixedpoint.MustParse("0.0415625"), 3600, 24, 365),
		CostB:           mustDiv(fixedpoint.MustParse("88.59375"), 3600, 24, 365),
		HeartbeatWindow: 10,
		RigK:            fixedpoint.MustParse("0.3"),
		RigB:            fixedpoint.Zero,
		Re:              fixedpoint.MustParse("1.5"),
		K:               fixedpoint.FromUint64(100),
		Kappa:           fixedpoint.One,
	}
}

// Validate rejects parameters the calculator cannot work with.
func (tp *TokenomicParameters) Validate() error {
	switch {
	case tp.PhaRate.IsZero():
		return common.NewError("invalid_tokenomic", "pha_rate must be positive")
	case tp.Re.Cmp(fixedpoint.One) < 0:
		return common.NewError("invalid_tokenomic", "re must be at least 1")
	case tp.VMax.IsZero():
		return common.NewError("invalid_tokenomic", "v_max must be positive")
	case tp.SlashRate.Cmp(fixedpoint.One) > 0:
		return common.NewError("invalid_tokenomic", "slash_rate must not exceed 1")
	}
	return nil
}

var confidenceScores = [5]fixedpoint.U64F64{
	fixedpoint.One,
	fixedpoint.One,
	fixedpoint.One,
	fixedpoint.MustParse("0.8"),
	fixedpoint.MustParse("0.7"),
}

// ConfidenceScore maps an attestation level to its weight. Levels outside
// 1..5 weigh as level 1.
func ConfidenceScore(level uint8) fixedpoint.U64F64 {
	if level >= 1 && level <= 5 {
		return confidenceScores[level-1]
	}
	return confidenceScores[0]
}

// Tokenomic evaluates the tokenomic formulas over one parameter snapshot. It
// holds no other state.
type Tokenomic struct {
	params TokenomicParameters
}

func NewTokenomic(params TokenomicParameters) Tokenomic {
	return Tokenomic{params: params}
}

func (t Tokenomic) Params() TokenomicParameters {
	return t.params
}

// MinimalStake is k * sqrt(p) in balance units.
func (t Tokenomic) MinimalStake(p uint32) (currency.Coin, error) {
	minStake, err := t.params.K.Mul(fixedpoint.FromUint64(uint64(p)).Sqrt())
	if err != nil {
		return 0, err
	}
	return currency.FromFixed(minStake)
}

// Ve is ((re - 1) * confidence + 1) * (stake + rig_cost(p)).
func (t Tokenomic) Ve(stake currency.Coin, p uint32, level uint8) (fixedpoint.U64F64, error) {
	re, err := t.params.Re.Sub(fixedpoint.One)
	if err != nil {
		return fixedpoint.Zero, err
	}
	tweaked, err := re.Mul(ConfidenceScore(level))
	if err != nil {
		return fixedpoint.Zero, err
	}
	if tweaked, err = tweaked.Add(fixedpoint.One); err != nil {
		return fixedpoint.Zero, err
	}
	cost, err := t.RigCost(p)
	if err != nil {
		return fixedpoint.Zero, err
	}
	base, err := currency.ToFixed(stake).Add(cost)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return tweaked.Mul(base)
}

// VMax is the score ceiling.
func (t Tokenomic) VMax() fixedpoint.U64F64 {
	return t.params.VMax
}

// RigCost estimates the hardware cost of a rig with score p, in tokens.
func (t Tokenomic) RigCost(p uint32) (fixedpoint.U64F64, error) {
	return linearCost(t.params.RigK, t.params.RigB, t.params.PhaRate, p)
}

// OpCost estimates the operating cost per second of a rig with score p, in
// tokens.
func (t Tokenomic) OpCost(p uint32) (fixedpoint.U64F64, error) {
	return linearCost(t.params.CostK, t.params.CostB, t.params.PhaRate, p)
}

// Kappa is the exit penalty factor. It is published to the gatekeepers but
// not applied on reclaim.
func (t Tokenomic) Kappa() fixedpoint.U64F64 {
	return t.params.Kappa
}

func linearCost(k, b, rate fixedpoint.U64F64, p uint32) (fixedpoint.U64F64, error) {
	kp, err := k.Mul(fixedpoint.FromUint64(uint64(p)))
	if err != nil {
		return fixedpoint.Zero, err
	}
	sum, err := kp.Add(b)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return sum.Div(rate)
}
