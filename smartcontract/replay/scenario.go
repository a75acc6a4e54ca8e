// Package replay executes scenario files against the mining contract with a
// deterministic host: fixed timestamps, seeded randomness and an in memory
// ledger. Two runs of the same scenario end in the same state hash.
package replay

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"pouw.net/chaincore/registry"
	"pouw.net/core/common"
)

// Step kinds.
const (
	KindCall      = "call"
	KindTick      = "tick"
	KindHeartbeat = "heartbeat"
	KindSettle    = "settle"
	KindLock      = "lock"
	KindUnlock    = "unlock"
	KindRegister  = "register"
)

var ErrInvalidScenario = common.NewError("invalid_scenario", "scenario file is malformed")

// Scenario is a replayable sequence of contract steps.
type Scenario struct {
	Name string `yaml:"name"`
	// Seed feeds the randomness source of every step.
	Seed string `yaml:"seed"`
	// Genesis overrides smart_contracts.miningsc keys of the contract
	// configuration, e.g. cool_down_period or tokenomic.k.
	Genesis  map[string]interface{} `yaml:"genesis"`
	Accounts map[string]string      `yaml:"accounts"`
	Workers  []registry.WorkerInfo  `yaml:"workers" validate:"dive"`
	Steps    []Step                 `yaml:"steps" validate:"dive"`
}

// Step is one host action at timestamp At. Exactly one of the action fields
// matching Kind is read.
type Step struct {
	At   common.Timestamp `yaml:"at"`
	Kind string           `yaml:"kind" validate:"oneof=call tick heartbeat settle lock unlock register"`
	// Expect is the error code the step must fail with, empty for success.
	Expect string `yaml:"expect,omitempty"`

	Call      *CallStep            `yaml:"call,omitempty"`
	Heartbeat *HeartbeatStep       `yaml:"heartbeat,omitempty"`
	Settle    *SettleStep          `yaml:"settle,omitempty"`
	Lock      *LockStep            `yaml:"lock,omitempty"`
	Register  *registry.WorkerInfo `yaml:"register,omitempty"`
}

// CallStep is a transaction. Input is the JSON argument of the function.
type CallStep struct {
	From     string `yaml:"from"`
	Function string `yaml:"function" validate:"required"`
	Input    string `yaml:"input"`
}

type HeartbeatStep struct {
	Worker     string `yaml:"worker" validate:"required"`
	Iterations uint64 `yaml:"iterations"`
}

// SettleStep is a gatekeeper batch. Scores and payouts are decimal strings.
type SettleStep struct {
	Offline   []string      `yaml:"offline"`
	Recovered []string      `yaml:"recovered"`
	Entries   []SettleEntry `yaml:"entries" validate:"dive"`
}

type SettleEntry struct {
	Worker string `yaml:"worker" validate:"required"`
	V      string `yaml:"v" validate:"required"`
	Payout string `yaml:"payout"`
}

// LockStep moves tokens of a miner into the stake pool, or back out for an
// unlock step, which ignores Amount.
type LockStep struct {
	Miner  string `yaml:"miner" validate:"required"`
	Amount string `yaml:"amount"`
}

// ReadScenario loads a scenario from a yaml file.
func ReadScenario(file string) (*Scenario, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %v", file)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a yaml scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.UnmarshalStrict(data, sc); err != nil {
		return nil, common.NewErrorf(ErrInvalidScenario.Code, "%v", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateStepAction, Step{})
	return v
}

// validateStepAction requires the action field that the step kind names.
func validateStepAction(sl validator.StructLevel) {
	s := sl.Current().Interface().(Step)
	var field string
	var present bool
	switch s.Kind {
	case KindCall:
		field, present = "Call", s.Call != nil
	case KindHeartbeat:
		field, present = "Heartbeat", s.Heartbeat != nil
	case KindSettle:
		field, present = "Settle", s.Settle != nil
	case KindLock, KindUnlock:
		field, present = "Lock", s.Lock != nil
	case KindRegister:
		field, present = "Register", s.Register != nil
	default:
		return
	}
	if !present {
		sl.ReportError(nil, field, field, "required_for_kind", s.Kind)
	}
}

// Validate checks every step carries the action its kind names and that
// timestamps never go backwards.
func (sc *Scenario) Validate() error {
	if err := validate.Struct(sc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return common.NewErrorf(ErrInvalidScenario.Code, "%v fails %v %v", fe.Namespace(), fe.Tag(), fe.Param())
		}
		return common.NewErrorf(ErrInvalidScenario.Code, "%v", err)
	}

	var last common.Timestamp
	for i, s := range sc.Steps {
		if s.At < last {
			return common.NewErrorf(ErrInvalidScenario.Code, "step %d: timestamp %d is before %d", i, s.At, last)
		}
		last = s.At
	}
	return nil
}
