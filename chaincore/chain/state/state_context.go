package state

import (
	"errors"

	"pouw.net/chaincore/mq"
	"pouw.net/chaincore/registry"
	"pouw.net/chaincore/state"
	"pouw.net/core/common"
	"pouw.net/smartcontract/dbs/event"
)

var ErrNoClock = errors.New("state context has no clock")

//go:generate mockery --name StateContextI --case underscore --output ./mocks
//StateContextI - the synchronous collaborators available to the smart
// contract while it executes one step.
type StateContextI interface {
	GetRound() int64
	GetTxnHash() string
	Now() common.Timestamp
	Random(subject string) [32]byte
	GetWorker(pubkey string) (registry.WorkerInfo, bool)
	AddTransfer(t *state.Transfer) error
	AddBurn(b *state.Burn) error
	PushMessage(m mq.Message)
	EmitEvent(event.EventType, event.EventTag, string, string)
	EmitError(error)
}

// WorkerGetter resolves worker identities.
type WorkerGetter interface {
	Get(pubkey string) (registry.WorkerInfo, bool)
}

// RandomnessSource yields 256 random bits for a round and subject.
type RandomnessSource interface {
	Random(round int64, subject []byte) [32]byte
}

//StateContext - a context object used to execute one step
type StateContext struct {
	round     int64
	txnHash   string
	now       func() common.Timestamp
	random    RandomnessSource
	workers   WorkerGetter
	queue     *mq.Queue
	transfers []*state.Transfer
	burns     []*state.Burn
	events    []event.Event
}

// Option is the option type used when creating the StateContext instance
type Option func(*StateContext)

func NewStateContext(options ...Option) *StateContext {
	stc := &StateContext{
		random:  SeededRandomness{},
		workers: registry.NewWorkers(),
		queue:   mq.NewQueue(),
	}

	for _, opt := range options {
		opt(stc)
	}

	return stc
}

// WithClock sets the deterministic clock of the step.
func WithClock(now func() common.Timestamp) Option {
	return func(s *StateContext) {
		s.now = now
	}
}

// WithFixedTime is WithClock with a clock that always returns ts.
func WithFixedTime(ts common.Timestamp) Option {
	return WithClock(func() common.Timestamp { return ts })
}

// WithRandomness sets the randomness source.
func WithRandomness(r RandomnessSource) Option {
	return func(s *StateContext) {
		s.random = r
	}
}

// WithRegistry sets the worker registry.
func WithRegistry(w WorkerGetter) Option {
	return func(s *StateContext) {
		s.workers = w
	}
}

// WithBlock sets the round and the hash of the transaction being executed.
func WithBlock(round int64, txnHash string) Option {
	return func(s *StateContext) {
		s.round = round
		s.txnHash = txnHash
	}
}

// WithQueue shares a message queue across steps.
func WithQueue(q *mq.Queue) Option {
	return func(s *StateContext) {
		s.queue = q
	}
}

func (sc *StateContext) GetRound() int64 {
	return sc.round
}

func (sc *StateContext) GetTxnHash() string {
	return sc.txnHash
}

// Now panics when no clock was configured; a step must never fall back to
// wall clock time.
func (sc *StateContext) Now() common.Timestamp {
	if sc.now == nil {
		panic(ErrNoClock)
	}
	return sc.now()
}

func (sc *StateContext) Random(subject string) [32]byte {
	return sc.random.Random(sc.round, []byte(subject))
}

func (sc *StateContext) GetWorker(pubkey string) (registry.WorkerInfo, bool) {
	return sc.workers.Get(pubkey)
}

//AddTransfer - add the transfer
func (sc *StateContext) AddTransfer(t *state.Transfer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Amount == 0 {
		return nil
	}
	sc.transfers = append(sc.transfers, t)
	return nil
}

//AddBurn - dispose of an amount held by the burner
func (sc *StateContext) AddBurn(b *state.Burn) error {
	if b.Burner == "" {
		return state.ErrInvalidBurn
	}
	if b.Amount == 0 {
		return nil
	}
	sc.burns = append(sc.burns, b)
	return nil
}

func (sc *StateContext) PushMessage(m mq.Message) {
	sc.queue.Push(m)
}

func (sc *StateContext) EmitEvent(eventType event.EventType, tag event.EventTag, index string, data string) {
	sc.events = append(sc.events, event.Event{
		BlockNumber: sc.round,
		TxHash:      sc.txnHash,
		Type:        eventType,
		Tag:         tag,
		Index:       index,
		Data:        data,
	})
}

// EmitError replaces the events of the step with a single error event.
func (sc *StateContext) EmitError(err error) {
	sc.events = []event.Event{
		{
			BlockNumber: sc.round,
			TxHash:      sc.txnHash,
			Type:        event.TypeError,
			Data:        err.Error(),
		},
	}
}

//GetTransfers - get all the transfers
func (sc *StateContext) GetTransfers() []*state.Transfer {
	return sc.transfers
}

func (sc *StateContext) GetBurns() []*state.Burn {
	return sc.burns
}

func (sc *StateContext) GetEvents() []event.Event {
	return sc.events
}

// GetMessages returns the messages pushed so far without draining them.
func (sc *StateContext) GetMessages() []mq.Message {
	return sc.queue.Peek()
}

func (sc *StateContext) GetQueue() *mq.Queue {
	return sc.queue
}
