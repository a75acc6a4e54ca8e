// Package registry keeps the worker identities known to the chain together
// with their benchmark results and attestation tier.
package registry

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"pouw.net/core/common"
)

var (
	ErrWorkerNotFound = common.NewError("worker_not_found", "worker is not registered")
	ErrInvalidPubKey  = common.NewError("invalid_pubkey", "worker public key is empty")
)

// WorkerInfo is what the chain knows about one worker.
type WorkerInfo struct {
	PubKey string `json:"pubkey" yaml:"pubkey" validate:"required"`
	// Operator is the account allowed to manage the worker, empty if unset.
	Operator string `json:"operator,omitempty" yaml:"operator"`
	// InitialScore is nil until the worker completes its first benchmark.
	InitialScore    *uint32 `json:"initial_score,omitempty" yaml:"initial_score"`
	ConfidenceLevel uint8   `json:"confidence_level" yaml:"confidence_level"`
}

// Clone returns a deep copy.
func (w *WorkerInfo) Clone() *WorkerInfo {
	c := *w
	if w.InitialScore != nil {
		s := *w.InitialScore
		c.InitialScore = &s
	}
	return &c
}

// Workers is an in memory registry.
type Workers struct {
	workers map[string]*WorkerInfo
}

func NewWorkers() *Workers {
	return &Workers{workers: make(map[string]*WorkerInfo)}
}

// Register adds a worker or refreshes its operator and confidence level. A
// previously recorded benchmark is kept unless the new info carries one.
func (ws *Workers) Register(info WorkerInfo) error {
	if info.PubKey == "" {
		return ErrInvalidPubKey
	}
	next := info.Clone()
	if prev, ok := ws.workers[info.PubKey]; ok && next.InitialScore == nil {
		next.InitialScore = prev.Clone().InitialScore
	}
	ws.workers[info.PubKey] = next
	return nil
}

// SetBenchmark records the worker's initial score.
func (ws *Workers) SetBenchmark(pubkey string, score uint32) error {
	w, ok := ws.workers[pubkey]
	if !ok {
		return ErrWorkerNotFound
	}
	w.InitialScore = &score
	return nil
}

// Get returns a copy of the worker info.
func (ws *Workers) Get(pubkey string) (WorkerInfo, bool) {
	w, ok := ws.workers[pubkey]
	if !ok {
		return WorkerInfo{}, false
	}
	return *w.Clone(), true
}

// Keys lists registered workers in ascending order.
func (ws *Workers) Keys() []string {
	keys := maps.Keys(ws.workers)
	slices.Sort(keys)
	return keys
}
