package miningsc

import (
	"github.com/holiman/uint256"

	"pouw.net/chaincore/mq"
	"pouw.net/pkg/fixedpoint"
)

const (
	// TopicSystemEvent carries challenges and worker lifecycle events.
	TopicSystemEvent mq.Topic = "mining/system_event"
	// TopicGatekeeperEvent carries parameter broadcasts to the gatekeepers.
	TopicGatekeeperEvent mq.Topic = "mining/gatekeeper_event"
	// TopicMiningReport carries heartbeats sent by workers.
	TopicMiningReport mq.Topic = "mining/report"
	// TopicMiningInfoUpdate carries settlement batches sent by the gatekeeper.
	TopicMiningInfoUpdate mq.Topic = "mining/info_update"
)

// MiningStart tells a worker to start a session.
type MiningStart struct {
	SessionID uint32            `json:"session_id"`
	InitV     fixedpoint.U64F64 `json:"init_v"`
}

// WorkerEvent is addressed to one worker. Exactly one of Start and Stop is
// set.
type WorkerEvent struct {
	PubKey string       `json:"pubkey"`
	Start  *MiningStart `json:"start,omitempty"`
	Stop   bool         `json:"stop,omitempty"`
}

// HeartbeatChallenge is broadcast every tick. Both values are big endian
// 256-bit integers.
type HeartbeatChallenge struct {
	Seed         [32]byte `json:"seed"`
	OnlineTarget [32]byte `json:"online_target"`
}

func newHeartbeatChallenge(seed, target *uint256.Int) HeartbeatChallenge {
	return HeartbeatChallenge{
		Seed:         seed.Bytes32(),
		OnlineTarget: target.Bytes32(),
	}
}

func (hc HeartbeatChallenge) SeedInt() *uint256.Int {
	return new(uint256.Int).SetBytes32(hc.Seed[:])
}

func (hc HeartbeatChallenge) OnlineTargetInt() *uint256.Int {
	return new(uint256.Int).SetBytes32(hc.OnlineTarget[:])
}

// SystemEvent is the payload published on TopicSystemEvent.
type SystemEvent struct {
	Worker    *WorkerEvent        `json:"worker,omitempty"`
	Challenge *HeartbeatChallenge `json:"challenge,omitempty"`
}

// GatekeeperEvent is the payload published on TopicGatekeeperEvent.
type GatekeeperEvent struct {
	TokenomicParametersChanged *TokenomicParameters `json:"tokenomic_parameters_changed,omitempty"`
}

// Heartbeat is a worker's answer to a challenge it has won.
type Heartbeat struct {
	ChallengeBlock uint32 `json:"challenge_block"`
	ChallengeTime  uint64 `json:"challenge_time"`
	Iterations     uint64 `json:"iterations"`
}

// SettleInfo is the gatekeeper's verdict on one worker. V and Payout are
// fixed point bits.
type SettleInfo struct {
	PubKey string            `json:"pubkey"`
	V      fixedpoint.U64F64 `json:"v"`
	Payout fixedpoint.U64F64 `json:"payout"`
}

// MiningInfoUpdateEvent is a settlement batch aggregated by the gatekeeper.
type MiningInfoUpdateEvent struct {
	BlockNumber       int64        `json:"block_number"`
	Timestamp         uint64       `json:"timestamp"`
	Offline           []string     `json:"offline"`
	RecoveredToOnline []string     `json:"recovered_to_online"`
	Settle            []SettleInfo `json:"settle"`
}

func (e *MiningInfoUpdateEvent) IsEmpty() bool {
	return len(e.Offline) == 0 && len(e.RecoveredToOnline) == 0 && len(e.Settle) == 0
}
