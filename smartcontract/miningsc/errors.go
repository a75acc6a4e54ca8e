package miningsc

import "pouw.net/core/common"

var (
	ErrBadSender           = common.NewError("bad_sender", "sender is not allowed to perform the operation")
	ErrInvalidMessage      = common.NewError("invalid_message", "message cannot be applied")
	ErrWorkerNotRegistered = common.NewError("worker_not_registered", "worker is not registered")
	ErrDuplicateBoundMiner = common.NewError("duplicate_bound_miner", "miner or worker is already bound")
	ErrBenchmarkMissing    = common.NewError("benchmark_missing", "worker has no initial benchmark")
	ErrMinerNotFound       = common.NewError("miner_not_found", "miner not found")
	ErrMinerNotBound       = common.NewError("miner_not_bound", "miner is not bound to a worker")
	ErrMinerNotReady       = common.NewError("miner_not_ready", "miner is not in ready state")
	ErrMinerNotMining      = common.NewError("miner_not_mining", "miner is not mining")
	ErrWorkerNotBound      = common.NewError("worker_not_bound", "worker is not bound to a miner")
	ErrCoolDownNotReady    = common.NewError("cool_down_not_ready", "cool down period has not passed")
	ErrInsufficientStake   = common.NewError("insufficient_stake", "stake is below the minimal stake")
	ErrTooMuchStake        = common.NewError("too_much_stake", "initial score exceeds v max")
	ErrNoTokenomic         = common.NewError("tokenomic_not_set", "tokenomic parameters are not set")
)
