package miningsc

import (
	"strconv"

	"pouw.net/core/common"
)

// MinerState is the mining status of a miner account.
type MinerState uint8

const (
	Ready MinerState = iota
	MiningIdle
	MiningActive
	MiningUnresponsive
	MiningCoolingDown
)

var minerStateNames = []string{
	"Ready",
	"MiningIdle",
	"MiningActive",
	"MiningUnresponsive",
	"MiningCoolingDown",
}

func (s MinerState) String() string {
	if int(s) < len(minerStateNames) {
		return minerStateNames[s]
	}
	return "unknown"
}

// CanUnbind reports whether the miner can be unbound without stopping it
// first.
func (s MinerState) CanUnbind() bool {
	return s == Ready || s == MiningCoolingDown
}

// CanSettle reports whether a settlement is expected for the state. Settling
// a cooling down or unresponsive miner is tolerated.
func (s MinerState) CanSettle() bool {
	switch s {
	case MiningIdle, MiningActive, MiningCoolingDown, MiningUnresponsive:
		return true
	}
	return false
}

// IsOnline reports whether the miner counts towards the online miners.
func (s MinerState) IsOnline() bool {
	switch s {
	case MiningIdle, MiningActive, MiningUnresponsive:
		return true
	}
	return false
}

// MinerStateLookups lists the states as code/label pairs for the query API.
func MinerStateLookups() []*common.Lookup {
	args := make([]string, 0, 2*len(minerStateNames))
	for i, name := range minerStateNames {
		args = append(args, strconv.Itoa(i), name)
	}
	return common.CreateLookups(args...)
}
