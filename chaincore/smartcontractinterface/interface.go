package smartcontractinterface

import (
	"fmt"

	"github.com/rcrowley/go-metrics"
)

const Seperator = ":"

// SmartContract holds what every contract shares: its address and the
// execution metrics it registers.
type SmartContract struct {
	ID                          string
	SmartContractExecutionStats map[string]interface{}
	registry                    metrics.Registry
}

// NewSC creates a contract base with its own metrics registry, so two
// contracts with the same address never share counters.
func NewSC(id string) *SmartContract {
	return &SmartContract{
		ID:                          id,
		SmartContractExecutionStats: make(map[string]interface{}),
		registry:                    metrics.NewRegistry(),
	}
}

func (sc *SmartContract) metricName(kind, name string) string {
	return fmt.Sprintf("sc%v%v%v%v%v%v", Seperator, sc.ID, Seperator, kind, Seperator, name)
}

// AddCounter registers a named counter.
func (sc *SmartContract) AddCounter(name string) metrics.Counter {
	c := metrics.GetOrRegisterCounter(sc.metricName("counter", name), sc.registry)
	sc.SmartContractExecutionStats[name] = c
	return c
}

// AddHistogram registers a named histogram over a uniform sample.
func (sc *SmartContract) AddHistogram(name string) metrics.Histogram {
	h := metrics.GetOrRegisterHistogram(sc.metricName("histogram", name), sc.registry, metrics.NewUniformSample(1024))
	sc.SmartContractExecutionStats[name] = h
	return h
}
