package smartcontractinterface

import (
	"github.com/rcrowley/go-metrics"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var percentiles = []float64{0.5, 0.9, 0.95, 0.99, 0.999}

// MetricStats is a point in time summary of one registered metric.
type MetricStats struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        string    `json:"kind" yaml:"kind"`
	Count       int64     `json:"count" yaml:"count"`
	Min         int64     `json:"min,omitempty" yaml:"min,omitempty"`
	Max         int64     `json:"max,omitempty" yaml:"max,omitempty"`
	Mean        float64   `json:"mean,omitempty" yaml:"mean,omitempty"`
	Percentiles []float64 `json:"percentiles,omitempty" yaml:"percentiles,omitempty"`
}

// HandlerStats summarises every execution metric, sorted by name.
func (sc *SmartContract) HandlerStats() []MetricStats {
	keys := maps.Keys(sc.SmartContractExecutionStats)
	slices.Sort(keys)
	out := make([]MetricStats, 0, len(keys))
	for _, k := range keys {
		switch stats := sc.SmartContractExecutionStats[k].(type) {
		case metrics.Histogram:
			s := stats.Snapshot()
			out = append(out, MetricStats{
				Name: k, Kind: "histogram", Count: s.Count(), Min: s.Min(), Max: s.Max(),
				Mean: s.Mean(), Percentiles: s.Percentiles(percentiles),
			})
		case metrics.Counter:
			out = append(out, MetricStats{Name: k, Kind: "counter", Count: stats.Count()})
		}
	}
	return out
}
