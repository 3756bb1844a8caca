package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// CompareAll runs every policy in PolicyNames against identical inputs.
// Each run gets its own reset copy of set, so results are independent of order.
func CompareAll(set *ProcessSet, cfg EngineConfig) ([]*Result, error) {
	return Compare(set, PolicyNames, cfg)
}

// Compare runs the named policies against identical inputs, in the given order.
func Compare(set *ProcessSet, names []string, cfg EngineConfig) ([]*Result, error) {
	results := make([]*Result, 0, len(names))
	for _, name := range names {
		res, err := Simulate(set, name, cfg)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", name, err)
		}
		logrus.Infof("%s: avg waiting %.2f, avg turnaround %.2f", res.Policy.Title, res.Metrics.AvgWaiting, res.Metrics.AvgTurnaround)
		results = append(results, res)
	}
	return results, nil
}

// Best returns the result with the lowest average waiting time; ties keep the
// earlier result. Returns nil for an empty slice.
func Best(results []*Result) *Result {
	var best *Result
	for _, r := range results {
		if best == nil || r.Metrics.AvgWaiting < best.Metrics.AvgWaiting {
			best = r
		}
	}
	return best
}
