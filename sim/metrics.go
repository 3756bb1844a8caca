// Tracks per-process timing metrics (waiting, turnaround, response) and the
// run-wide aggregates derived from them once every process has completed.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ProcessMetrics holds the derived timings of one completed process.
type ProcessMetrics struct {
	PID        int   `json:"pid" yaml:"pid"`
	Arrival    int64 `json:"arrival_time" yaml:"arrival_time"`
	Burst      int   `json:"burst_time" yaml:"burst_time"`
	Priority   int   `json:"priority" yaml:"priority"`
	Start      int64 `json:"start_time" yaml:"start_time"`
	Finish     int64 `json:"finish_time" yaml:"finish_time"`
	Turnaround int64 `json:"turnaround_time" yaml:"turnaround_time"`
	Waiting    int64 `json:"waiting_time" yaml:"waiting_time"`
	Response   int64 `json:"response_time" yaml:"response_time"`
}

// Metrics aggregates statistics about a finished run for final reporting.
type Metrics struct {
	Processes []ProcessMetrics `json:"processes" yaml:"processes"` // input order

	AvgWaiting    float64 `json:"avg_waiting_time" yaml:"avg_waiting_time"`
	AvgTurnaround float64 `json:"avg_turnaround_time" yaml:"avg_turnaround_time"`
	AvgResponse   float64 `json:"avg_response_time" yaml:"avg_response_time"`
	StdDevWaiting float64 `json:"stddev_waiting_time" yaml:"stddev_waiting_time"`
	P90Waiting    float64 `json:"p90_waiting_time" yaml:"p90_waiting_time"`
	MaxWaiting    int64   `json:"max_waiting_time" yaml:"max_waiting_time"`
	Makespan      int64   `json:"makespan" yaml:"makespan"`     // finish time of the last process
	Throughput    float64 `json:"throughput" yaml:"throughput"` // completed processes per tick
}

// NewMetrics derives the metrics of a finished run.
// Every process must be Done.
func NewMetrics(processes []*Process) (*Metrics, error) {
	if len(processes) == 0 {
		return nil, ErrEmptyProcessSet
	}
	m := &Metrics{Processes: make([]ProcessMetrics, 0, len(processes))}
	waiting := make([]float64, 0, len(processes))
	turnaround := make([]float64, 0, len(processes))
	response := make([]float64, 0, len(processes))

	for _, p := range processes {
		if !p.Done() {
			return nil, fmt.Errorf("metrics for %s: process is %s, not done", p.Label(), p.State)
		}
		pm := ProcessMetrics{
			PID:        p.PID,
			Arrival:    p.ArrivalTime,
			Burst:      p.BurstTime,
			Priority:   p.Priority,
			Start:      p.StartTime,
			Finish:     p.FinishTime,
			Turnaround: p.Turnaround(),
			Waiting:    p.Waiting(),
			Response:   p.ResponseTime(),
		}
		m.Processes = append(m.Processes, pm)
		waiting = append(waiting, float64(pm.Waiting))
		turnaround = append(turnaround, float64(pm.Turnaround))
		response = append(response, float64(pm.Response))
		m.MaxWaiting = max(m.MaxWaiting, pm.Waiting)
		m.Makespan = max(m.Makespan, pm.Finish)
	}

	m.AvgWaiting = stat.Mean(waiting, nil)
	m.AvgTurnaround = stat.Mean(turnaround, nil)
	m.AvgResponse = stat.Mean(response, nil)
	if len(waiting) > 1 {
		m.StdDevWaiting = stat.StdDev(waiting, nil)
	}
	sorted := append([]float64(nil), waiting...)
	sort.Float64s(sorted)
	m.P90Waiting = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	if m.Makespan > 0 {
		m.Throughput = float64(len(processes)) / float64(m.Makespan)
	}
	return m, nil
}

// ForPID returns the metrics of one process.
func (m *Metrics) ForPID(pid int) (ProcessMetrics, bool) {
	for _, pm := range m.Processes {
		if pm.PID == pid {
			return pm, true
		}
	}
	return ProcessMetrics{}, false
}
