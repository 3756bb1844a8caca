// Package store persists simulation runs so they can be listed and replayed.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
	"github.com/inference-sim/cpusched/sim/workload"
)

// ErrNotFound is returned by GetRun for unknown ids.
var ErrNotFound = errors.New("run not found")

// Run is one stored simulation: the inputs, the policy and the full result.
type Run struct {
	ID            string                   `json:"id"`
	Label         string                   `json:"label,omitempty"`
	Policy        string                   `json:"policy"`
	Quantum       int                      `json:"quantum,omitempty"`
	ProcessCount  int                      `json:"process_count"`
	AvgWaiting    float64                  `json:"avg_waiting_time"`
	AvgTurnaround float64                  `json:"avg_turnaround_time"`
	Makespan      int64                    `json:"makespan"`
	Processes     *workload.ProcessSetSpec `json:"processes,omitempty"`
	Result        *report.RunDocument      `json:"result,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

// ListOptions pages through ListRuns.
type ListOptions struct {
	Limit  int
	Offset int
	Policy string // optional filter
}

// Clamp bounds Limit to 1..100 (default 20) and Offset to >= 0.
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// Store defines the persistence layer for simulation runs.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, opts ListOptions) ([]*Run, int, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// NewRun builds a storable record from a finished result and the set it ran on.
func NewRun(set *sim.ProcessSet, res *sim.Result, label string) *Run {
	return &Run{
		ID:            "run_" + uuid.New().String(),
		Label:         label,
		Policy:        res.Policy.Name,
		Quantum:       res.Policy.Quantum,
		ProcessCount:  set.Len(),
		AvgWaiting:    res.Metrics.AvgWaiting,
		AvgTurnaround: res.Metrics.AvgTurnaround,
		Makespan:      res.Metrics.Makespan,
		Processes:     workload.FromProcessSet(set),
		Result:        report.NewRunDocument(res),
		CreatedAt:     time.Now().UTC(),
	}
}
