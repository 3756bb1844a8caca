// Package trace provides the tick-by-tick execution trace of a scheduling run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "fmt"

// TickKind classifies what the CPU did during one tick.
type TickKind string

const (
	// TickProcess means a process held the CPU.
	TickProcess TickKind = "process"
	// TickIdle means nothing was ready and nothing was blocked.
	TickIdle TickKind = "idle"
	// TickIO means nothing was ready but at least one process was blocked on I/O.
	TickIO TickKind = "io"
)

// Labels used for non-process ticks.
const (
	LabelIdle = "IDLE"
	LabelIO   = "IO"
)

// TickRecord captures a single tick.
type TickRecord struct {
	Time int64    `json:"time" yaml:"time"`
	Kind TickKind `json:"kind" yaml:"kind"`
	PID  int      `json:"pid,omitempty" yaml:"pid,omitempty"` // set only for TickProcess
}

// Label returns "P<pid>", "IDLE" or "IO".
func (r TickRecord) Label() string {
	switch r.Kind {
	case TickProcess:
		return fmt.Sprintf("P%d", r.PID)
	case TickIO:
		return LabelIO
	default:
		return LabelIdle
	}
}

// Segment is a maximal run of consecutive ticks with the same label, the unit
// a Gantt chart draws.
type Segment struct {
	Label string   `json:"label" yaml:"label"`
	Kind  TickKind `json:"kind" yaml:"kind"`
	PID   int      `json:"pid,omitempty" yaml:"pid,omitempty"`
	Start int64    `json:"start" yaml:"start"`
	End   int64    `json:"end" yaml:"end"` // exclusive
}

// Len returns the number of ticks covered by the segment.
func (s Segment) Len() int64 {
	return s.End - s.Start
}
