// Defines the Process struct that models a single simulated process.
// Holds the immutable input attributes (arrival, burst, priority, I/O profile)
// next to the run state the engine mutates while a policy is being simulated.

package sim

import (
	"errors"
	"fmt"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNotArrived ProcessState = "not-arrived"
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateBlocked    ProcessState = "blocked"
	StateDone       ProcessState = "done"
)

var (
	// ErrInvalidProcess is returned when process inputs fail validation.
	ErrInvalidProcess = errors.New("invalid process")
	// ErrDuplicatePID is returned when two processes in a set share a pid.
	ErrDuplicatePID = errors.New("duplicate pid")
	// ErrEmptyProcessSet is returned when a simulation is requested for zero processes.
	ErrEmptyProcessSet = errors.New("empty process set")
)

// IOBurst is a synchronous I/O request issued once the process has
// accumulated At ticks of CPU time. The process then stays blocked for
// Duration ticks.
type IOBurst struct {
	At       int `json:"at" yaml:"at"`
	Duration int `json:"duration" yaml:"duration"`
}

// Process models a single process's lifecycle in the simulation.
type Process struct {
	PID         int       // Unique identifier, stable for the lifetime of a simulation
	ArrivalTime int64     // Tick at which the process becomes Ready
	BurstTime   int       // Total CPU ticks needed, excluding I/O waits
	Priority    int       // Lower value = more urgent
	IO          []IOBurst // Ascending by At; each fires at most once

	State          ProcessState
	RemainingTime  int   // CPU ticks still owed; reaches 0 exactly once
	CurrentCPUTime int   // CPU ticks granted so far
	IOIndex        int   // Cursor into IO, 0..len(IO)
	StartTime      int64 // Tick of first dispatch, -1 until dispatched
	FinishTime     int64 // Tick at which the process completed
}

// NewProcess validates the inputs and returns a process in its reset state.
// The I/O profile is copied so later edits by the caller cannot leak in.
func NewProcess(pid int, arrival int64, burst int, priority int, io []IOBurst) (*Process, error) {
	p := &Process{
		PID:         pid,
		ArrivalTime: arrival,
		BurstTime:   burst,
		Priority:    priority,
	}
	if len(io) > 0 {
		p.IO = append([]IOBurst(nil), io...)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Reset()
	return p, nil
}

// Validate checks the immutable inputs. Malformed profiles are rejected, never clamped.
func (p *Process) Validate() error {
	if p.ArrivalTime < 0 {
		return fmt.Errorf("%w: P%d arrival_time must be >= 0, got %d", ErrInvalidProcess, p.PID, p.ArrivalTime)
	}
	if p.BurstTime < 1 {
		return fmt.Errorf("%w: P%d burst_time must be >= 1, got %d", ErrInvalidProcess, p.PID, p.BurstTime)
	}
	prev := 0
	for i, b := range p.IO {
		if b.At <= 0 || b.At >= p.BurstTime {
			return fmt.Errorf("%w: P%d io[%d] trigger %d outside (0, %d)", ErrInvalidProcess, p.PID, i, b.At, p.BurstTime)
		}
		if b.At <= prev {
			return fmt.Errorf("%w: P%d io[%d] trigger %d not after previous trigger %d", ErrInvalidProcess, p.PID, i, b.At, prev)
		}
		if b.Duration < 1 {
			return fmt.Errorf("%w: P%d io[%d] duration must be >= 1, got %d", ErrInvalidProcess, p.PID, i, b.Duration)
		}
		prev = b.At
	}
	return nil
}

// Reset re-initializes every mutable field so the same inputs can be replayed
// under another policy.
func (p *Process) Reset() {
	p.State = StateNotArrived
	p.RemainingTime = p.BurstTime
	p.CurrentCPUTime = 0
	p.IOIndex = 0
	p.StartTime = -1
	p.FinishTime = 0
}

// clone returns a reset deep copy.
func (p *Process) clone() *Process {
	c := *p
	if len(p.IO) > 0 {
		c.IO = append([]IOBurst(nil), p.IO...)
	}
	c.Reset()
	return &c
}

// nextIO returns the next unconsumed I/O request, if any.
func (p *Process) nextIO() (IOBurst, bool) {
	if p.IOIndex >= len(p.IO) {
		return IOBurst{}, false
	}
	return p.IO[p.IOIndex], true
}

// TotalIO returns the sum of all I/O durations in the profile.
func (p *Process) TotalIO() int {
	total := 0
	for _, b := range p.IO {
		total += b.Duration
	}
	return total
}

// Done reports whether the process has completed.
func (p *Process) Done() bool {
	return p.State == StateDone
}

// Turnaround returns finish - arrival. Only meaningful once Done.
func (p *Process) Turnaround() int64 {
	return p.FinishTime - p.ArrivalTime
}

// Waiting returns turnaround - burst. Only meaningful once Done.
func (p *Process) Waiting() int64 {
	return p.Turnaround() - int64(p.BurstTime)
}

// ResponseTime returns the delay between arrival and first dispatch.
func (p *Process) ResponseTime() int64 {
	if p.StartTime < 0 {
		return 0
	}
	return p.StartTime - p.ArrivalTime
}

// Label returns the chart label for the process ("P3").
func (p *Process) Label() string {
	return fmt.Sprintf("P%d", p.PID)
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (PID: %d, State: %s, Remaining: %d, ArrivalTime: %d)", p.PID, p.State, p.RemainingTime, p.ArrivalTime)
}

// ProcessSet is an ordered, pid-unique collection of processes.
// A Simulator never runs on the caller's set directly; it runs on Clone().
type ProcessSet struct {
	processes []*Process
}

// NewProcessSet validates every process and rejects duplicate pids.
func NewProcessSet(processes ...*Process) (*ProcessSet, error) {
	if len(processes) == 0 {
		return nil, ErrEmptyProcessSet
	}
	seen := make(map[int]bool, len(processes))
	for _, p := range processes {
		if p == nil {
			return nil, fmt.Errorf("%w: nil process", ErrInvalidProcess)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.PID] {
			return nil, fmt.Errorf("%w: P%d", ErrDuplicatePID, p.PID)
		}
		seen[p.PID] = true
	}
	return &ProcessSet{processes: processes}, nil
}

// Len returns the number of processes in the set.
func (ps *ProcessSet) Len() int {
	return len(ps.processes)
}

// Processes returns the set contents in input order.
// The returned slice is the set's internal storage and MUST NOT be appended to.
func (ps *ProcessSet) Processes() []*Process {
	return ps.processes
}

// Clone returns a deep copy with all run state reset.
func (ps *ProcessSet) Clone() *ProcessSet {
	out := make([]*Process, len(ps.processes))
	for i, p := range ps.processes {
		out[i] = p.clone()
	}
	return &ProcessSet{processes: out}
}

// Get returns the process with the given pid, or nil.
func (ps *ProcessSet) Get(pid int) *Process {
	for _, p := range ps.processes {
		if p.PID == pid {
			return p
		}
	}
	return nil
}

// tickBound is the longest any valid schedule of this set can take:
// idle ticks only precede the last arrival, every other tick is CPU or I/O.
func (ps *ProcessSet) tickBound() int64 {
	var maxArrival, total int64
	for _, p := range ps.processes {
		maxArrival = max(maxArrival, p.ArrivalTime)
		total += int64(p.BurstTime) + int64(p.TotalIO())
	}
	return maxArrival + total + 1
}
