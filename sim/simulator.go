// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpusched/sim/trace"
)

// ErrStalled is returned when a run exceeds its tick cap without finishing.
var ErrStalled = errors.New("simulation stalled")

// Result bundles everything a finished run produces.
type Result struct {
	Policy    Policy
	Processes *ProcessSet // finalized records, owned by this result
	Trace     *trace.ExecutionTrace
	Metrics   *Metrics
	Summary   *trace.TraceSummary
	EndTime   int64 // clock when the last process completed
}

// Simulator is the core object that holds the simulation clock, the
// containers and the tick loop for one policy run.
// It owns a private reset copy of the process set; the caller's set is never touched.
type Simulator struct {
	Clock    int64
	MaxTicks int64
	Policy   Policy

	Processes *ProcessSet
	ReadyQ    *ReadyQueue
	Blocked   *BlockedList
	Trace     *trace.ExecutionTrace

	running   *Process // holder of the current dispatch, nil between dispatches
	budget    int      // ticks left in the current dispatch; 0 = unbounded
	preempted *Process // quantum expired last tick; re-enqueued after admissions
	completed int
	arrivals  int // index into pending, sorted by arrival
	pending   []*Process
}

// NewSimulator validates its inputs and prepares a run of policy over a fresh copy of set.
func NewSimulator(set *ProcessSet, policy Policy, cfg EngineConfig) (*Simulator, error) {
	if set == nil || set.Len() == 0 {
		return nil, ErrEmptyProcessSet
	}
	if policy.Selector == nil {
		return nil, fmt.Errorf("%w: policy %q has no selector", ErrUnknownPolicy, policy.Name)
	}
	if policy.Dispatch == DispatchQuantum && policy.Quantum < 1 {
		return nil, fmt.Errorf("%w: round robin quantum must be >= 1, got %d", ErrInvalidQuantum, policy.Quantum)
	}
	if cfg.MaxTicks < 0 {
		return nil, fmt.Errorf("max ticks must be >= 0, got %d", cfg.MaxTicks)
	}

	procs := set.Clone()
	maxTicks := cfg.MaxTicks
	if maxTicks == 0 {
		maxTicks = procs.tickBound()
	}

	s := &Simulator{
		Clock:     0,
		MaxTicks:  maxTicks,
		Policy:    policy,
		Processes: procs,
		ReadyQ:    &ReadyQueue{},
		Blocked:   &BlockedList{},
		Trace:     trace.NewExecutionTrace(),
	}
	s.pending = arrivalOrder(procs.Processes())
	return s, nil
}

// Run drives the tick loop until every process is Done.
// Returns ErrStalled if MaxTicks elapse first.
func (sim *Simulator) Run() (*Result, error) {
	n := sim.Processes.Len()
	logrus.Infof("[tick %07d] Starting %s with %d processes (max ticks %d)", sim.Clock, sim.Policy.Title, n, sim.MaxTicks)

	for sim.completed < n {
		if sim.Clock >= sim.MaxTicks {
			return nil, fmt.Errorf("%w: %s reached %d ticks with %d of %d processes done",
				ErrStalled, sim.Policy.Name, sim.Clock, sim.completed, n)
		}
		sim.Step()
	}

	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)

	metrics, err := NewMetrics(sim.Processes.Processes())
	if err != nil {
		return nil, err
	}
	return &Result{
		Policy:    sim.Policy,
		Processes: sim.Processes,
		Trace:     sim.Trace,
		Metrics:   metrics,
		Summary:   trace.Summarize(sim.Trace),
		EndTime:   sim.Clock,
	}, nil
}

// Step simulates exactly one tick: admission, I/O advance, selection and
// the execution of at most one CPU tick.
func (sim *Simulator) Step() {
	now := sim.Clock

	sim.admit(now)

	for _, p := range sim.Blocked.Advance(now) {
		p.State = StateReady
		sim.ReadyQ.Enqueue(p)
		logrus.Debugf("[tick %07d] %s finished I/O", now, p.Label())
	}

	// A slice that expired last tick goes behind anything admitted or
	// unblocked at this boundary.
	if sim.preempted != nil {
		sim.ReadyQ.Enqueue(sim.preempted)
		sim.preempted = nil
	}

	if sim.running == nil {
		sim.dispatch(now)
	}

	if sim.running == nil {
		if sim.completed == sim.Processes.Len() {
			return
		}
		if sim.Blocked.Len() > 0 {
			sim.Trace.RecordIO(now)
		} else {
			sim.Trace.RecordIdle(now)
		}
		sim.Clock++
		return
	}

	sim.execute(now)
}

// admit moves every process whose arrival time has come into the ready queue.
func (sim *Simulator) admit(now int64) {
	for sim.arrivals < len(sim.pending) && sim.pending[sim.arrivals].ArrivalTime <= now {
		p := sim.pending[sim.arrivals]
		sim.arrivals++
		p.State = StateReady
		sim.ReadyQ.Enqueue(p)
		logrus.Debugf("[tick %07d] << Arrival: %s", now, p.Label())
	}
}

// dispatch selects the next process and opens a new dispatch for it.
// Processes that reach the CPU with nothing left to run (their last I/O
// trigger coincided with their final tick) complete without consuming a tick.
func (sim *Simulator) dispatch(now int64) {
	for sim.ReadyQ.Len() > 0 {
		p := sim.Policy.Selector.Select(sim.ReadyQ)
		if p == nil {
			return
		}
		if p.RemainingTime == 0 {
			sim.ReadyQ.Remove(p)
			sim.finish(p, now)
			continue
		}
		if !sim.Policy.Preemptive() {
			sim.ReadyQ.Remove(p)
		}
		if p.StartTime < 0 {
			p.StartTime = now
		}
		sim.running = p
		sim.budget = sim.Policy.budget()
		logrus.Debugf("[tick %07d] Dispatch %s (%s, ready=%v)", now, p.Label(), sim.Policy.Dispatch, sim.ReadyQ)
		return
	}
}

// execute grants one CPU tick to the running process and applies the
// post-tick checks: I/O trigger first, then completion, then budget.
func (sim *Simulator) execute(now int64) {
	p := sim.running
	p.State = StateRunning
	p.RemainingTime--
	p.CurrentCPUTime++
	sim.Trace.RecordProcess(now, p.PID)
	sim.Clock++

	if io, ok := p.nextIO(); ok && p.CurrentCPUTime == io.At {
		p.IOIndex++
		p.State = StateBlocked
		sim.Blocked.Block(p, io.Duration, sim.Clock)
		sim.release(p)
		logrus.Debugf("[tick %07d] %s blocked on I/O for %d ticks", now, p.Label(), io.Duration)
		return
	}

	if p.RemainingTime == 0 {
		sim.release(p)
		sim.finish(p, sim.Clock)
		return
	}

	if sim.budget > 0 {
		sim.budget--
		if sim.budget == 0 {
			p.State = StateReady
			sim.running = nil
			if sim.Policy.Dispatch == DispatchQuantum {
				sim.preempted = p
			}
		}
	}
}

// release ends the current dispatch; preemptive policies also drop the
// process from the ready queue, where it stayed while running.
func (sim *Simulator) release(p *Process) {
	if sim.Policy.Preemptive() {
		sim.ReadyQ.Remove(p)
	}
	sim.running = nil
}

func (sim *Simulator) finish(p *Process, at int64) {
	p.State = StateDone
	p.FinishTime = at
	sim.completed++
	logrus.Debugf("[tick %07d] Finished %s: turnaround=%d waiting=%d", at, p.Label(), p.Turnaround(), p.Waiting())
}

// arrivalOrder returns the processes sorted by arrival time, keeping input
// order among equal arrivals.
func arrivalOrder(procs []*Process) []*Process {
	out := append([]*Process(nil), procs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ArrivalTime < out[j].ArrivalTime
	})
	return out
}

// Simulate is a convenience wrapper: build the policy, run it, return the result.
func Simulate(set *ProcessSet, policyName string, cfg EngineConfig) (*Result, error) {
	policy, err := NewPolicy(policyName, cfg.Quantum)
	if err != nil {
		return nil, err
	}
	s, err := NewSimulator(set, policy, cfg)
	if err != nil {
		return nil, err
	}
	return s.Run()
}
