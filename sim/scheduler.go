package sim

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPolicy is returned by NewPolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown policy")

// ErrInvalidQuantum is returned when round robin is configured with a quantum < 1.
var ErrInvalidQuantum = errors.New("invalid quantum")

// DefaultQuantum is the round robin time slice used when none is configured.
const DefaultQuantum = 2

// Selector picks the next process to run from the ready queue.
// Implementations MUST NOT modify the queue or the processes; the engine
// decides whether the pick is removed.
type Selector interface {
	Select(ready *ReadyQueue) *Process
}

// FIFOSelector picks the head of the queue (FCFS, round robin).
type FIFOSelector struct{}

func (f *FIFOSelector) Select(ready *ReadyQueue) *Process {
	return ready.Peek()
}

// ShortestBurstSelector picks the smallest total burst time (non-preemptive SJF).
type ShortestBurstSelector struct{}

func (s *ShortestBurstSelector) Select(ready *ReadyQueue) *Process {
	return ready.Best(func(a, b *Process) bool {
		return a.BurstTime < b.BurstTime
	})
}

// ShortestRemainingSelector picks the smallest remaining time (SRTF).
type ShortestRemainingSelector struct{}

func (s *ShortestRemainingSelector) Select(ready *ReadyQueue) *Process {
	return ready.Best(func(a, b *Process) bool {
		return a.RemainingTime < b.RemainingTime
	})
}

// PrioritySelector picks the lowest priority value (most urgent).
type PrioritySelector struct{}

func (p *PrioritySelector) Select(ready *ReadyQueue) *Process {
	return ready.Best(func(a, b *Process) bool {
		return a.Priority < b.Priority
	})
}

// Dispatch controls how long a selected process keeps the CPU before the
// engine makes the next scheduling decision.
type Dispatch int

const (
	// DispatchOneTick re-selects after every tick (preemptive variants).
	DispatchOneTick Dispatch = iota
	// DispatchRunToEvent runs until the next I/O trigger or completion.
	DispatchRunToEvent
	// DispatchQuantum runs for at most Policy.Quantum ticks.
	DispatchQuantum
)

func (d Dispatch) String() string {
	switch d {
	case DispatchOneTick:
		return "one-tick"
	case DispatchRunToEvent:
		return "run-to-event"
	case DispatchQuantum:
		return "quantum"
	default:
		return fmt.Sprintf("dispatch(%d)", int(d))
	}
}

// Policy pairs a selection rule with a dispatch granularity.
type Policy struct {
	Name     string
	Title    string
	Selector Selector
	Dispatch Dispatch
	Quantum  int // only used by DispatchQuantum
}

// budget returns the number of ticks a dispatch may run; 0 means unbounded.
func (p Policy) budget() int {
	switch p.Dispatch {
	case DispatchOneTick:
		return 1
	case DispatchQuantum:
		return p.Quantum
	default:
		return 0
	}
}

// Preemptive reports whether the running process is re-evaluated every tick.
func (p Policy) Preemptive() bool {
	return p.Dispatch == DispatchOneTick
}

// Policy names.
const (
	PolicyFCFS               = "fcfs"
	PolicySJF                = "sjf"
	PolicySRTF               = "srtf"
	PolicyPriority           = "priority"
	PolicyPriorityPreemptive = "priority-preemptive"
	PolicyRoundRobin         = "rr"
)

// policyAliases maps accepted alternate spellings to canonical names.
var policyAliases = map[string]string{
	"":               PolicyFCFS,
	"sjf-preemptive": PolicySRTF,
	"round-robin":    PolicyRoundRobin,
}

// policyTitles holds the display names, keyed by canonical name.
var policyTitles = map[string]string{
	PolicyFCFS:               "FCFS",
	PolicySJF:                "SJF (Non-Preemptive)",
	PolicySRTF:               "SJF (Preemptive)",
	PolicyPriority:           "Priority (Non-Preemptive)",
	PolicyPriorityPreemptive: "Priority (Preemptive)",
	PolicyRoundRobin:         "Round Robin",
}

// PolicyNames lists the canonical policy names in menu order.
var PolicyNames = []string{
	PolicyFCFS,
	PolicySJF,
	PolicySRTF,
	PolicyPriority,
	PolicyPriorityPreemptive,
	PolicyRoundRobin,
}

// IsValidPolicy returns true if name is a canonical policy name or an alias.
func IsValidPolicy(name string) bool {
	_, ok := policyTitles[canonicalPolicy(name)]
	return ok
}

func canonicalPolicy(name string) string {
	if c, ok := policyAliases[name]; ok {
		return c
	}
	return name
}

// PolicyForChoice maps the interactive menu numbering (1..6) to a policy name.
func PolicyForChoice(choice int) (string, bool) {
	if choice < 1 || choice > len(PolicyNames) {
		return "", false
	}
	return PolicyNames[choice-1], true
}

// PolicyTitle returns the display name of a policy without building it,
// so no quantum is needed.
func PolicyTitle(name string) (string, bool) {
	title, ok := policyTitles[canonicalPolicy(name)]
	return title, ok
}

// ValidPolicyNames returns the sorted canonical names, for help text and errors.
func ValidPolicyNames() []string {
	names := append([]string(nil), PolicyNames...)
	sort.Strings(names)
	return names
}

// NewPolicy creates a Policy by name. quantum is only consulted for round
// robin, where values < 1 are rejected; pass DefaultQuantum for the
// reference behavior.
func NewPolicy(name string, quantum int) (Policy, error) {
	title, ok := PolicyTitle(name)
	if !ok {
		return Policy{}, fmt.Errorf("%w %q; valid: %v", ErrUnknownPolicy, name, ValidPolicyNames())
	}
	canon := canonicalPolicy(name)
	p := Policy{Name: canon, Title: title}
	switch canon {
	case PolicyFCFS:
		p.Selector, p.Dispatch = &FIFOSelector{}, DispatchRunToEvent
	case PolicySJF:
		p.Selector, p.Dispatch = &ShortestBurstSelector{}, DispatchRunToEvent
	case PolicySRTF:
		p.Selector, p.Dispatch = &ShortestRemainingSelector{}, DispatchOneTick
	case PolicyPriority:
		p.Selector, p.Dispatch = &PrioritySelector{}, DispatchRunToEvent
	case PolicyPriorityPreemptive:
		p.Selector, p.Dispatch = &PrioritySelector{}, DispatchOneTick
	case PolicyRoundRobin:
		if quantum < 1 {
			return Policy{}, fmt.Errorf("%w: round robin quantum must be >= 1, got %d", ErrInvalidQuantum, quantum)
		}
		p.Selector, p.Dispatch, p.Quantum = &FIFOSelector{}, DispatchQuantum, quantum
	default:
		panic(fmt.Sprintf("unhandled policy %q", canon))
	}
	return p, nil
}
