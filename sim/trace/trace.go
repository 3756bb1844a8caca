package trace

// ExecutionTrace collects one record per simulated tick, in order.
// A trace belongs to a single policy run; a fresh run starts a fresh trace.
type ExecutionTrace struct {
	Ticks []TickRecord `json:"ticks" yaml:"ticks"`
}

// NewExecutionTrace creates an ExecutionTrace ready for recording.
func NewExecutionTrace() *ExecutionTrace {
	return &ExecutionTrace{
		Ticks: make([]TickRecord, 0),
	}
}

// RecordProcess appends a tick during which pid held the CPU.
func (et *ExecutionTrace) RecordProcess(time int64, pid int) {
	et.Ticks = append(et.Ticks, TickRecord{Time: time, Kind: TickProcess, PID: pid})
}

// RecordIdle appends an idle tick.
func (et *ExecutionTrace) RecordIdle(time int64) {
	et.Ticks = append(et.Ticks, TickRecord{Time: time, Kind: TickIdle})
}

// RecordIO appends a tick during which the CPU waited on blocked processes.
func (et *ExecutionTrace) RecordIO(time int64) {
	et.Ticks = append(et.Ticks, TickRecord{Time: time, Kind: TickIO})
}

// Len returns the number of recorded ticks.
func (et *ExecutionTrace) Len() int {
	if et == nil {
		return 0
	}
	return len(et.Ticks)
}

// Labels returns the per-tick labels ("P1", "IDLE", "IO") in order.
func (et *ExecutionTrace) Labels() []string {
	if et == nil {
		return nil
	}
	labels := make([]string, len(et.Ticks))
	for i, r := range et.Ticks {
		labels[i] = r.Label()
	}
	return labels
}

// Segments collapses consecutive ticks with the same label into spans.
func (et *ExecutionTrace) Segments() []Segment {
	if et == nil {
		return nil
	}
	var segs []Segment
	for _, r := range et.Ticks {
		label := r.Label()
		if n := len(segs); n > 0 && segs[n-1].Label == label && segs[n-1].End == r.Time {
			segs[n-1].End = r.Time + 1
			continue
		}
		segs = append(segs, Segment{Label: label, Kind: r.Kind, PID: r.PID, Start: r.Time, End: r.Time + 1})
	}
	return segs
}
