package trace

// TraceSummary aggregates statistics from an ExecutionTrace.
type TraceSummary struct {
	TotalTicks      int         `json:"total_ticks" yaml:"total_ticks"`
	BusyTicks       int         `json:"busy_ticks" yaml:"busy_ticks"`
	IdleTicks       int         `json:"idle_ticks" yaml:"idle_ticks"`
	IOTicks         int         `json:"io_ticks" yaml:"io_ticks"`
	ContextSwitches int         `json:"context_switches" yaml:"context_switches"` // process-to-different-process handoffs
	CPUUtilization  float64     `json:"cpu_utilization" yaml:"cpu_utilization"`   // busy / total, 0 for an empty trace
	TicksPerProcess map[int]int `json:"ticks_per_process" yaml:"ticks_per_process"`
}

// Summarize computes aggregate statistics from an ExecutionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(et *ExecutionTrace) *TraceSummary {
	summary := &TraceSummary{
		TicksPerProcess: make(map[int]int),
	}
	if et == nil {
		return summary
	}

	summary.TotalTicks = len(et.Ticks)
	lastPID := -1
	hasLast := false
	for _, r := range et.Ticks {
		switch r.Kind {
		case TickProcess:
			summary.BusyTicks++
			summary.TicksPerProcess[r.PID]++
			if hasLast && r.PID != lastPID {
				summary.ContextSwitches++
			}
			lastPID, hasLast = r.PID, true
		case TickIO:
			summary.IOTicks++
		default:
			summary.IdleTicks++
		}
	}

	if summary.TotalTicks > 0 {
		summary.CPUUtilization = float64(summary.BusyTicks) / float64(summary.TotalTicks)
	}
	return summary
}
