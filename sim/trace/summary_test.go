package trace

import (
	"math"
	"testing"
)

func TestSummarize_NilTrace_ReturnsZeroSummary(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalTicks != 0 || summary.CPUUtilization != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if summary.TicksPerProcess == nil {
		t.Error("TicksPerProcess should be non-nil")
	}
}

func TestSummarize_CountsKinds(t *testing.T) {
	// GIVEN IDLE P1 P1 IO P2 P1 P1
	summary := Summarize(sample())

	// THEN every tick is classified once
	if summary.TotalTicks != 7 {
		t.Errorf("TotalTicks: got %d, want 7", summary.TotalTicks)
	}
	if summary.BusyTicks != 5 || summary.IdleTicks != 1 || summary.IOTicks != 1 {
		t.Errorf("busy/idle/io: got %d/%d/%d, want 5/1/1", summary.BusyTicks, summary.IdleTicks, summary.IOTicks)
	}
	if summary.TicksPerProcess[1] != 4 || summary.TicksPerProcess[2] != 1 {
		t.Errorf("TicksPerProcess: got %v", summary.TicksPerProcess)
	}
	if math.Abs(summary.CPUUtilization-5.0/7.0) > 1e-12 {
		t.Errorf("CPUUtilization: got %v, want %v", summary.CPUUtilization, 5.0/7.0)
	}
}

func TestSummarize_ContextSwitches_IgnoreGaps(t *testing.T) {
	// GIVEN P1 IO P1 P2 IDLE P2 P1
	et := NewExecutionTrace()
	et.RecordProcess(0, 1)
	et.RecordIO(1)
	et.RecordProcess(2, 1)
	et.RecordProcess(3, 2)
	et.RecordIdle(4)
	et.RecordProcess(5, 2)
	et.RecordProcess(6, 1)

	// THEN only the P1→P2 and P2→P1 handoffs count
	if got := Summarize(et).ContextSwitches; got != 2 {
		t.Errorf("ContextSwitches: got %d, want 2", got)
	}
}
