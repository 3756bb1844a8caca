package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/cpusched/sim/internal/testutil"
)

func finished(pid int, arrival int64, burst int, start, finish int64) *Process {
	p := &Process{PID: pid, ArrivalTime: arrival, BurstTime: burst}
	p.Reset()
	p.State = StateDone
	p.RemainingTime = 0
	p.StartTime = start
	p.FinishTime = finish
	return p
}

func TestNewMetrics_Aggregates(t *testing.T) {
	// GIVEN three completed processes with waiting times 0, 3, 5
	procs := []*Process{
		finished(1, 0, 4, 0, 4),
		finished(2, 1, 3, 4, 7),
		finished(3, 2, 2, 7, 9),
	}

	// WHEN metrics are derived
	m, err := NewMetrics(procs)
	require.NoError(t, err)

	// THEN per-process rows keep input order
	require.Len(t, m.Processes, 3)
	assert.Equal(t, 1, m.Processes[0].PID)
	assert.Equal(t, int64(5), m.Processes[2].Waiting)
	assert.Equal(t, int64(7), m.Processes[2].Turnaround)
	assert.Equal(t, int64(3), m.Processes[1].Response)

	// AND the aggregates follow
	testutil.AssertFloat64Equal(t, "AvgWaiting", 8.0/3.0, m.AvgWaiting, 1e-9)
	testutil.AssertFloat64Equal(t, "AvgTurnaround", 17.0/3.0, m.AvgTurnaround, 1e-9)
	testutil.AssertFloat64Equal(t, "AvgResponse", 8.0/3.0, m.AvgResponse, 1e-9)
	assert.Equal(t, int64(5), m.MaxWaiting)
	assert.Equal(t, int64(9), m.Makespan)
	testutil.AssertFloat64Equal(t, "Throughput", 3.0/9.0, m.Throughput, 1e-9)
	assert.Greater(t, m.StdDevWaiting, 0.0)
	assert.Equal(t, 5.0, m.P90Waiting)
}

func TestNewMetrics_SingleProcess_NoStdDev(t *testing.T) {
	m, err := NewMetrics([]*Process{finished(1, 0, 2, 0, 2)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.StdDevWaiting)
	assert.Equal(t, 0.0, m.AvgWaiting)
}

func TestNewMetrics_Errors(t *testing.T) {
	_, err := NewMetrics(nil)
	assert.ErrorIs(t, err, ErrEmptyProcessSet)

	running := finished(1, 0, 2, 0, 0)
	running.State = StateRunning
	_, err = NewMetrics([]*Process{running})
	assert.Error(t, err)
}

func TestMetrics_ForPID_Missing(t *testing.T) {
	m, err := NewMetrics([]*Process{finished(1, 0, 2, 0, 2)})
	require.NoError(t, err)
	_, ok := m.ForPID(42)
	assert.False(t, ok)
}

func TestMetrics_JSONFieldNames(t *testing.T) {
	m, err := NewMetrics([]*Process{finished(1, 0, 2, 0, 2)})
	require.NoError(t, err)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	for _, key := range []string{"avg_waiting_time", "avg_turnaround_time", "makespan", "waiting_time", "turnaround_time"} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
}
