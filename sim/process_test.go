package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessState_Constants_HaveExpectedStringValues(t *testing.T) {
	assert.Equal(t, ProcessState("not-arrived"), StateNotArrived)
	assert.Equal(t, ProcessState("ready"), StateReady)
	assert.Equal(t, ProcessState("running"), StateRunning)
	assert.Equal(t, ProcessState("blocked"), StateBlocked)
	assert.Equal(t, ProcessState("done"), StateDone)
}

func TestProcess_String_IncludesState(t *testing.T) {
	p := Process{PID: 7, State: StateBlocked}
	assert.Contains(t, p.String(), "blocked")
	assert.Contains(t, p.String(), "PID: 7")
}

func TestNewProcess_ValidInputs_ResetState(t *testing.T) {
	// GIVEN valid inputs with one I/O request
	io := []IOBurst{{At: 2, Duration: 3}}

	// WHEN NewProcess is called
	p, err := NewProcess(3, 5, 6, 1, io)

	// THEN the process is in its reset state
	require.NoError(t, err)
	assert.Equal(t, 3, p.PID)
	assert.Equal(t, int64(5), p.ArrivalTime)
	assert.Equal(t, StateNotArrived, p.State)
	assert.Equal(t, 6, p.RemainingTime)
	assert.Equal(t, 0, p.CurrentCPUTime)
	assert.Equal(t, 0, p.IOIndex)
	assert.Equal(t, int64(-1), p.StartTime)
	assert.Equal(t, 3, p.TotalIO())
	assert.Equal(t, "P3", p.Label())

	// AND the profile is a copy of the caller's slice
	io[0].Duration = 99
	assert.Equal(t, 3, p.IO[0].Duration)
}

func TestNewProcess_InvalidInputs_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		arrival int64
		burst   int
		io      []IOBurst
	}{
		{"negative arrival", -1, 4, nil},
		{"zero burst", 0, 0, nil},
		{"trigger at zero", 0, 4, []IOBurst{{At: 0, Duration: 1}}},
		{"trigger at burst", 0, 4, []IOBurst{{At: 4, Duration: 1}}},
		{"trigger beyond burst", 0, 4, []IOBurst{{At: 7, Duration: 1}}},
		{"zero duration", 0, 4, []IOBurst{{At: 2, Duration: 0}}},
		{"unsorted triggers", 0, 6, []IOBurst{{At: 3, Duration: 1}, {At: 2, Duration: 1}}},
		{"repeated trigger", 0, 6, []IOBurst{{At: 2, Duration: 1}, {At: 2, Duration: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProcess(1, tt.arrival, tt.burst, 0, tt.io)
			assert.True(t, errors.Is(err, ErrInvalidProcess), "got %v", err)
		})
	}
}

func TestProcess_Timings_AfterCompletion(t *testing.T) {
	// GIVEN a process that arrived at 2, first ran at 4 and finished at 10
	p, err := NewProcess(1, 2, 5, 0, nil)
	require.NoError(t, err)
	p.StartTime = 4
	p.FinishTime = 10
	p.State = StateDone

	// THEN turnaround, waiting and response follow from those timestamps
	assert.True(t, p.Done())
	assert.Equal(t, int64(8), p.Turnaround())
	assert.Equal(t, int64(3), p.Waiting())
	assert.Equal(t, int64(2), p.ResponseTime())
}

func TestProcess_ResponseTime_NeverDispatched_IsZero(t *testing.T) {
	p, err := NewProcess(1, 2, 5, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.ResponseTime())
}

func TestNewProcessSet_Errors(t *testing.T) {
	a, _ := NewProcess(1, 0, 2, 0, nil)
	b, _ := NewProcess(1, 3, 2, 0, nil)

	_, err := NewProcessSet()
	assert.ErrorIs(t, err, ErrEmptyProcessSet)

	_, err = NewProcessSet(a, nil)
	assert.ErrorIs(t, err, ErrInvalidProcess)

	_, err = NewProcessSet(a, b)
	assert.ErrorIs(t, err, ErrDuplicatePID)

	bad := &Process{PID: 9, BurstTime: 0}
	_, err = NewProcessSet(bad)
	assert.ErrorIs(t, err, ErrInvalidProcess)
}

func TestProcessSet_Clone_IsDeepAndReset(t *testing.T) {
	// GIVEN a set whose process has run state
	p, _ := NewProcess(1, 0, 4, 0, []IOBurst{{At: 1, Duration: 2}})
	set, err := NewProcessSet(p)
	require.NoError(t, err)
	p.State = StateDone
	p.RemainingTime = 0
	p.IOIndex = 1

	// WHEN the set is cloned
	c := set.Clone()

	// THEN the copy is reset and does not share storage
	cp := c.Get(1)
	require.NotNil(t, cp)
	assert.NotSame(t, p, cp)
	assert.Equal(t, StateNotArrived, cp.State)
	assert.Equal(t, 4, cp.RemainingTime)
	assert.Equal(t, 0, cp.IOIndex)
	cp.IO[0].Duration = 50
	assert.Equal(t, 2, p.IO[0].Duration)
}

func TestProcessSet_Get_Missing_ReturnsNil(t *testing.T) {
	p, _ := NewProcess(1, 0, 4, 0, nil)
	set, _ := NewProcessSet(p)
	assert.Nil(t, set.Get(2))
	assert.Equal(t, 1, set.Len())
}

func TestProcessSet_TickBound(t *testing.T) {
	// GIVEN arrivals up to 5, bursts 3+4 and 2 ticks of I/O
	a, _ := NewProcess(1, 0, 3, 0, nil)
	b, _ := NewProcess(2, 5, 4, 0, []IOBurst{{At: 1, Duration: 2}})
	set, _ := NewProcessSet(a, b)

	// THEN the bound is last arrival + all work + 1
	assert.Equal(t, int64(5+3+4+2+1), set.tickBound())
}
