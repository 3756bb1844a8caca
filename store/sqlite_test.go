package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/cpusched/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun(t *testing.T, policy string) *Run {
	t.Helper()
	p1, err := sim.NewProcess(1, 0, 4, 0, []sim.IOBurst{{At: 2, Duration: 1}})
	require.NoError(t, err)
	p2, err := sim.NewProcess(2, 1, 3, 1, nil)
	require.NoError(t, err)
	set, err := sim.NewProcessSet(p1, p2)
	require.NoError(t, err)
	res, err := sim.Simulate(set, policy, sim.DefaultEngineConfig())
	require.NoError(t, err)
	return NewRun(set, res, "sample")
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	// GIVEN a stored run
	run := sampleRun(t, sim.PolicyRoundRobin)
	require.NoError(t, st.SaveRun(ctx, run))

	// WHEN it is fetched by id
	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)

	// THEN every column and payload round-trips
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "sample", got.Label)
	assert.Equal(t, "rr", got.Policy)
	assert.Equal(t, 2, got.Quantum)
	assert.Equal(t, 2, got.ProcessCount)
	assert.InDelta(t, run.AvgWaiting, got.AvgWaiting, 1e-9)
	assert.Equal(t, run.Makespan, got.Makespan)
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Millisecond)
	require.NotNil(t, got.Processes)
	require.Len(t, got.Processes.Processes, 2)
	assert.Equal(t, []sim.IOBurst{{At: 2, Duration: 1}}, got.Processes.Processes[0].IO)
	require.NotNil(t, got.Result)
	assert.Equal(t, run.Result.Trace, got.Result.Trace)

	// AND the stored inputs rebuild into the same schedule
	set, err := got.Processes.Build()
	require.NoError(t, err)
	replay, err := sim.Simulate(set, got.Policy, sim.EngineConfig{Quantum: got.Quantum})
	require.NoError(t, err)
	assert.Equal(t, got.Result.Trace, replay.Trace.Labels())
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	st := testStore(t)
	_, err := st.GetRun(context.Background(), "run_missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestSQLiteStore_SaveRun_DuplicateID(t *testing.T) {
	st := testStore(t)
	run := sampleRun(t, sim.PolicyFCFS)
	require.NoError(t, st.SaveRun(context.Background(), run))
	assert.Error(t, st.SaveRun(context.Background(), run))
}

func TestSQLiteStore_ListRuns_NewestFirstWithFilter(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	// GIVEN three runs created a second apart
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	policies := []string{sim.PolicyFCFS, sim.PolicySJF, sim.PolicyFCFS}
	var ids []string
	for i, p := range policies {
		run := sampleRun(t, p)
		run.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, st.SaveRun(ctx, run))
		ids = append(ids, run.ID)
	}

	// WHEN listed without a filter
	runs, total, err := st.ListRuns(ctx, ListOptions{})
	require.NoError(t, err)

	// THEN the newest comes first and payloads are left out
	assert.Equal(t, 3, total)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)
	assert.Nil(t, runs[0].Result)

	// AND the policy filter narrows both the page and the total
	runs, total, err = st.ListRuns(ctx, ListOptions{Policy: sim.PolicySJF})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, runs, 1)
	assert.Equal(t, ids[1], runs[0].ID)

	// AND paging respects limit and offset
	runs, _, err = st.ListRuns(ctx, ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ids[1], runs[0].ID)
}

func TestSQLiteStore_Migrate_Idempotent(t *testing.T) {
	// GIVEN a file-backed store migrated once
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.SaveRun(context.Background(), sampleRun(t, sim.PolicyFCFS)))
	require.NoError(t, st.Close())

	// WHEN reopened and migrated again
	st, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(context.Background()))

	// THEN existing data survives
	_, total, err := st.ListRuns(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSQLiteStore_Migrate_CreatesEveryColumn(t *testing.T) {
	// GIVEN a fresh store
	st := testStore(t)

	// WHEN the runs table is inspected
	rows, err := st.db.QueryContext(context.Background(), "PRAGMA table_info(runs)")
	require.NoError(t, err)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt *string
		require.NoError(t, rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())

	// THEN the label column exists straight from CREATE TABLE
	assert.Contains(t, cols, "label")
	assert.Contains(t, cols, "created_at")
}

func TestListOptions_Clamp(t *testing.T) {
	o := ListOptions{Limit: 500, Offset: -3}
	o.Clamp()
	assert.Equal(t, 100, o.Limit)
	assert.Equal(t, 0, o.Offset)

	o = ListOptions{}
	o.Clamp()
	assert.Equal(t, 20, o.Limit)
}
