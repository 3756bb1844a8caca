// Package testutil provides shared test infrastructure for the scheduler
// simulator. It holds the golden scenario types and assertion helpers used
// across the sim/ test packages. It does not import sim/ so that sim's own
// tests can use it.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_scenarios.json.
type GoldenDataset struct {
	Scenarios []GoldenScenario `json:"scenarios"`
}

// GoldenScenario is one hand-checked schedule.
type GoldenScenario struct {
	Name      string             `json:"name"`
	Policy    string             `json:"policy"`
	Quantum   int                `json:"quantum"`
	Processes []GoldenProcess    `json:"processes"`
	Trace     []string           `json:"trace"`
	Finish    []GoldenCompletion `json:"finish"`
}

// GoldenProcess is a process input tuple.
type GoldenProcess struct {
	PID      int      `json:"pid"`
	Arrival  int64    `json:"arrival"`
	Burst    int      `json:"burst"`
	Priority int      `json:"priority"`
	IO       [][2]int `json:"io"` // [trigger, duration] pairs
}

// GoldenCompletion is the expected finish time of one process.
type GoldenCompletion struct {
	PID    int   `json:"pid"`
	Finish int64 `json:"finish"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
