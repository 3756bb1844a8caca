package workload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusched/sim"
)

func TestLoadProcessSetSpec_ValidYAML_LoadsCorrectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "procs.yaml")
	content := `
processes:
  - pid: 1
    arrival: 0
    burst: 5
    priority: 2
    io:
      - at: 2
        duration: 3
  - pid: 2
    arrival: 1
    burst: 3
    priority: 1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadProcessSetSpec(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Processes) != 2 {
		t.Fatalf("processes count = %d, want 2", len(spec.Processes))
	}
	if got := spec.Processes[0].IO; len(got) != 1 || got[0] != (sim.IOBurst{At: 2, Duration: 3}) {
		t.Errorf("P1 io = %v, want [{2 3}]", got)
	}

	set, err := spec.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if set.Len() != 2 || set.Get(2).Priority != 1 {
		t.Errorf("built set mismatch: %v", set.Processes())
	}
}

func TestLoadProcessSetSpec_UnknownKey_Rejected(t *testing.T) {
	// GIVEN a typo in a field name
	_, err := ParseProcessSetSpec([]byte("processes:\n  - pid: 1\n    brust: 4\n"))

	// THEN strict decoding refuses it
	if err == nil || !strings.Contains(err.Error(), "brust") {
		t.Errorf("expected unknown field error, got %v", err)
	}
}

func TestLoadProcessSetSpec_MissingFile(t *testing.T) {
	if _, err := LoadProcessSetSpec(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProcessSetSpec_Validate(t *testing.T) {
	gen := DefaultGeneratorConfig()
	tests := []struct {
		name    string
		spec    ProcessSetSpec
		wantErr bool
	}{
		{"empty", ProcessSetSpec{}, true},
		{"explicit", ProcessSetSpec{Processes: []ProcessSpec{{PID: 1, Burst: 2}}}, false},
		{"generator", ProcessSetSpec{Generator: &gen}, false},
		{"both", ProcessSetSpec{Processes: []ProcessSpec{{PID: 1, Burst: 2}}, Generator: &gen}, true},
		{"bad generator", ProcessSetSpec{Generator: &GeneratorConfig{}}, true},
		{"duplicate pid", ProcessSetSpec{Processes: []ProcessSpec{{PID: 1, Burst: 2}, {PID: 1, Burst: 3}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessSetSpec_Build_InvalidProcess(t *testing.T) {
	spec := ProcessSetSpec{Processes: []ProcessSpec{{PID: 1, Burst: 4, IO: []sim.IOBurst{{At: 4, Duration: 1}}}}}
	_, err := spec.Build()
	if !errors.Is(err, sim.ErrInvalidProcess) {
		t.Errorf("got %v, want ErrInvalidProcess", err)
	}
}

func TestProcessSetSpec_Build_GeneratorUsesSeed(t *testing.T) {
	gen := DefaultGeneratorConfig()
	a, err := (&ProcessSetSpec{Seed: 7, Generator: &gen}).Build()
	if err != nil {
		t.Fatal(err)
	}
	b, err := (&ProcessSetSpec{Seed: 7, Generator: &gen}).Build()
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range a.Processes() {
		q := b.Processes()[i]
		if p.ArrivalTime != q.ArrivalTime || p.BurstTime != q.BurstTime || p.Priority != q.Priority {
			t.Errorf("P%d differs across builds with the same seed", p.PID)
		}
	}
}

func TestFromProcessSet_RoundTripsThroughYAML(t *testing.T) {
	// GIVEN a generated set exported as a spec
	set, err := Generate(DefaultGeneratorConfig(), sim.NewPartitionedRNG(sim.NewSimulationKey(3)))
	if err != nil {
		t.Fatal(err)
	}
	data, err := yaml.Marshal(FromProcessSet(set))
	if err != nil {
		t.Fatal(err)
	}

	// WHEN it is parsed and rebuilt
	spec, err := ParseProcessSetSpec(data)
	if err != nil {
		t.Fatalf("parse exported yaml: %v\n%s", err, data)
	}
	rebuilt, err := spec.Build()
	if err != nil {
		t.Fatal(err)
	}

	// THEN the schedules are identical
	a, _ := sim.Simulate(set, sim.PolicyRoundRobin, sim.DefaultEngineConfig())
	b, _ := sim.Simulate(rebuilt, sim.PolicyRoundRobin, sim.DefaultEngineConfig())
	if strings.Join(a.Trace.Labels(), " ") != strings.Join(b.Trace.Labels(), " ") {
		t.Error("rebuilt set schedules differently")
	}
}
