package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusched/sim"
)

// ProcessSetSpec is the on-disk description of a process set.
// Either Processes lists the set explicitly or Generator describes a random
// one drawn with Seed. Loaded from YAML via LoadProcessSetSpec(path).
type ProcessSetSpec struct {
	Seed      int64            `yaml:"seed,omitempty" json:"seed,omitempty"`
	Processes []ProcessSpec    `yaml:"processes,omitempty" json:"processes,omitempty"`
	Generator *GeneratorConfig `yaml:"generator,omitempty" json:"generator,omitempty"`
}

// ProcessSpec is one explicitly listed process.
type ProcessSpec struct {
	PID      int           `yaml:"pid" json:"pid"`
	Arrival  int64         `yaml:"arrival" json:"arrival"`
	Burst    int           `yaml:"burst" json:"burst"`
	Priority int           `yaml:"priority" json:"priority"`
	IO       []sim.IOBurst `yaml:"io,omitempty" json:"io,omitempty"`
}

// LoadProcessSetSpec reads and parses a YAML process set file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadProcessSetSpec(path string) (*ProcessSetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading process set: %w", err)
	}
	return ParseProcessSetSpec(data)
}

// ParseProcessSetSpec decodes a YAML process set from memory.
func ParseProcessSetSpec(data []byte) (*ProcessSetSpec, error) {
	var spec ProcessSetSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing process set: %w", err)
	}
	return &spec, nil
}

// Validate checks the shape of the spec. Per-process attribute checks are
// left to sim.NewProcess so there is a single source of truth.
func (s *ProcessSetSpec) Validate() error {
	switch {
	case len(s.Processes) == 0 && s.Generator == nil:
		return fmt.Errorf("process set: either processes or generator is required")
	case len(s.Processes) > 0 && s.Generator != nil:
		return fmt.Errorf("process set: processes and generator are mutually exclusive")
	case s.Generator != nil:
		return s.Generator.Validate()
	}
	seen := make(map[int]bool, len(s.Processes))
	for i, p := range s.Processes {
		if seen[p.PID] {
			return fmt.Errorf("processes[%d]: %w: P%d", i, sim.ErrDuplicatePID, p.PID)
		}
		seen[p.PID] = true
	}
	return nil
}

// Build validates the spec and produces the process set it describes.
func (s *ProcessSetSpec) Build() (*sim.ProcessSet, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Generator != nil {
		return Generate(*s.Generator, sim.NewPartitionedRNG(sim.NewSimulationKey(s.Seed)))
	}
	procs := make([]*sim.Process, 0, len(s.Processes))
	for i, ps := range s.Processes {
		p, err := sim.NewProcess(ps.PID, ps.Arrival, ps.Burst, ps.Priority, ps.IO)
		if err != nil {
			return nil, fmt.Errorf("processes[%d]: %w", i, err)
		}
		procs = append(procs, p)
	}
	return sim.NewProcessSet(procs...)
}

// FromProcessSet converts a process set back into an explicit spec, used
// to export generated sets so they can be replayed.
func FromProcessSet(set *sim.ProcessSet) *ProcessSetSpec {
	spec := &ProcessSetSpec{Processes: make([]ProcessSpec, 0, set.Len())}
	for _, p := range set.Processes() {
		spec.Processes = append(spec.Processes, ProcessSpec{
			PID:      p.PID,
			Arrival:  p.ArrivalTime,
			Burst:    p.BurstTime,
			Priority: p.Priority,
			IO:       append([]sim.IOBurst(nil), p.IO...),
		})
	}
	return spec
}
