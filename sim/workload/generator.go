package workload

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/inference-sim/cpusched/sim"
)

// GeneratorConfig bounds the random process sets produced by Generate.
// Ranges are inclusive except ArrivalMax, which is exclusive.
type GeneratorConfig struct {
	Count          int `yaml:"count" json:"count"`
	ArrivalMax     int `yaml:"arrival_max" json:"arrival_max"`
	BurstMin       int `yaml:"burst_min" json:"burst_min"`
	BurstMax       int `yaml:"burst_max" json:"burst_max"`
	PriorityLevels int `yaml:"priority_levels" json:"priority_levels"`
	MaxIO          int `yaml:"max_io" json:"max_io"`                     // 0 disables I/O
	IODurationMax  int `yaml:"io_duration_max" json:"io_duration_max"` // durations drawn from 1..IODurationMax
}

// DefaultGeneratorConfig returns the classic lab distribution: five
// processes arriving in 0..4, bursts of 6..10, priorities 0..9, one to
// three I/O requests of 1..3 ticks each.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Count:          5,
		ArrivalMax:     5,
		BurstMin:       6,
		BurstMax:       10,
		PriorityLevels: 10,
		MaxIO:          3,
		IODurationMax:  3,
	}
}

// Validate checks that every range is non-empty.
func (c GeneratorConfig) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("generator: count must be >= 1, got %d", c.Count)
	}
	if c.ArrivalMax < 1 {
		return fmt.Errorf("generator: arrival_max must be >= 1, got %d", c.ArrivalMax)
	}
	if c.BurstMin < 1 || c.BurstMax < c.BurstMin {
		return fmt.Errorf("generator: need 1 <= burst_min <= burst_max, got %d..%d", c.BurstMin, c.BurstMax)
	}
	if c.PriorityLevels < 1 {
		return fmt.Errorf("generator: priority_levels must be >= 1, got %d", c.PriorityLevels)
	}
	if c.MaxIO < 0 {
		return fmt.Errorf("generator: max_io must be >= 0, got %d", c.MaxIO)
	}
	if c.MaxIO > 0 && c.IODurationMax < 1 {
		return fmt.Errorf("generator: io_duration_max must be >= 1 when max_io > 0, got %d", c.IODurationMax)
	}
	return nil
}

// Generate draws a random process set. Pids are 1..Count in input order.
// Deterministic given the same config and RNG key: CPU attributes come
// from the workload subsystem and I/O profiles from the io subsystem.
func Generate(cfg GeneratorConfig, rng *sim.PartitionedRNG) (*sim.ProcessSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workloadRNG := rng.ForSubsystem(sim.SubsystemWorkload)
	ioRNG := rng.ForSubsystem(sim.SubsystemIO)

	procs := make([]*sim.Process, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		arrival := int64(workloadRNG.Intn(cfg.ArrivalMax))
		burst := cfg.BurstMin + workloadRNG.Intn(cfg.BurstMax-cfg.BurstMin+1)
		priority := workloadRNG.Intn(cfg.PriorityLevels)

		p, err := sim.NewProcess(i+1, arrival, burst, priority, generateIO(cfg, burst, ioRNG))
		if err != nil {
			return nil, fmt.Errorf("generated process %d: %w", i+1, err)
		}
		procs = append(procs, p)
	}
	return sim.NewProcessSet(procs...)
}

// generateIO draws up to MaxIO requests with distinct triggers in 1..burst-1.
func generateIO(cfg GeneratorConfig, burst int, rng *rand.Rand) []sim.IOBurst {
	if cfg.MaxIO == 0 || burst < 2 {
		return nil
	}
	n := min(1+rng.Intn(cfg.MaxIO), burst-1)
	triggers := rng.Perm(burst - 1)[:n]
	sort.Ints(triggers)

	io := make([]sim.IOBurst, n)
	for j, t := range triggers {
		io[j] = sim.IOBurst{At: t + 1, Duration: 1 + rng.Intn(cfg.IODurationMax)}
	}
	return io
}
