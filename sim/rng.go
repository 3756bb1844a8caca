package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the seed a process set is generated from. The same key
// and generator settings always yield the same set.
type SimulationKey int64

func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Random streams drawn by the workload generator.
const (
	SubsystemWorkload = "workload" // arrivals, bursts, priorities
	SubsystemIO       = "io"       // I/O trigger points and durations
)

// PartitionedRNG hands out one *rand.Rand per named stream, all derived from
// a single key, so drawing more I/O values never shifts the CPU-side values
// of a seed. Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	r, ok := p.streams[name]
	if !ok {
		r = rand.New(rand.NewSource(p.seedFor(name)))
		p.streams[name] = r
	}
	return r
}

// seedFor keeps the workload stream on the raw key, so a seed's arrivals and
// bursts match a plain rand.NewSource(seed); other streams mix in the name.
func (p *PartitionedRNG) seedFor(name string) int64 {
	if name == SubsystemWorkload {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
