package sim

// EngineConfig groups the knobs of a single simulation run.
type EngineConfig struct {
	Quantum  int   // round robin time slice (must be > 0 for rr)
	MaxTicks int64 // stall guard; 0 = derived from the process set
}

// DefaultEngineConfig returns the reference configuration (quantum 2, derived tick cap).
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Quantum: DefaultQuantum}
}
