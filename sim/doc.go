// Package sim provides the tick-driven CPU scheduling engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (not-arrived → ready → running ⇄ blocked → done)
//   - scheduler.go: Policies as a Selector plus a Dispatch granularity
//   - simulator.go: The tick loop (admission, I/O release, dispatch, one CPU tick)
//
// # Architecture
//
// One engine runs every policy. A policy only decides which ready process
// goes next (Selector) and how long it keeps the CPU once picked (Dispatch):
//   - one tick for the preemptive variants (SRTF, preemptive priority)
//   - until the next I/O or completion for FCFS, SJF and priority
//   - a fixed quantum for round robin
//
// Sub-packages:
//   - sim/trace/: per-tick execution trace and its summary
//   - sim/workload/: process set loading (YAML, CSV) and seeded generation
//   - sim/report/: Gantt chart and metrics tables
package sim
