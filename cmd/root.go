package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
	"github.com/inference-sim/cpusched/sim/workload"
	"github.com/inference-sim/cpusched/store"
)

var (
	// Shared CLI flags
	logLevel   string // Log verbosity level
	configPath string // Optional YAML config file
	dbPath     string // SQLite run history; empty disables persistence

	// Simulation flags
	policyName string // Scheduling policy
	quantum    int    // Round robin time slice
	maxTicks   int64  // Stall guard; 0 derives it from the process set
	format     string // Output format: table, json, yaml
	label      string // Free-form label stored with saved runs

	// Process set flags
	inputPath      string // YAML or CSV process set
	generate       bool   // Draw a random process set instead of reading one
	seed           int64  // Seed for random process generation
	seedFromConfig bool   // seed was taken from the --config file
)

// genConfig is the random process set shape; --count and the config file's
// generator section adjust it.
var genConfig = workload.DefaultGeneratorConfig()

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cpusched",
	Short: "Tick-driven CPU scheduling simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if configPath != "" {
			cfg, err := LoadFileConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			applyFileConfig(cmd, cfg)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// engineConfig returns the engine settings selected by flags and config file.
func engineConfig() sim.EngineConfig {
	return sim.EngineConfig{Quantum: quantum, MaxTicks: maxTicks}
}

// loadProcessSet reads --input, or draws a random set when --generate is set.
// A --seed given on the command line overrides the seed of a generator spec file.
func loadProcessSet(cmd *cobra.Command) (*sim.ProcessSet, error) {
	switch {
	case inputPath != "" && generate:
		return nil, fmt.Errorf("--input and --generate are mutually exclusive")
	case generate:
		logrus.Infof("Generating %d processes with seed %d", genConfig.Count, seed)
		return workload.Generate(genConfig, sim.NewPartitionedRNG(sim.NewSimulationKey(seed)))
	case inputPath == "":
		return nil, fmt.Errorf("either --input or --generate is required")
	}

	if strings.EqualFold(filepath.Ext(inputPath), ".csv") {
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return workload.LoadCSV(f)
	}

	spec, err := workload.LoadProcessSetSpec(inputPath)
	if err != nil {
		return nil, err
	}
	if spec.Generator != nil && cmd.Flags().Changed("seed") {
		spec.Seed = seed
	}
	return spec.Build()
}

// openStore opens and migrates the run history, or returns nil when --db is unset.
func openStore(cmd *cobra.Command) (store.Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// saveRuns persists results when a store is configured.
func saveRuns(cmd *cobra.Command, set *sim.ProcessSet, results ...*sim.Result) error {
	st, err := openStore(cmd)
	if err != nil || st == nil {
		return err
	}
	defer st.Close()
	for _, res := range results {
		run := store.NewRun(set, res, label)
		if err := st.SaveRun(cmd.Context(), run); err != nil {
			return err
		}
		logrus.Infof("Saved run %s (%s)", run.ID, res.Policy.Title)
	}
	return nil
}

func validFormat(f string) error {
	switch f {
	case report.FormatTable, report.FormatJSON, report.FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q; valid: table, json, yaml", f)
}

// addProcessSetFlags registers the flags shared by every command that needs a process set.
func addProcessSetFlags(c *cobra.Command) {
	c.Flags().StringVar(&inputPath, "input", "", "Process set file (.yaml or .csv)")
	c.Flags().BoolVar(&generate, "generate", false, "Draw a random process set")
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for random process generation")
	c.Flags().IntVar(&genConfig.Count, "count", genConfig.Count, "Number of processes to generate")
}

// addEngineFlags registers the simulation knobs.
func addEngineFlags(c *cobra.Command) {
	c.Flags().IntVar(&quantum, "quantum", sim.DefaultQuantum, "Round robin time slice (ticks)")
	c.Flags().Int64Var(&maxTicks, "max-ticks", 0, "Abort after this many ticks (0 = derived from the process set)")
	c.Flags().StringVar(&format, "format", report.FormatTable, "Output format (table, json, yaml)")
	c.Flags().StringVar(&label, "label", "", "Label stored with saved runs")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite run history database (empty = do not persist)")
}
