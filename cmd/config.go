package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusched/sim/workload"
)

// FileConfig represents the optional --config YAML file.
// All top-level keys must be listed to satisfy KnownFields(true) strict parsing.
type FileConfig struct {
	Policy    string                    `yaml:"policy"`
	Quantum   int                       `yaml:"quantum"`
	MaxTicks  int64                     `yaml:"max_ticks"`
	Seed      *int64                    `yaml:"seed"`
	Database  string                    `yaml:"database"`
	Generator *workload.GeneratorConfig `yaml:"generator"`
}

// LoadFileConfig reads a config file. Unknown keys are rejected so typos
// surface as errors instead of silently falling back to defaults.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Generator != nil {
		if err := cfg.Generator.Validate(); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return &cfg, nil
}

// applyFileConfig copies file values into the flag variables, except for
// flags the user set explicitly on the command line.
func applyFileConfig(cmd *cobra.Command, cfg *FileConfig) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if cfg.Policy != "" && !changed("policy") {
		policyName = cfg.Policy
	}
	if cfg.Quantum != 0 && !changed("quantum") {
		quantum = cfg.Quantum
	}
	if cfg.MaxTicks != 0 && !changed("max-ticks") {
		maxTicks = cfg.MaxTicks
	}
	if cfg.Seed != nil && !changed("seed") {
		seed = *cfg.Seed
		seedFromConfig = true
	}
	if cfg.Database != "" && !changed("db") {
		dbPath = cfg.Database
	}
	if cfg.Generator != nil {
		flags := genConfig
		genConfig = *cfg.Generator
		if changed("count") {
			genConfig.Count = flags.Count
		}
		if changed("max-io") {
			genConfig.MaxIO = flags.MaxIO
		}
	}
}
