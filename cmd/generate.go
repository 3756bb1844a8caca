package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
	"github.com/inference-sim/cpusched/sim/workload"
)

// generateCmd draws a random process set and prints it as an explicit
// spec, so it can be edited and replayed with `run --input`.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random process set as YAML on stdout",
	Run: func(cmd *cobra.Command, args []string) {
		set, err := workload.Generate(genConfig, sim.NewPartitionedRNG(sim.NewSimulationKey(seed)))
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
		if err := report.Encode(cmd.OutOrStdout(), report.FormatYAML, workload.FromProcessSet(set)); err != nil {
			logrus.Fatalf("YAML marshal failed: %v", err)
		}
	},
}

func init() {
	generateCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random process generation")
	generateCmd.Flags().IntVar(&genConfig.Count, "count", genConfig.Count, "Number of processes to generate")
	generateCmd.Flags().IntVar(&genConfig.MaxIO, "max-io", genConfig.MaxIO, "Maximum I/O requests per process (0 disables I/O)")

	rootCmd.AddCommand(generateCmd)
}
