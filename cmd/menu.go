package cmd

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
	"github.com/inference-sim/cpusched/sim/workload"
)

// menuCmd is the interactive loop: every round draws a new process set,
// prints it and runs the chosen policy until a choice outside 1..6 is entered.
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive policy menu over fresh random process sets",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMenu(cmd.InOrStdin(), cmd.OutOrStdout(), genConfig, menuBaseSeed(cmd), engineConfig()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// menuSeed backs the menu's --seed. run, compare and generate share seed.
var menuSeed int64

// menuBaseSeed picks --seed, then a config file seed, then the clock.
func menuBaseSeed(cmd *cobra.Command) int64 {
	switch {
	case cmd.Flags().Changed("seed"):
		return menuSeed
	case seedFromConfig:
		return seed
	default:
		return time.Now().UnixNano()
	}
}

// runMenu drives the menu loop. Round i draws its process set with seed base+i.
// Non-numeric input or end of input exits like an out-of-range choice.
func runMenu(in io.Reader, out io.Writer, gen workload.GeneratorConfig, base int64, cfg sim.EngineConfig) error {
	reader := bufio.NewReader(in)
	for round := int64(0); ; round++ {
		set, err := workload.Generate(gen, sim.NewPartitionedRNG(sim.NewSimulationKey(base+round)))
		if err != nil {
			return err
		}
		report.WriteProcesses(out, set)

		fmt.Fprintln(out, "\nSelect Scheduling Algorithm:")
		for i, name := range sim.PolicyNames {
			title, _ := sim.PolicyTitle(name)
			fmt.Fprintf(out, "%d. %s\n", i+1, title)
		}
		fmt.Fprint(out, "Other number to exit.\n> ")

		var choice int
		if _, err := fmt.Fscan(reader, &choice); err != nil {
			logrus.Debugf("menu input ended: %v", err)
			choice = 0
		}
		name, ok := sim.PolicyForChoice(choice)
		if !ok {
			fmt.Fprintln(out, "Exiting...")
			return nil
		}

		res, err := sim.Simulate(set, name, cfg)
		if err != nil {
			return err
		}
		if err := report.WriteResult(out, res); err != nil {
			return err
		}
		fmt.Fprintln(out, "\n===============================")
	}
}

func init() {
	menuCmd.Flags().Int64Var(&menuSeed, "seed", 0, "Base seed (default: current time)")
	menuCmd.Flags().IntVar(&quantum, "quantum", sim.DefaultQuantum, "Round robin time slice (ticks)")

	rootCmd.AddCommand(menuCmd)
}
