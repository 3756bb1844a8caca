package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
)

var showTimeline bool // Print the collapsed segment table after the chart

// runCmd executes one policy over a process set
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scheduling policy over a process set",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validFormat(format); err != nil {
			logrus.Fatalf("%v", err)
		}
		set, err := loadProcessSet(cmd)
		if err != nil {
			logrus.Fatalf("unable to load process set; %v", err)
		}

		logrus.Infof("Starting %s over %d processes, quantum=%d, max-ticks=%d", policyName, set.Len(), quantum, maxTicks)
		res, err := sim.Simulate(set, policyName, engineConfig())
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := writeRun(cmd.OutOrStdout(), set, res, format, showTimeline); err != nil {
			logrus.Fatalf("Writing output failed: %v", err)
		}
		if err := saveRuns(cmd, set, res); err != nil {
			logrus.Fatalf("Saving run failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// writeRun renders one result as tables or as a JSON/YAML document.
func writeRun(w io.Writer, set *sim.ProcessSet, res *sim.Result, f string, timeline bool) error {
	if f != report.FormatTable {
		return report.Encode(w, f, report.NewRunDocument(res))
	}
	report.WriteProcesses(w, set)
	if err := report.WriteResult(w, res); err != nil {
		return err
	}
	if timeline {
		return report.WriteTimeline(w, res.Trace)
	}
	return nil
}

func init() {
	addProcessSetFlags(runCmd)
	addEngineFlags(runCmd)
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyFCFS, "Scheduling policy (fcfs, sjf, srtf, priority, priority-preemptive, rr)")
	runCmd.Flags().BoolVar(&showTimeline, "timeline", false, "Also print the collapsed execution segments")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
