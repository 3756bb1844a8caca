package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
	"github.com/inference-sim/cpusched/store"
)

var (
	historyLimit  int    // Page size for history list
	historyOffset int    // Rows to skip for history list
	historyPolicy string // Optional policy filter
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved runs (requires --db)",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		st := mustOpenHistory(cmd)
		defer st.Close()

		opts := store.ListOptions{Limit: historyLimit, Offset: historyOffset, Policy: historyPolicy}
		runs, total, err := st.ListRuns(cmd.Context(), opts)
		if err != nil {
			logrus.Fatalf("Listing runs failed: %v", err)
		}
		writeRunList(cmd.OutOrStdout(), runs, total)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a saved run, replaying it from its stored inputs",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := validFormat(format); err != nil {
			logrus.Fatalf("%v", err)
		}
		st := mustOpenHistory(cmd)
		defer st.Close()

		run, err := st.GetRun(cmd.Context(), args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if format != report.FormatTable {
			if err := report.Encode(cmd.OutOrStdout(), format, run); err != nil {
				logrus.Fatalf("Writing output failed: %v", err)
			}
			return
		}
		set, res, err := replayRun(run)
		if err != nil {
			logrus.Fatalf("Replaying %s failed: %v", run.ID, err)
		}
		if err := writeRun(cmd.OutOrStdout(), set, res, report.FormatTable, showTimeline); err != nil {
			logrus.Fatalf("Writing output failed: %v", err)
		}
	},
}

func mustOpenHistory(cmd *cobra.Command) store.Store {
	if dbPath == "" {
		logrus.Fatalf("history needs a database; pass --db or set database in --config")
	}
	st, err := openStore(cmd)
	if err != nil {
		logrus.Fatalf("Opening run history failed: %v", err)
	}
	return st
}

// replayRun re-simulates a stored run. The engine is deterministic, so the
// replayed trace must match the stored one; a mismatch is reported as an error.
func replayRun(run *store.Run) (*sim.ProcessSet, *sim.Result, error) {
	if run.Processes == nil {
		return nil, nil, fmt.Errorf("run %s has no stored inputs", run.ID)
	}
	set, err := run.Processes.Build()
	if err != nil {
		return nil, nil, err
	}
	q := run.Quantum
	if q == 0 {
		q = sim.DefaultQuantum
	}
	res, err := sim.Simulate(set, run.Policy, sim.EngineConfig{Quantum: q})
	if err != nil {
		return nil, nil, err
	}
	if run.Result != nil {
		got := res.Trace.Labels()
		if len(got) != len(run.Result.Trace) {
			return nil, nil, fmt.Errorf("replay produced %d ticks, stored run has %d", len(got), len(run.Result.Trace))
		}
		for i := range got {
			if got[i] != run.Result.Trace[i] {
				return nil, nil, fmt.Errorf("replay diverges at tick %d: %s vs stored %s", i, got[i], run.Result.Trace[i])
			}
		}
	}
	return set, res, nil
}

func writeRunList(w io.Writer, runs []*store.Run, total int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Label", "Policy", "Processes", "Avg WT", "Avg TAT", "Makespan", "Created"})
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.Label,
			r.Policy,
			strconv.Itoa(r.ProcessCount),
			fmt.Sprintf("%.2f", r.AvgWaiting),
			fmt.Sprintf("%.2f", r.AvgTurnaround),
			humanize.Comma(r.Makespan),
			humanize.Time(r.CreatedAt),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "Total", humanize.Comma(int64(total))})
	table.Render()
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (1-100)")
	historyListCmd.Flags().IntVar(&historyOffset, "offset", 0, "Runs to skip")
	historyListCmd.Flags().StringVar(&historyPolicy, "policy", "", "Only list runs of this policy")

	historyShowCmd.Flags().StringVar(&format, "format", report.FormatTable, "Output format (table, json, yaml)")
	historyShowCmd.Flags().BoolVar(&showTimeline, "timeline", false, "Also print the collapsed execution segments")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
