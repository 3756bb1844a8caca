package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/report"
)

var comparePolicies []string // Policies to compare, in output order

// comparisonDocument is the json/yaml form of a comparison.
type comparisonDocument struct {
	Best    string                `json:"best" yaml:"best"`
	Results []*report.RunDocument `json:"results" yaml:"results"`
}

// compareCmd runs several policies over identical inputs
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several policies over the same process set and rank them",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validFormat(format); err != nil {
			logrus.Fatalf("%v", err)
		}
		set, err := loadProcessSet(cmd)
		if err != nil {
			logrus.Fatalf("unable to load process set; %v", err)
		}

		if len(comparePolicies) == 0 {
			comparePolicies = sim.PolicyNames
		}
		results, err := sim.Compare(set, comparePolicies, engineConfig())
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
		if err := writeComparison(cmd.OutOrStdout(), set, results, format); err != nil {
			logrus.Fatalf("Writing output failed: %v", err)
		}
		if err := saveRuns(cmd, set, results...); err != nil {
			logrus.Fatalf("Saving runs failed: %v", err)
		}
	},
}

func writeComparison(w io.Writer, set *sim.ProcessSet, results []*sim.Result, f string) error {
	if f != report.FormatTable {
		doc := comparisonDocument{Best: sim.Best(results).Policy.Name}
		for _, res := range results {
			doc.Results = append(doc.Results, report.NewRunDocument(res))
		}
		return report.Encode(w, f, doc)
	}
	report.WriteProcesses(w, set)
	for _, res := range results {
		if err := report.WriteGantt(w, res.Policy.Title, res.Trace); err != nil {
			return err
		}
	}
	report.WriteComparison(w, results)
	return nil
}

func init() {
	addProcessSetFlags(compareCmd)
	addEngineFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&comparePolicies, "policies", sim.PolicyNames, "Comma-separated policies to compare")

	rootCmd.AddCommand(compareCmd)
}
