package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/trace"
)

// Output formats accepted by Encode.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// RunDocument is the serializable form of one run, shared by the CLI
// json/yaml output, the HTTP API and the run history store.
type RunDocument struct {
	Policy   string              `json:"policy" yaml:"policy"`
	Title    string              `json:"title" yaml:"title"`
	Quantum  int                 `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	Trace    []string            `json:"trace" yaml:"trace"`
	Segments []trace.Segment     `json:"segments" yaml:"segments"`
	Metrics  *sim.Metrics        `json:"metrics" yaml:"metrics"`
	Summary  *trace.TraceSummary `json:"summary" yaml:"summary"`
}

// NewRunDocument flattens a result.
func NewRunDocument(res *sim.Result) *RunDocument {
	return &RunDocument{
		Policy:   res.Policy.Name,
		Title:    res.Policy.Title,
		Quantum:  res.Policy.Quantum,
		Trace:    res.Trace.Labels(),
		Segments: res.Trace.Segments(),
		Metrics:  res.Metrics,
		Summary:  res.Summary,
	}
}

// Encode writes v as indented JSON or as YAML.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q; valid: %s, %s, %s", format, FormatTable, FormatJSON, FormatYAML)
	}
}
