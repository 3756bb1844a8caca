// Package report renders simulation results as text: Gantt charts, process
// tables, per-process metrics and policy comparisons.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/sim/trace"
)

const ganttCell = 7

// WriteGantt prints one cell per tick followed by a time axis with a tick
// number under every cell boundary.
func WriteGantt(w io.Writer, title string, et *trace.ExecutionTrace) error {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("-", 32))
	sb.WriteString("\n\n[Gantt Chart - ")
	sb.WriteString(title)
	sb.WriteString("]\n")
	for _, label := range et.Labels() {
		fmt.Fprintf(&sb, "| %-5s", label)
	}
	sb.WriteString("|\n")
	for t := 0; t <= et.Len(); t++ {
		fmt.Fprintf(&sb, "%-*d", ganttCell, t)
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteTimeline prints the trace collapsed into segments, one cell per run
// of identical labels, with the segment boundaries underneath.
func WriteTimeline(w io.Writer, et *trace.ExecutionTrace) error {
	segs := et.Segments()
	var top, axis strings.Builder
	top.WriteString("|")
	for _, s := range segs {
		width := max(len(s.Label)+2, ganttCell-1)
		pad := width - len(s.Label)
		top.WriteString(strings.Repeat(" ", pad/2) + s.Label + strings.Repeat(" ", pad-pad/2) + "|")
		start := strconv.FormatInt(s.Start, 10)
		axis.WriteString(start + strings.Repeat(" ", max(width+1-len(start), 1)))
	}
	if n := len(segs); n > 0 {
		axis.WriteString(strconv.FormatInt(segs[n-1].End, 10))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", top.String(), axis.String())
	return err
}

// WriteProcesses prints the input attributes of a process set.
func WriteProcesses(w io.Writer, set *sim.ProcessSet) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "Burst", "Priority", "I/O (at:duration)"})
	for _, p := range set.Processes() {
		table.Append([]string{
			strconv.Itoa(p.PID),
			strconv.FormatInt(p.ArrivalTime, 10),
			strconv.Itoa(p.BurstTime),
			strconv.Itoa(p.Priority),
			formatIO(p.IO),
		})
	}
	table.Render()
}

func formatIO(bursts []sim.IOBurst) string {
	if len(bursts) == 0 {
		return "-"
	}
	parts := make([]string, len(bursts))
	for i, b := range bursts {
		parts[i] = fmt.Sprintf("%d:%d", b.At, b.Duration)
	}
	return strings.Join(parts, " ")
}

// WriteMetrics prints per-process timings with the averages in the footer.
func WriteMetrics(w io.Writer, m *sim.Metrics) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "Burst", "Start", "Finish", "Waiting", "Turnaround", "Response"})
	rows := make([][]string, 0, len(m.Processes))
	for _, pm := range m.Processes {
		rows = append(rows, []string{
			strconv.Itoa(pm.PID),
			strconv.FormatInt(pm.Arrival, 10),
			strconv.Itoa(pm.Burst),
			strconv.FormatInt(pm.Start, 10),
			strconv.FormatInt(pm.Finish, 10),
			strconv.FormatInt(pm.Waiting, 10),
			strconv.FormatInt(pm.Turnaround, 10),
			strconv.FormatInt(pm.Response, 10),
		})
	}
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "",
		fmt.Sprintf("Makespan\n%d", m.Makespan),
		fmt.Sprintf("Average\n%.2f", m.AvgWaiting),
		fmt.Sprintf("Average\n%.2f", m.AvgTurnaround),
		fmt.Sprintf("Average\n%.2f", m.AvgResponse)})
	table.Render()
}

// WriteSummary prints the trace-level counters of one run.
func WriteSummary(w io.Writer, s *trace.TraceSummary) error {
	_, err := fmt.Fprintf(w, "Ticks: %s (busy %s, io %s, idle %s)  CPU utilization: %.1f%%  Context switches: %s\n",
		humanize.Comma(int64(s.TotalTicks)), humanize.Comma(int64(s.BusyTicks)),
		humanize.Comma(int64(s.IOTicks)), humanize.Comma(int64(s.IdleTicks)),
		s.CPUUtilization*100, humanize.Comma(int64(s.ContextSwitches)))
	return err
}

// WriteComparison ranks results by average waiting time, lowest first.
// Ties keep the order the results were given in.
func WriteComparison(w io.Writer, results []*sim.Result) {
	ranked := append([]*sim.Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metrics.AvgWaiting < ranked[j].Metrics.AvgWaiting
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Policy", "Avg Waiting", "Avg Turnaround", "Avg Response", "Makespan", "Switches", "CPU %"})
	for i, r := range ranked {
		table.Append([]string{
			humanize.Ordinal(i + 1),
			r.Policy.Title,
			fmt.Sprintf("%.2f", r.Metrics.AvgWaiting),
			fmt.Sprintf("%.2f", r.Metrics.AvgTurnaround),
			fmt.Sprintf("%.2f", r.Metrics.AvgResponse),
			humanize.Comma(r.Metrics.Makespan),
			humanize.Comma(int64(r.Summary.ContextSwitches)),
			fmt.Sprintf("%.1f", r.Summary.CPUUtilization*100),
		})
	}
	table.Render()
}

// WriteResult prints everything known about one run: chart, metrics and summary.
func WriteResult(w io.Writer, res *sim.Result) error {
	if err := WriteGantt(w, res.Policy.Title, res.Trace); err != nil {
		return err
	}
	WriteMetrics(w, res.Metrics)
	return WriteSummary(w, res.Summary)
}
