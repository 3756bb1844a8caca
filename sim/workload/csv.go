package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inference-sim/cpusched/sim"
)

// LoadCSV reads a process set from CSV rows of the form
//
//	pid,arrival,burst,priority[,io]
//
// where io is a semicolon-separated list of "at:duration" pairs, for
// example "2:3;5:1". A leading header row starting with "pid" is skipped,
// as are lines starting with '#'.
func LoadCSV(r io.Reader) (*sim.ProcessSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var procs []*sim.Process
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "pid") {
			continue
		}
		p, err := parseCSVRecord(record)
		if err != nil {
			row, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("csv line %d: %w", row, err)
		}
		procs = append(procs, p)
	}
	return sim.NewProcessSet(procs...)
}

func parseCSVRecord(record []string) (*sim.Process, error) {
	if len(record) < 4 || len(record) > 5 {
		return nil, fmt.Errorf("expected 4 or 5 fields, got %d", len(record))
	}
	ints := make([]int, 4)
	for i, name := range []string{"pid", "arrival", "burst", "priority"} {
		v, err := strconv.Atoi(strings.TrimSpace(record[i]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ints[i] = v
	}
	var bursts []sim.IOBurst
	if len(record) == 5 {
		var err error
		if bursts, err = ParseIOList(record[4]); err != nil {
			return nil, err
		}
	}
	return sim.NewProcess(ints[0], int64(ints[1]), ints[2], ints[3], bursts)
}

// ParseIOList parses "at:duration" pairs separated by ';'. An empty string
// yields no I/O.
func ParseIOList(s string) ([]sim.IOBurst, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []sim.IOBurst
	for _, pair := range strings.Split(s, ";") {
		at, dur, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("io %q: want at:duration", pair)
		}
		a, err := strconv.Atoi(strings.TrimSpace(at))
		if err != nil {
			return nil, fmt.Errorf("io %q: %w", pair, err)
		}
		d, err := strconv.Atoi(strings.TrimSpace(dur))
		if err != nil {
			return nil, fmt.Errorf("io %q: %w", pair, err)
		}
		out = append(out, sim.IOBurst{At: a, Duration: d})
	}
	return out, nil
}
