package workload

import (
	"errors"
	"strings"
	"testing"

	"github.com/inference-sim/cpusched/sim"
)

func TestLoadCSV_HeaderAndIO(t *testing.T) {
	input := `pid,arrival,burst,priority,io
# comment lines are ignored
1,0,5,2,2:3
2, 1, 6, 1, 1:1;4:2
3,2,3,0
`
	set, err := LoadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("got %d processes, want 3", set.Len())
	}
	p2 := set.Get(2)
	if p2.ArrivalTime != 1 || p2.BurstTime != 6 || p2.Priority != 1 {
		t.Errorf("P2 = %v", p2)
	}
	want := []sim.IOBurst{{At: 1, Duration: 1}, {At: 4, Duration: 2}}
	if len(p2.IO) != 2 || p2.IO[0] != want[0] || p2.IO[1] != want[1] {
		t.Errorf("P2 io = %v, want %v", p2.IO, want)
	}
	if len(set.Get(3).IO) != 0 {
		t.Errorf("P3 io = %v, want none", set.Get(3).IO)
	}
}

func TestLoadCSV_NoHeader(t *testing.T) {
	set, err := LoadCSV(strings.NewReader("7,3,2,0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if set.Get(7) == nil {
		t.Error("P7 missing")
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		is    error
	}{
		{"empty", "", sim.ErrEmptyProcessSet},
		{"header only", "pid,arrival,burst,priority\n", sim.ErrEmptyProcessSet},
		{"bad trigger", "1,0,3,0,3:1\n", sim.ErrInvalidProcess},
		{"duplicate", "1,0,3,0\n1,1,2,0\n", sim.ErrDuplicatePID},
		{"not a number", "1,zero,3,0\n", nil},
		{"too few fields", "1,0,3\n", nil},
		{"malformed io", "1,0,3,0,2-1\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("got %v, want %v", err, tt.is)
			}
		})
	}
}

func TestParseIOList(t *testing.T) {
	got, err := ParseIOList(" 2:3 ; 5:1 ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != (sim.IOBurst{At: 5, Duration: 1}) {
		t.Errorf("got %v", got)
	}
	if got, err := ParseIOList(""); err != nil || got != nil {
		t.Errorf("empty: got %v, %v", got, err)
	}
}
