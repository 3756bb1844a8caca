package sim

import (
	"errors"
	"testing"
)

func TestCompareAll_RunsEveryPolicyOnSameInputs(t *testing.T) {
	// GIVEN one set
	set := threeJobs(t)

	// WHEN every policy is compared
	results, err := CompareAll(set, DefaultEngineConfig())
	if err != nil {
		t.Fatal(err)
	}

	// THEN results come back in menu order
	if len(results) != len(PolicyNames) {
		t.Fatalf("got %d results, want %d", len(results), len(PolicyNames))
	}
	for i, r := range results {
		if r.Policy.Name != PolicyNames[i] {
			t.Errorf("result %d: got %s, want %s", i, r.Policy.Name, PolicyNames[i])
		}
		// AND each run owns its process records
		if r.Processes == set {
			t.Errorf("%s: result shares the caller's set", r.Policy.Name)
		}
	}
	// AND repeating a policy standalone gives the same trace
	again := mustRun(t, set, PolicyRoundRobin, DefaultQuantum)
	if !sliceEqual(again.Trace.Labels(), results[5].Trace.Labels()) {
		t.Error("comparison run differs from standalone run")
	}
}

func TestCompare_UnknownPolicy(t *testing.T) {
	_, err := Compare(threeJobs(t), []string{PolicyFCFS, "bogus"}, DefaultEngineConfig())
	if !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("got %v, want ErrUnknownPolicy", err)
	}
}

func TestBest_LowestAverageWaiting(t *testing.T) {
	// GIVEN P1(0,4) P2(1,3) P3(2,2): FCFS waits 8/3, SJF and SRTF wait 7/3
	results, err := Compare(threeJobs(t), []string{PolicyFCFS, PolicySJF, PolicySRTF}, DefaultEngineConfig())
	if err != nil {
		t.Fatal(err)
	}

	// THEN SJF wins, and ties with SRTF keep the earlier entry
	best := Best(results)
	if best.Policy.Name != PolicySJF {
		t.Errorf("Best: got %s, want sjf", best.Policy.Name)
	}
	if Best(nil) != nil {
		t.Error("Best(nil) should be nil")
	}
}
