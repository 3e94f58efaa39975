package main

import (
	"testing"
	"time"
)

func TestCheckRuns(t *testing.T) {
	for _, n := range []int{0, 1, 200} {
		if err := checkRuns(n); err != nil {
			t.Errorf("checkRuns(%d) = %v, want nil", n, err)
		}
	}
	if err := checkRuns(-1); err == nil {
		t.Error("expected error for negative runs")
	}
}

func TestPercentile(t *testing.T) {
	sorted := make([]time.Duration, 100)
	for i := range sorted {
		sorted[i] = time.Duration(i+1) * time.Millisecond
	}
	if got := percentile(sorted, 0.50); got != 50*time.Millisecond {
		t.Errorf("p50 = %s, want 50ms", got)
	}
	if got := percentile(sorted, 0.95); got != 95*time.Millisecond {
		t.Errorf("p95 = %s, want 95ms", got)
	}
}
