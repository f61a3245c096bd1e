package leader

import (
	"testing"
	"time"
)

func TestEpochBoundaries(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    uint64
	}{
		{0, 0},
		{9 * time.Second, 0},
		{10 * time.Second, 1},
		{19 * time.Second, 1},
		{20 * time.Second, 2},
	}
	for _, c := range cases {
		got := Epoch(c.elapsed)
		if got != c.want {
			t.Errorf("Epoch(%s) = %d, want %d", c.elapsed, got, c.want)
		}
	}
}

func TestEpochClampsNegative(t *testing.T) {
	if got := Epoch(-5 * time.Second); got != 0 {
		t.Errorf("Epoch(negative) = %d, want 0", got)
	}
}

func TestLeaderDeterministic(t *testing.T) {
	a := Leader(42, 7)
	b := Leader(42, 7)
	if a != b {
		t.Fatal("Leader must be a pure deterministic function")
	}
	if a >= 7 {
		t.Fatalf("Leader() = %d, out of range [0,7)", a)
	}
}

func TestLeaderVariesAcrossEpochs(t *testing.T) {
	seen := make(map[uint64]bool)
	for e := uint64(0); e < 20; e++ {
		seen[Leader(e, 5)] = true
	}
	if len(seen) < 2 {
		t.Fatal("Leader should distribute across node ids over many epochs")
	}
}

func TestLeaderPanicsOnZeroNodes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nodesCount == 0")
		}
	}()
	Leader(1, 0)
}
