package bandit

import (
	"errors"
	"testing"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

func TestSimulateRandomBlocks(t *testing.T) {
	truths, err := GenerateTruths(5, 42, 0.1, 0.6)
	if err != nil {
		t.Fatalf("GenerateTruths error: %v", err)
	}

	run, err := SimulateRandom(10000, 5, truths, utils.NewRandSource(123))
	if err != nil {
		t.Fatalf("SimulateRandom error: %v", err)
	}
	if run.Policy != models.PolicyRandom {
		t.Errorf("expected random policy, got %s", run.Policy)
	}
	if run.Seed != 123 {
		t.Errorf("expected seed 123 recorded, got %d", run.Seed)
	}
	if run.Len() != 10000 {
		t.Fatalf("expected 10000 trials, got %d", run.Len())
	}
	if err := run.Validate(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}

	counts := make([]int, 5)
	for i, tr := range run.Trials {
		wantArm := i / 2000
		if tr.Arm != wantArm {
			t.Fatalf("trial %d: expected arm %d in block order, got %d", i, wantArm, tr.Arm)
		}
		if tr.SuccessProb != truths[tr.Arm] {
			t.Fatalf("trial %d: success prob %f, want %f", i, tr.SuccessProb, truths[tr.Arm])
		}
		counts[tr.Arm]++
	}
	for arm, c := range counts {
		if c != 2000 {
			t.Errorf("arm %d: expected 2000 trials, got %d", arm, c)
		}
	}
}

func TestSimulateRandomSmallExample(t *testing.T) {
	truths := []float64{0.2, 0.4, 0.6, 0.3, 0.5}

	a, err := SimulateRandom(10, 5, truths, utils.NewRandSource(7))
	if err != nil {
		t.Fatalf("SimulateRandom error: %v", err)
	}
	b, err := SimulateRandom(10, 5, truths, utils.NewRandSource(7))
	if err != nil {
		t.Fatalf("SimulateRandom error: %v", err)
	}

	wantArms := []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}
	for i, tr := range a.Trials {
		if tr.Arm != wantArms[i] {
			t.Errorf("trial %d: arm %d, want %d", i, tr.Arm, wantArms[i])
		}
		if tr.Step != i+1 {
			t.Errorf("trial %d: step %d, want %d", i, tr.Step, i+1)
		}
		if tr != b.Trials[i] {
			t.Errorf("trial %d not reproducible: %+v vs %+v", i, tr, b.Trials[i])
		}
	}
}

func TestSimulateRandomTruncatesRemainder(t *testing.T) {
	truths := []float64{0.2, 0.4, 0.6}
	run, err := SimulateRandom(11, 3, truths, utils.NewRandSource(1))
	if err != nil {
		t.Fatalf("SimulateRandom error: %v", err)
	}
	if run.Len() != 9 {
		t.Fatalf("expected 9 trials after truncation, got %d", run.Len())
	}
	if err := run.Validate(); err != nil {
		t.Errorf("invariants violated: %v", err)
	}
}

func TestSimulateRandomFewerTrialsThanArms(t *testing.T) {
	run, err := SimulateRandom(3, 5, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, utils.NewRandSource(1))
	if err != nil {
		t.Fatalf("SimulateRandom error: %v", err)
	}
	if run.Len() != 0 {
		t.Errorf("expected empty run, got %d trials", run.Len())
	}
}

func TestSimulateRandomCopiesTruths(t *testing.T) {
	truths := []float64{0.2, 0.4}
	run, err := SimulateRandom(4, 2, truths, utils.NewRandSource(1))
	if err != nil {
		t.Fatalf("SimulateRandom error: %v", err)
	}
	truths[0] = 0.9
	if run.Truths[0] != 0.2 {
		t.Error("run result must not alias the caller's truths slice")
	}
}

func TestSimulateRandomErrors(t *testing.T) {
	truths := []float64{0.2, 0.4}
	rng := utils.NewRandSource(1)

	tests := []struct {
		name     string
		trials   int
		armCount int
		truths   []float64
		stream   Stream
		want     error
	}{
		{"zero trials", 0, 2, truths, rng, ErrInvalidTrialCount},
		{"zero arms", 10, 0, truths, rng, ErrInvalidArmCount},
		{"truth mismatch", 10, 3, truths, rng, ErrTruthsMismatch},
		{"nil stream", 10, 2, truths, nil, ErrNilStream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulateRandom(tt.trials, tt.armCount, tt.truths, tt.stream)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
