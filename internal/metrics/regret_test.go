package metrics

import (
	"testing"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/bandit"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

func TestRegretPrefix(t *testing.T) {
	run := fixtureRun()
	tests := []struct {
		prefix int
		want   float64
	}{
		{0, 0},
		{1, 0.5 - 1},
		{2, 1.0 - 2},
		{4, 2.0 - 3},
		{5, 2.5 - 3},
		{99, 2.5 - 3},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := Regret(run, tt.prefix); !almostEqual(got, tt.want) {
			t.Errorf("Regret(prefix=%d) = %f, want %f", tt.prefix, got, tt.want)
		}
	}
	if Regret(nil, 10) != 0 {
		t.Error("expected zero regret for nil run")
	}
}

func TestRegretSeriesSampling(t *testing.T) {
	trials := make([]models.Trial, 250)
	for i := range trials {
		trials[i] = models.Trial{Step: i + 1, Arm: 0}
	}
	run := &models.RunResult{Policy: models.PolicyEpsilonGreedy, ArmCount: 1, Truths: []float64{0.4}, Trials: trials}

	series := RegretSeries(run, 100)
	wantSteps := []int{100, 200, 250}
	if len(series) != len(wantSteps) {
		t.Fatalf("expected %d points, got %d", len(wantSteps), len(series))
	}
	for i, step := range wantSteps {
		if series[i].Step != step {
			t.Errorf("point %d step = %d, want %d", i, series[i].Step, step)
		}
		if !almostEqual(series[i].Regret, 0.4*float64(step)) {
			t.Errorf("point %d regret = %f, want %f", i, series[i].Regret, 0.4*float64(step))
		}
	}

	if RegretSeries(nil, 100) != nil {
		t.Error("expected nil series for nil run")
	}
	if got := RegretSeries(run, 0); len(got) != 3 {
		t.Errorf("non-positive interval should fall back to default, got %d points", len(got))
	}
}

func TestRegretGrowsSublinearly(t *testing.T) {
	truths := []float64{0.2, 0.4, 0.6, 0.3, 0.5}
	const seeds = 20
	const n = 10000

	var early, late float64
	for seed := int64(1); seed <= seeds; seed++ {
		run, err := bandit.SimulateEpsilonGreedy(n, 5, truths, 0.1, utils.NewRandSource(seed))
		if err != nil {
			t.Fatalf("SimulateEpsilonGreedy error: %v", err)
		}
		half := Regret(run, n/2)
		early += half
		late += Regret(run, n) - half
	}
	early /= seeds
	late /= seeds

	if early+late <= 0 {
		t.Errorf("average regret should be positive in expectation, got %f", early+late)
	}
	// Uniform random sending has regret 0.2 per step; learning must beat that.
	if (early+late)/n >= 0.2 {
		t.Errorf("average regret per step %f is no better than uniform sending", (early+late)/n)
	}
	if late >= early {
		t.Errorf("regret accrued in the second half (%f) should be below the first half (%f)", late, early)
	}
}
