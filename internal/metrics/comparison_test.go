package metrics

import (
	"testing"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

func runWithRewards(policy models.Policy, rewards ...int) *models.RunResult {
	trials := make([]models.Trial, len(rewards))
	for i, r := range rewards {
		trials[i] = models.Trial{Step: i + 1, Arm: 0, Reward: r}
	}
	return &models.RunResult{Policy: policy, ArmCount: 1, Truths: []float64{0.5}, Trials: trials}
}

func TestCompareRuns(t *testing.T) {
	random := runWithRewards(models.PolicyRandom, 1, 0, 1, 0)
	greedy := runWithRewards(models.PolicyEpsilonGreedy, 1, 1, 1, 0)

	imp := CompareRuns(random, greedy)
	if imp.RandomTotal != 2 || imp.GreedyTotal != 3 {
		t.Errorf("totals = %d / %d, want 2 / 3", imp.RandomTotal, imp.GreedyTotal)
	}
	if imp.Difference != 1 {
		t.Errorf("difference = %d, want 1", imp.Difference)
	}
	if !almostEqual(imp.Percent, 50) {
		t.Errorf("percent = %f, want 50", imp.Percent)
	}
	if !imp.GreedyBetter || !imp.RandomRan || !imp.GreedyRan {
		t.Errorf("unexpected flags: %+v", imp)
	}
}

func TestCompareRunsZeroRandomTotal(t *testing.T) {
	tests := []struct {
		name   string
		random *models.RunResult
	}{
		{"random not run", nil},
		{"random all zero", runWithRewards(models.PolicyRandom, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := CompareRuns(tt.random, runWithRewards(models.PolicyEpsilonGreedy, 1, 1))
			if imp.Percent != 0 {
				t.Errorf("percent must be 0 when random total is 0, got %f", imp.Percent)
			}
			if imp.Difference != 2 {
				t.Errorf("difference = %d, want 2", imp.Difference)
			}
		})
	}
}

func TestCompareRunsNegative(t *testing.T) {
	imp := CompareRuns(runWithRewards(models.PolicyRandom, 1, 1, 1, 1), runWithRewards(models.PolicyEpsilonGreedy, 1, 0, 0, 0))
	if imp.Difference != -3 || !almostEqual(imp.Percent, -75) || imp.GreedyBetter {
		t.Errorf("unexpected comparison %+v", imp)
	}
}

func TestComputeKPIs(t *testing.T) {
	if k := ComputeKPIs(nil); k.State != StateNotRun {
		t.Errorf("expected not_run, got %s", k.State)
	}
	if k := ComputeKPIs(runWithRewards(models.PolicyRandom)); k.State != StateEmpty || k.ConversionRate != 0 {
		t.Errorf("expected empty KPIs, got %+v", k)
	}
	k := ComputeKPIs(runWithRewards(models.PolicyRandom, 1, 0, 0, 1))
	if k.State != StateReady || k.EmailsSent != 4 || k.Conversions != 2 || !almostEqual(k.ConversionRate, 0.5) {
		t.Errorf("unexpected KPIs %+v", k)
	}
}
