package improvement

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

type fakeObjective struct {
	minimize bool
}

func (f fakeObjective) Name() string    { return "fake" }
func (f fakeObjective) Direction() bool { return f.minimize }
func (f fakeObjective) Tolerance() float64 { return 0.5 }
func (f fakeObjective) Evaluate([]*models.RunResult) (float64, error) {
	return 0, nil
}

// peakAt is a concave reward with its maximum at peak
func peakAt(peak float64) Evaluator {
	return func(ctx context.Context, epsilon float64) (float64, error) {
		return 1000 - 1000*(epsilon-peak)*(epsilon-peak), nil
	}
}

func TestNewOptimizerDefaults(t *testing.T) {
	opt := NewOptimizer(fakeObjective{}, 0, 0)
	if opt.maxIterations != 10 {
		t.Fatalf("expected default maxIterations 10, got %d", opt.maxIterations)
	}
	if opt.stepSize != 0.1 {
		t.Fatalf("expected default stepSize 0.1, got %f", opt.stepSize)
	}
	if opt.convergence == nil {
		t.Fatalf("expected default convergence strategy")
	}
}

func TestOptimizerFindsPeak(t *testing.T) {
	var reported []Step
	opt := NewOptimizer(fakeObjective{}, 20, 0.1).
		WithProgressReporter(func(s Step) { reported = append(reported, s) })

	res, err := opt.Optimize(context.Background(), 0.1, peakAt(0.3))
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	if math.Abs(res.BestEpsilon-0.3) > 1e-6 {
		t.Fatalf("expected best epsilon 0.3, got %f", res.BestEpsilon)
	}
	if !res.Converged || res.ConvergenceReason == "" {
		t.Fatalf("expected convergence, got %+v", res)
	}
	if res.Objective != "fake" {
		t.Errorf("unexpected objective %q", res.Objective)
	}
	if len(reported) != len(res.History) {
		t.Errorf("reported %d steps, history has %d", len(reported), len(res.History))
	}
	for i := 1; i < len(res.History); i++ {
		if res.History[i].Score > res.History[i-1].Score {
			t.Fatalf("score got worse at iteration %d", i)
		}
	}
	// 0.1, 0.2, 0.3 and their +-step neighbours are memoized
	if res.Evaluations >= 2*len(res.History)+1 {
		t.Errorf("expected memoization to save evaluations, got %d", res.Evaluations)
	}
}

func TestOptimizerMinimizes(t *testing.T) {
	regretAt := func(ctx context.Context, epsilon float64) (float64, error) {
		return math.Abs(epsilon - 0.6), nil
	}
	res, err := NewOptimizer(fakeObjective{minimize: true}, 30, 0.2).Optimize(context.Background(), 0.0, regretAt)
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	if math.Abs(res.BestEpsilon-0.6) > 1e-6 {
		t.Fatalf("expected best epsilon 0.6, got %f", res.BestEpsilon)
	}
	if res.BestValue > 1e-6 {
		t.Fatalf("expected near-zero regret, got %f", res.BestValue)
	}
}

func TestOptimizerStaysInBounds(t *testing.T) {
	res, err := NewOptimizer(fakeObjective{}, 10, 0.3).Optimize(context.Background(), 0.9, peakAt(2))
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	for _, s := range res.History {
		if s.Epsilon < 0 || s.Epsilon > 1 {
			t.Fatalf("epsilon %f escaped [0, 1]", s.Epsilon)
		}
	}
	if res.BestEpsilon != 1 {
		t.Fatalf("expected search to stop at the upper bound, got %f", res.BestEpsilon)
	}
}

func TestOptimizerShareObjectiveKeepsClimbing(t *testing.T) {
	// Shares live in [0, 1], so every window spans less than the count tolerance.
	share := func(ctx context.Context, epsilon float64) (float64, error) {
		return 1 - epsilon, nil
	}
	res, err := NewOptimizer(&BestArmShareObjective{}, 20, 0.1).Optimize(context.Background(), 1.0, share)
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	if res.BestEpsilon > 1e-9 {
		t.Fatalf("expected best epsilon 0, got %f (reason %q)", res.BestEpsilon, res.ConvergenceReason)
	}
	if math.Abs(res.BestValue-1) > 1e-9 {
		t.Fatalf("expected best share 1, got %f", res.BestValue)
	}
	if res.Iterations < 10 {
		t.Fatalf("expected at least 10 iterations to walk down from 1.0, got %d", res.Iterations)
	}
}

func TestOptimizerSkipsRejectedNeighbours(t *testing.T) {
	eval := func(ctx context.Context, epsilon float64) (float64, error) {
		if epsilon > 0.25 {
			return 0, errors.New("rejected")
		}
		return epsilon, nil
	}
	res, err := NewOptimizer(fakeObjective{}, 10, 0.1).Optimize(context.Background(), 0.1, eval)
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	if res.BestEpsilon > 0.25 {
		t.Fatalf("rejected epsilon %f selected", res.BestEpsilon)
	}
}

func TestOptimizerErrors(t *testing.T) {
	ctx := context.Background()
	opt := NewOptimizer(fakeObjective{}, 5, 0.1)

	if _, err := opt.Optimize(ctx, 1.5, peakAt(0.3)); err == nil {
		t.Fatal("expected error for initial epsilon outside [0, 1]")
	}
	if _, err := opt.Optimize(ctx, math.NaN(), peakAt(0.3)); err == nil {
		t.Fatal("expected error for NaN initial epsilon")
	}
	if _, err := opt.Optimize(ctx, 0.1, nil); err == nil {
		t.Fatal("expected error for nil evaluator")
	}
	if _, err := NewOptimizer(nil, 5, 0.1).Optimize(ctx, 0.1, peakAt(0.3)); err == nil {
		t.Fatal("expected error for nil objective")
	}

	failing := func(ctx context.Context, epsilon float64) (float64, error) {
		return 0, errors.New("boom")
	}
	if _, err := opt.Optimize(ctx, 0.1, failing); err == nil {
		t.Fatal("expected error when the initial evaluation fails")
	}
}

func TestOptimizerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opt := NewOptimizer(fakeObjective{}, 10, 0.1).
		WithProgressReporter(func(s Step) {
			if s.Iteration == 0 {
				cancel()
			}
		})
	if _, err := opt.Optimize(ctx, 0.1, peakAt(0.5)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		current, step float64
		want          []float64
	}{
		{0.5, 0.1, []float64{0.4, 0.6}},
		{0, 0.1, []float64{0.1}},
		{1, 0.2, []float64{0.8}},
		{0.5, 2, []float64{0, 1}},
	}
	for _, tt := range tests {
		got := neighbors(tt.current, tt.step)
		if len(got) != len(tt.want) {
			t.Fatalf("neighbors(%v, %v) = %v, want %v", tt.current, tt.step, got, tt.want)
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-12 {
				t.Fatalf("neighbors(%v, %v) = %v, want %v", tt.current, tt.step, got, tt.want)
			}
		}
	}
}
