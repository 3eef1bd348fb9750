package simd

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/bandit"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/improvement"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/config"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/logger"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

const (
	// MaxTuneIterations bounds the number of hill-climbing iterations per request
	MaxTuneIterations = 50
	// MaxTuneSeeds bounds how many greedy runs are averaged per evaluated epsilon
	MaxTuneSeeds = 20

	defaultTuneSeeds = 3
)

// TuneParams configures an epsilon search. Every evaluated epsilon runs
// epsilon-greedy once per seed and averages the objective over those runs.
type TuneParams struct {
	Objective      string   `json:"objective,omitempty"`
	InitialEpsilon *float64 `json:"initial_epsilon,omitempty"`
	StepSize       float64  `json:"step_size,omitempty"`
	MaxIterations  int      `json:"max_iterations,omitempty"`
	Seeds          []int64  `json:"seeds,omitempty"`
	Trials         int      `json:"trials,omitempty"`
}

// Tune searches for the exploration rate that optimizes the requested objective.
func (e *Executor) Tune(ctx context.Context, params TuneParams) (*improvement.Result, error) {
	objective, err := improvement.NewObjective(params.Objective)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	initial := e.cfg.Greedy.Epsilon
	if params.InitialEpsilon != nil {
		initial = *params.InitialEpsilon
	}
	if err := config.ValidateEpsilon(initial); err != nil {
		return nil, fmt.Errorf("%w: initial %v", bandit.ErrInvalidEpsilon, err)
	}
	if !(params.StepSize >= 0 && params.StepSize <= 1) {
		return nil, fmt.Errorf("%w: step_size must be within (0, 1], got %g", ErrInvalidParams, params.StepSize)
	}
	if params.MaxIterations < 0 || params.MaxIterations > MaxTuneIterations {
		return nil, fmt.Errorf("%w: max_iterations must be within [1, %d], got %d", ErrInvalidParams, MaxTuneIterations, params.MaxIterations)
	}
	if len(params.Seeds) > MaxTuneSeeds {
		return nil, fmt.Errorf("%w: at most %d seeds, got %d", ErrInvalidParams, MaxTuneSeeds, len(params.Seeds))
	}
	trials, err := e.trials(params.Trials)
	if err != nil {
		return nil, err
	}

	seeds := params.Seeds
	if len(seeds) == 0 {
		seeds = make([]int64, defaultTuneSeeds)
		for i := range seeds {
			seeds[i] = e.cfg.Greedy.Seed + int64(i)
		}
	}

	eval := func(ctx context.Context, epsilon float64) (float64, error) {
		runs := make([]*models.RunResult, len(seeds))
		g, gctx := errgroup.WithContext(ctx)
		for i, seed := range seeds {
			g.Go(func() error {
				run, err := e.simulate(gctx, models.PolicyEpsilonGreedy, RunParams{
					Seed:    &seed,
					Epsilon: &epsilon,
					Trials:  trials,
				})
				runs[i] = run
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}
		return objective.Evaluate(runs)
	}

	start := time.Now()
	optimizer := improvement.NewOptimizer(objective, params.MaxIterations, params.StepSize).
		WithProgressReporter(func(s improvement.Step) {
			logger.Debug("tuning step",
				"iteration", s.Iteration,
				"epsilon", s.Epsilon,
				"step_size", s.StepSize,
				"value", s.Value)
		})

	res, err := optimizer.Optimize(ctx, initial, eval)
	if err != nil {
		logger.Warn("tuning failed", "objective", objective.Name(), "error", err)
		return nil, err
	}

	e.collector.Record(metricTunedEpsilon, res.BestEpsilon, time.Now(), map[string]string{"objective": res.Objective})
	logger.Info("tuning completed",
		"objective", res.Objective,
		"best_epsilon", res.BestEpsilon,
		"best_value", res.BestValue,
		"iterations", res.Iterations,
		"evaluations", res.Evaluations,
		"reason", res.ConvergenceReason,
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

const metricTunedEpsilon = "tuned_epsilon"
