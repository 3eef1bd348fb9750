package simd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/bandit"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/session"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/config"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/logger"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

var (
	ErrSessionIDMissing = errors.New("session_id is required")
	ErrInvalidParams    = errors.New("invalid simulation parameters")
)

// RunParams overrides the configured seed, exploration rate or trial count for one run.
type RunParams struct {
	Seed    *int64   `json:"seed,omitempty"`
	Epsilon *float64 `json:"epsilon,omitempty"`
	Trials  int      `json:"trials,omitempty"`
}

// Executor runs simulations against the process-wide ground truth and stores
// the results in sessions. Each run executes synchronously on its own stream.
type Executor struct {
	cfg       *config.Config
	truths    []float64
	arms      []models.Arm
	store     *session.Store
	collector *metrics.Collector
}

// NewExecutor draws the ground truth once from cfg and returns an executor over store.
func NewExecutor(cfg *config.Config, store *session.Store, collector *metrics.Collector) (*Executor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	truths, err := bandit.GenerateTruths(cfg.ArmCount(), cfg.Truths.Seed, cfg.Truths.Low, cfg.Truths.High)
	if err != nil {
		return nil, fmt.Errorf("generate truths: %w", err)
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}

	logger.Debug("ground truth generated", "arms", len(truths), "seed", cfg.Truths.Seed)
	return &Executor{
		cfg:       cfg,
		truths:    truths,
		arms:      bandit.NewArms(cfg.Arms, truths),
		store:     store,
		collector: collector,
	}, nil
}

// Arms returns a copy of the arms with their hidden probabilities
func (e *Executor) Arms() []models.Arm {
	return append([]models.Arm(nil), e.arms...)
}

// Config returns the executor configuration
func (e *Executor) Config() *config.Config {
	return e.cfg
}

// Collector returns the run-outcome collector
func (e *Executor) Collector() *metrics.Collector {
	return e.collector
}

// Store returns the session store
func (e *Executor) Store() *session.Store {
	return e.store
}

// Run executes one policy without touching any session.
func (e *Executor) Run(ctx context.Context, policy models.Policy, params RunParams) (*models.RunResult, error) {
	start := time.Now()
	run, err := e.simulate(ctx, policy, params)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	run.ID = utils.GenerateRunID(shortPolicy(policy))
	run.ArmNames = append([]string(nil), e.cfg.Arms...)
	run.CompletedAt = time.Now().UTC()
	e.collector.RecordRun(run, elapsed)

	logger.Info("simulation completed",
		"run_id", run.ID,
		"policy", run.Policy,
		"trials", run.Len(),
		"total_reward", run.TotalReward(),
		"seed", run.Seed,
		"duration_ms", float64(elapsed.Microseconds())/1000.0)
	return run, nil
}

// simulate resolves params against the config and runs the simulator.
func (e *Executor) simulate(ctx context.Context, policy models.Policy, params RunParams) (*models.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trials, err := e.trials(params.Trials)
	if err != nil {
		return nil, err
	}

	switch policy {
	case models.PolicyRandom:
		if params.Epsilon != nil {
			return nil, fmt.Errorf("%w: epsilon only applies to the greedy policy", ErrInvalidParams)
		}
		seed := e.cfg.Random.Seed
		if params.Seed != nil {
			seed = *params.Seed
		}
		return bandit.SimulateRandom(trials, len(e.truths), e.truths, utils.NewRandSource(seed))
	case models.PolicyEpsilonGreedy:
		seed := e.cfg.Greedy.Seed
		if params.Seed != nil {
			seed = *params.Seed
		}
		epsilon := e.cfg.Greedy.Epsilon
		if params.Epsilon != nil {
			epsilon = *params.Epsilon
		}
		return bandit.SimulateEpsilonGreedy(trials, len(e.truths), e.truths, epsilon, utils.NewRandSource(seed))
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidParams, policy)
	}
}

func (e *Executor) trials(override int) (int, error) {
	if override == 0 {
		return e.cfg.Trials, nil
	}
	if override < 0 || override > config.MaxTrials {
		return 0, fmt.Errorf("%w: trials must be within [1, %d], got %d", ErrInvalidParams, config.MaxTrials, override)
	}
	return override, nil
}

// Simulate runs one policy and replaces the matching holder of the session.
func (e *Executor) Simulate(ctx context.Context, sessionID string, policy models.Policy, params RunParams) (*models.RunResult, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	log := logger.With("session_id", sessionID, "policy", policy)
	run, err := e.Run(ctx, policy, params)
	if err != nil {
		log.Warn("simulation failed", "error", err)
		return nil, err
	}
	if err := sess.Set(run); err != nil {
		return nil, err
	}
	log.Debug("session result replaced", "run_id", run.ID)
	return run, nil
}

// CompareParams configures a side-by-side run of both policies
type CompareParams struct {
	RandomSeed *int64   `json:"random_seed,omitempty"`
	GreedySeed *int64   `json:"greedy_seed,omitempty"`
	Epsilon    *float64 `json:"epsilon,omitempty"`
	Trials     int      `json:"trials,omitempty"`
}

// Compare runs both policies concurrently, stores both results, and returns
// the improvement of epsilon-greedy over random.
func (e *Executor) Compare(ctx context.Context, sessionID string, params CompareParams) (*metrics.Improvement, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}

	var random, greedy *models.RunResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		random, err = e.Run(gctx, models.PolicyRandom, RunParams{Seed: params.RandomSeed, Trials: params.Trials})
		return err
	})
	g.Go(func() error {
		var err error
		greedy, err = e.Run(gctx, models.PolicyEpsilonGreedy, RunParams{Seed: params.GreedySeed, Epsilon: params.Epsilon, Trials: params.Trials})
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn("comparison failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	if err := sess.SetPair(random, greedy); err != nil {
		return nil, err
	}

	imp := metrics.CompareRuns(random, greedy)
	logger.Info("comparison completed",
		"session_id", sessionID,
		"random_total", imp.RandomTotal,
		"greedy_total", imp.GreedyTotal,
		"improvement_pct", imp.Percent)
	return imp, nil
}

// Reset clears both holders of a session
func (e *Executor) Reset(sessionID string) error {
	sess, err := e.session(sessionID)
	if err != nil {
		return err
	}
	sess.Reset()
	logger.Info("session reset", "session_id", sessionID)
	return nil
}

// Summary summarizes one policy's current result in a session
func (e *Executor) Summary(sessionID string, policy models.Policy) (*metrics.Summary, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	return metrics.SummarizeWithInterval(sess.Get(policy), e.cfg.Replay.Interval), nil
}

// Replay views the epsilon-greedy result as of a step
func (e *Executor) Replay(sessionID string, step int) (*metrics.ReplayView, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	return metrics.Replay(sess.Get(models.PolicyEpsilonGreedy), step), nil
}

// Comparison compares whatever results the session currently holds
func (e *Executor) Comparison(sessionID string) (*metrics.Improvement, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return metrics.CompareRuns(snap.Random, snap.Greedy), nil
}

func (e *Executor) session(sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, ErrSessionIDMissing
	}
	return e.store.Get(sessionID)
}

// IsInvalidInput reports whether err stems from bad caller input rather than server state.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrInvalidParams,
		ErrSessionIDMissing,
		bandit.ErrInvalidArmCount,
		bandit.ErrInvalidTrialCount,
		bandit.ErrInvalidEpsilon,
		bandit.ErrInvalidBounds,
		bandit.ErrTruthsMismatch,
		session.ErrInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func shortPolicy(p models.Policy) string {
	if p == models.PolicyEpsilonGreedy {
		return "greedy"
	}
	return string(p)
}
