package improvement

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

// Evaluator returns the objective value of running epsilon-greedy at epsilon.
type Evaluator func(ctx context.Context, epsilon float64) (float64, error)

// Step is the optimizer state after one iteration
type Step struct {
	Iteration int     `json:"iteration"`
	Epsilon   float64 `json:"epsilon"`
	StepSize  float64 `json:"step_size"`
	Value     float64 `json:"value"`
	// Score is Value oriented so that lower is better
	Score float64 `json:"score"`
}

// Result contains the final optimization result
type Result struct {
	Objective         string  `json:"objective"`
	BestEpsilon       float64 `json:"best_epsilon"`
	BestValue         float64 `json:"best_value"`
	Iterations        int     `json:"iterations"`
	Evaluations       int     `json:"evaluations"`
	History           []Step  `json:"history"`
	Converged         bool    `json:"converged"`
	ConvergenceReason string  `json:"convergence_reason"`
}

// MinStepSize stops the search once the step has been halved below it
const MinStepSize = 0.005

// Optimizer hill-climbs epsilon over [0, 1]. Each iteration tries
// epsilon-step and epsilon+step; when neither improves, the step is halved.
type Optimizer struct {
	objective     Objective
	maxIterations int
	stepSize      float64
	convergence   ConvergenceStrategy
	progress      func(step Step)

	mu          sync.Mutex
	cache       map[float64]float64
	evaluations int
}

// NewOptimizer creates a new hill-climbing optimizer
func NewOptimizer(objective Objective, maxIterations int, stepSize float64) *Optimizer {
	if stepSize <= 0 {
		stepSize = 0.1
	}
	if maxIterations <= 0 {
		maxIterations = 10
	}
	cfg := DefaultConvergenceConfig()
	if objective != nil {
		cfg.ScoreTolerance = objective.Tolerance()
	}
	return &Optimizer{
		objective:     objective,
		maxIterations: maxIterations,
		stepSize:      stepSize,
		convergence:   NewCombinedStrategy(cfg),
	}
}

// WithConvergence sets a custom convergence strategy
func (o *Optimizer) WithConvergence(strategy ConvergenceStrategy) *Optimizer {
	o.convergence = strategy
	return o
}

// WithProgressReporter sets a callback invoked after each iteration
func (o *Optimizer) WithProgressReporter(fn func(step Step)) *Optimizer {
	o.progress = fn
	return o
}

// Optimize runs the search from initial and returns the best epsilon found
func (o *Optimizer) Optimize(ctx context.Context, initial float64, eval Evaluator) (*Result, error) {
	if o.objective == nil {
		return nil, fmt.Errorf("objective is required")
	}
	if eval == nil {
		return nil, fmt.Errorf("evaluation function is required")
	}
	if !(initial >= 0 && initial <= 1) {
		return nil, fmt.Errorf("initial epsilon must be within [0, 1], got %g", initial)
	}

	o.mu.Lock()
	o.cache = make(map[float64]float64)
	o.evaluations = 0
	o.mu.Unlock()

	current := initial
	currentValue, err := o.evaluate(ctx, eval, current)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate initial epsilon: %w", err)
	}
	step := o.stepSize

	history := []Step{o.step(0, current, step, currentValue)}
	o.report(history[0])

	for iteration := 1; iteration <= o.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bestEps, bestValue, moved := current, currentValue, false
		for _, candidate := range neighbors(current, step) {
			value, err := o.evaluate(ctx, eval, candidate)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				// Skip epsilons the evaluator rejects
				continue
			}
			if o.score(value) < o.score(bestValue) {
				bestEps, bestValue, moved = candidate, value, true
			}
		}

		if moved {
			current, currentValue = bestEps, bestValue
		} else {
			step /= 2
		}

		s := o.step(iteration, current, step, currentValue)
		history = append(history, s)
		o.report(s)

		if step < MinStepSize {
			return o.result(history, true, fmt.Sprintf("step size %.4f below minimum", step)), nil
		}
		if o.convergence != nil {
			if converged, reason := o.convergence.CheckConvergence(history); converged {
				return o.result(history, true, reason), nil
			}
		}
	}

	return o.result(history, false, "max iterations reached"), nil
}

// evaluate memoizes eval per epsilon so revisited points cost nothing
func (o *Optimizer) evaluate(ctx context.Context, eval Evaluator, epsilon float64) (float64, error) {
	key := math.Round(epsilon*1e9) / 1e9

	o.mu.Lock()
	if v, ok := o.cache[key]; ok {
		o.mu.Unlock()
		return v, nil
	}
	o.mu.Unlock()

	v, err := eval(ctx, key)
	if err != nil {
		return 0, err
	}

	o.mu.Lock()
	o.cache[key] = v
	o.evaluations++
	o.mu.Unlock()
	return v, nil
}

func (o *Optimizer) score(value float64) float64 {
	if o.objective.Direction() {
		return value
	}
	return -value
}

func (o *Optimizer) step(iteration int, epsilon, stepSize, value float64) Step {
	return Step{
		Iteration: iteration,
		Epsilon:   epsilon,
		StepSize:  stepSize,
		Value:     value,
		Score:     o.score(value),
	}
}

func (o *Optimizer) report(s Step) {
	if o.progress != nil {
		o.progress(s)
	}
}

func (o *Optimizer) result(history []Step, converged bool, reason string) *Result {
	o.mu.Lock()
	evaluations := o.evaluations
	o.mu.Unlock()

	last := history[len(history)-1]
	return &Result{
		Objective:         o.objective.Name(),
		BestEpsilon:       last.Epsilon,
		BestValue:         last.Value,
		Iterations:        last.Iteration,
		Evaluations:       evaluations,
		History:           history,
		Converged:         converged,
		ConvergenceReason: reason,
	}
}

// neighbors returns current-step and current+step clamped to [0, 1], skipping
// any that collapse onto current.
func neighbors(current, step float64) []float64 {
	out := make([]float64, 0, 2)
	for _, c := range []float64{current - step, current + step} {
		c = utils.ClampFloat64(c, 0, 1)
		if math.Abs(c-current) > 1e-12 {
			out = append(out, c)
		}
	}
	if len(out) == 2 && out[0] == out[1] {
		out = out[:1]
	}
	return out
}
