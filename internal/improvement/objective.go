// Package improvement searches for the exploration rate that gets the most
// out of the epsilon-greedy policy on a fixed scenario.
package improvement

import (
	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

// Objective scores a batch of epsilon-greedy runs that share one epsilon.
type Objective interface {
	// Evaluate computes the objective value over runs.
	Evaluate(runs []*models.RunResult) (float64, error)

	// Name returns the name of the objective.
	Name() string

	// Direction returns whether we're minimizing (true) or maximizing (false).
	Direction() bool

	// Tolerance is the score change below which two evaluations count as equal.
	Tolerance() float64
}

const (
	// countTolerance treats values within half a conversion as equal
	countTolerance = 0.5
	// shareTolerance treats shares within a tenth of a percentage point as equal
	shareTolerance = 0.001
)

// ObjectiveType names a built-in objective
type ObjectiveType string

const (
	// ObjectiveMaximizeReward maximizes mean total conversions
	ObjectiveMaximizeReward ObjectiveType = "total_reward"
	// ObjectiveMinimizeRegret minimizes mean final regret
	ObjectiveMinimizeRegret ObjectiveType = "regret"
	// ObjectiveMaximizeBestArmShare maximizes the share of sends on the best subject line
	ObjectiveMaximizeBestArmShare ObjectiveType = "best_arm_share"
)

// NewObjective creates an objective from a type string. An empty string selects total_reward.
func NewObjective(objType string) (Objective, error) {
	switch ObjectiveType(objType) {
	case "", ObjectiveMaximizeReward:
		return &RewardObjective{}, nil
	case ObjectiveMinimizeRegret:
		return &RegretObjective{}, nil
	case ObjectiveMaximizeBestArmShare:
		return &BestArmShareObjective{}, nil
	default:
		return nil, &UnknownObjectiveError{ObjectiveType: objType}
	}
}

// RewardObjective maximizes mean total reward
type RewardObjective struct{}

func (o *RewardObjective) Name() string {
	return string(ObjectiveMaximizeReward)
}

func (o *RewardObjective) Direction() bool {
	return false
}

func (o *RewardObjective) Tolerance() float64 {
	return countTolerance
}

func (o *RewardObjective) Evaluate(runs []*models.RunResult) (float64, error) {
	return meanOver(runs, func(run *models.RunResult) float64 {
		return float64(run.TotalReward())
	})
}

// RegretObjective minimizes mean regret at the last step
type RegretObjective struct{}

func (o *RegretObjective) Name() string {
	return string(ObjectiveMinimizeRegret)
}

func (o *RegretObjective) Direction() bool {
	return true
}

func (o *RegretObjective) Tolerance() float64 {
	return countTolerance
}

func (o *RegretObjective) Evaluate(runs []*models.RunResult) (float64, error) {
	return meanOver(runs, func(run *models.RunResult) float64 {
		return metrics.Regret(run, run.Len())
	})
}

// BestArmShareObjective maximizes the fraction of sends that went to the arm
// with the highest true probability.
type BestArmShareObjective struct{}

func (o *BestArmShareObjective) Name() string {
	return string(ObjectiveMaximizeBestArmShare)
}

func (o *BestArmShareObjective) Direction() bool {
	return false
}

func (o *BestArmShareObjective) Tolerance() float64 {
	return shareTolerance
}

func (o *BestArmShareObjective) Evaluate(runs []*models.RunResult) (float64, error) {
	return meanOver(runs, func(run *models.RunResult) float64 {
		best := 0
		for i, p := range run.Truths {
			if p > run.Truths[best] {
				best = i
			}
		}
		rows := metrics.ArmSummaries(run)
		if best >= len(rows) {
			return 0
		}
		return rows[best].TrafficShare
	})
}

func meanOver(runs []*models.RunResult, value func(*models.RunResult) float64) (float64, error) {
	if len(runs) == 0 {
		return 0, &InvalidRunsError{Reason: "no runs to evaluate"}
	}
	values := make([]float64, len(runs))
	for i, run := range runs {
		if run == nil || run.Len() == 0 {
			return 0, &InvalidRunsError{Reason: "run has no trials"}
		}
		values[i] = value(run)
	}
	return utils.Mean(values), nil
}

// UnknownObjectiveError indicates an unknown objective type
type UnknownObjectiveError struct {
	ObjectiveType string
}

func (e *UnknownObjectiveError) Error() string {
	return "unknown objective type: " + e.ObjectiveType
}

// InvalidRunsError indicates runs that cannot be scored
type InvalidRunsError struct {
	Reason string
}

func (e *InvalidRunsError) Error() string {
	return "invalid runs: " + e.Reason
}
