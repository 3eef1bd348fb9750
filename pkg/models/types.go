package models

import (
	"fmt"
	"time"
)

// Policy identifies the sending strategy that produced a run
type Policy string

const (
	PolicyRandom        Policy = "random"
	PolicyEpsilonGreedy Policy = "epsilon_greedy"
)

// ParsePolicy accepts the canonical names plus the short aliases used by the API and CLI
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "random", "ab", "monte_carlo":
		return PolicyRandom, nil
	case "epsilon_greedy", "greedy", "rl":
		return PolicyEpsilonGreedy, nil
	default:
		return "", fmt.Errorf("unknown policy %q (must be random or greedy)", s)
	}
}

// Arm is one subject line with its hidden conversion probability
type Arm struct {
	Index           int     `json:"index"`
	Name            string  `json:"name"`
	TrueProbability float64 `json:"true_probability"`
}

// Trial is one simulated send
type Trial struct {
	Step        int     `json:"step"`
	Arm         int     `json:"arm"`
	Reward      int     `json:"reward"`
	SuccessProb float64 `json:"success_prob"`
}

// RunResult is the ordered trial log of one simulator invocation, together with
// the ground truth it was sampled from.
type RunResult struct {
	ID          string    `json:"id"`
	Policy      Policy    `json:"policy"`
	ArmCount    int       `json:"arm_count"`
	ArmNames    []string  `json:"arm_names,omitempty"`
	Truths      []float64 `json:"truths"`
	Epsilon     float64   `json:"epsilon,omitempty"`
	Seed        int64     `json:"seed"`
	Trials      []Trial   `json:"trials"`
	CompletedAt time.Time `json:"completed_at"`
}

// Len returns the number of trials in the log
func (r *RunResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Trials)
}

// TotalReward returns the sum of rewards over the whole log
func (r *RunResult) TotalReward() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, tr := range r.Trials {
		total += tr.Reward
	}
	return total
}

// BestTruth returns the highest true probability among the run's arms
func (r *RunResult) BestTruth() float64 {
	if r == nil {
		return 0
	}
	best := 0.0
	for i, p := range r.Truths {
		if i == 0 || p > best {
			best = p
		}
	}
	return best
}

// ArmName returns the display name of arm i, falling back to "Arm <i>"
func (r *RunResult) ArmName(i int) string {
	if r != nil && i >= 0 && i < len(r.ArmNames) && r.ArmNames[i] != "" {
		return r.ArmNames[i]
	}
	return fmt.Sprintf("Arm %d", i)
}

// Validate checks the log invariants: steps are exactly 1..N and every arm index is in range.
func (r *RunResult) Validate() error {
	if r == nil {
		return fmt.Errorf("run result is nil")
	}
	for i, tr := range r.Trials {
		if tr.Step != i+1 {
			return fmt.Errorf("trial %d: step %d, want %d", i, tr.Step, i+1)
		}
		if tr.Arm < 0 || tr.Arm >= r.ArmCount {
			return fmt.Errorf("trial %d: arm %d out of range [0, %d)", i, tr.Arm, r.ArmCount)
		}
		if tr.Reward != 0 && tr.Reward != 1 {
			return fmt.Errorf("trial %d: reward %d is not binary", i, tr.Reward)
		}
	}
	return nil
}
