package metrics

import "github.com/GoSim-25-26J-441/bandit-sim/pkg/models"

// RegretPoint is the theoretical regret after Step trials
type RegretPoint struct {
	Step        int     `json:"step"`
	TotalReward int     `json:"total_reward"`
	Regret      float64 `json:"regret"`
}

// Regret is best_truth*prefix - reward over the first prefix trials. The
// prefix is clamped to the log length. It can be negative for a lucky prefix.
func Regret(run *models.RunResult, prefix int) float64 {
	if run == nil {
		return 0
	}
	prefix = clampPrefix(prefix, run.Len())
	reward := 0
	for _, tr := range run.Trials[:prefix] {
		reward += tr.Reward
	}
	return run.BestTruth()*float64(prefix) - float64(reward)
}

// RegretSeries samples regret every interval steps and always at the final step.
func RegretSeries(run *models.RunResult, interval int) []RegretPoint {
	if run == nil || run.Len() == 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultRegretInterval
	}

	best := run.BestTruth()
	n := run.Len()
	points := make([]RegretPoint, 0, n/interval+1)
	reward := 0
	for i, tr := range run.Trials {
		reward += tr.Reward
		step := i + 1
		if step%interval == 0 || step == n {
			points = append(points, RegretPoint{
				Step:        step,
				TotalReward: reward,
				Regret:      best*float64(step) - float64(reward),
			})
		}
	}
	return points
}

func clampPrefix(prefix, n int) int {
	if prefix < 0 {
		return 0
	}
	if prefix > n {
		return n
	}
	return prefix
}
