package metrics

import "github.com/GoSim-25-26J-441/bandit-sim/pkg/models"

// Improvement compares the epsilon-greedy total reward against the random one
type Improvement struct {
	RandomTotal  int     `json:"random_total"`
	GreedyTotal  int     `json:"greedy_total"`
	RandomRan    bool    `json:"random_ran"`
	GreedyRan    bool    `json:"greedy_ran"`
	Difference   int     `json:"difference"`
	Percent      float64 `json:"percent"`
	GreedyBetter bool    `json:"greedy_better"`
}

// CompareRuns computes greedy - random. A missing run counts as zero reward,
// and the percentage is 0 whenever the random total is 0.
func CompareRuns(random, greedy *models.RunResult) *Improvement {
	imp := &Improvement{
		RandomTotal: random.TotalReward(),
		GreedyTotal: greedy.TotalReward(),
		RandomRan:   random != nil,
		GreedyRan:   greedy != nil,
	}
	imp.Difference = imp.GreedyTotal - imp.RandomTotal
	if imp.RandomTotal > 0 {
		imp.Percent = float64(imp.Difference) / float64(imp.RandomTotal) * 100
	}
	imp.GreedyBetter = imp.Difference > 0
	return imp
}

// KPIs are the headline numbers shown above each results table
type KPIs struct {
	State          DataState `json:"state"`
	EmailsSent     int       `json:"emails_sent"`
	Conversions    int       `json:"conversions"`
	ConversionRate float64   `json:"conversion_rate"`
}

// ComputeKPIs returns sent/converted/rate for a run
func ComputeKPIs(run *models.RunResult) KPIs {
	switch {
	case run == nil:
		return KPIs{State: StateNotRun}
	case run.Len() == 0:
		return KPIs{State: StateEmpty}
	}
	k := KPIs{
		State:       StateReady,
		EmailsSent:  run.Len(),
		Conversions: run.TotalReward(),
	}
	k.ConversionRate = rate(k.Conversions, k.EmailsSent)
	return k
}
