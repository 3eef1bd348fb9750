package metrics

import (
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

// DataState tells callers whether a summary has anything to show
type DataState string

const (
	// StateNotRun means no simulation has produced a result yet.
	StateNotRun DataState = "not_run"
	// StateEmpty means a simulation ran but produced zero trials.
	StateEmpty DataState = "empty"
	// StateReady means the summary holds data.
	StateReady DataState = "ready"
)

// DefaultRegretInterval is the step spacing of regret series and replay steps
const DefaultRegretInterval = 100

// ArmSummary is one row of the per-arm results table
type ArmSummary struct {
	Arm          int     `json:"arm"`
	Name         string  `json:"name"`
	Chosen       int     `json:"chosen"`
	Conversions  int     `json:"conversions"`
	Rate         float64 `json:"rate"`
	RatePercent  float64 `json:"rate_percent"`
	TrafficShare float64 `json:"traffic_share"`
}

// Summary is everything the display layer needs for one run
type Summary struct {
	State          DataState     `json:"state"`
	RunID          string        `json:"run_id,omitempty"`
	Policy         models.Policy `json:"policy,omitempty"`
	Epsilon        float64       `json:"epsilon,omitempty"`
	TotalTrials    int           `json:"total_trials"`
	TotalReward    int           `json:"total_reward"`
	ConversionRate float64       `json:"conversion_rate"`
	BestTruth      float64       `json:"best_truth"`
	Regret         *float64      `json:"regret,omitempty"`
	Arms           []ArmSummary  `json:"arms,omitempty"`
	Curve          []ArmCurve    `json:"curve,omitempty"`
	RegretSeries   []RegretPoint `json:"regret_series,omitempty"`
}

// HasData reports whether the summary holds at least one trial
func (s *Summary) HasData() bool {
	return s != nil && s.State == StateReady
}

// Summarize reduces a run to its per-arm table, cumulative curve and, for
// epsilon-greedy runs, its regret series. A nil run yields StateNotRun and a
// zero-trial run yields StateEmpty; neither is an error.
func Summarize(run *models.RunResult) *Summary {
	return SummarizeWithInterval(run, DefaultRegretInterval)
}

// SummarizeWithInterval is Summarize with an explicit regret sampling interval
func SummarizeWithInterval(run *models.RunResult, interval int) *Summary {
	if run == nil {
		return &Summary{State: StateNotRun}
	}

	s := &Summary{
		State:     StateEmpty,
		RunID:     run.ID,
		Policy:    run.Policy,
		Epsilon:   run.Epsilon,
		BestTruth: run.BestTruth(),
	}
	if run.Len() == 0 {
		return s
	}

	s.State = StateReady
	s.TotalTrials = run.Len()
	s.TotalReward = run.TotalReward()
	s.ConversionRate = rate(s.TotalReward, s.TotalTrials)
	s.Arms = ArmSummaries(run)
	s.Curve = CumulativeCurve(run)

	if run.Policy == models.PolicyEpsilonGreedy {
		regret := Regret(run, run.Len())
		s.Regret = &regret
		s.RegretSeries = RegretSeries(run, interval)
	}
	return s
}

// ArmSummaries groups trials by arm. Every arm in [0, ArmCount) gets a row;
// arms that were never chosen report a zero rate.
func ArmSummaries(run *models.RunResult) []ArmSummary {
	if run == nil {
		return nil
	}
	return armSummariesOf(run, run.Trials)
}

func armSummariesOf(run *models.RunResult, trials []models.Trial) []ArmSummary {
	rows := make([]ArmSummary, run.ArmCount)
	for i := range rows {
		rows[i] = ArmSummary{Arm: i, Name: run.ArmName(i)}
	}
	for _, tr := range trials {
		rows[tr.Arm].Chosen++
		rows[tr.Arm].Conversions += tr.Reward
	}

	total := len(trials)
	for i := range rows {
		rows[i].Rate = rate(rows[i].Conversions, rows[i].Chosen)
		rows[i].RatePercent = utils.Round(rows[i].Rate*100, 2)
		rows[i].TrafficShare = rate(rows[i].Chosen, total)
	}
	return rows
}

// rate divides with a zero-denominator guard
func rate(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
