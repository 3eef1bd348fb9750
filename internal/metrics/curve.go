package metrics

import "github.com/GoSim-25-26J-441/bandit-sim/pkg/models"

// CurvePoint is one trial of an arm's cumulative-reward series
type CurvePoint struct {
	Step      int `json:"step"`
	CumReward int `json:"cum_reward"`
	CumChosen int `json:"cum_chosen"`
}

// ArmCurve is the occurrence-ordered cumulative series of one arm
type ArmCurve struct {
	Arm    int          `json:"arm"`
	Name   string       `json:"name"`
	Points []CurvePoint `json:"points"`
}

// CumulativeCurve returns, for each arm, the running reward sum and running
// chosen count over that arm's trials in step order.
func CumulativeCurve(run *models.RunResult) []ArmCurve {
	if run == nil {
		return nil
	}
	return curveOf(run, run.Trials)
}

func curveOf(run *models.RunResult, trials []models.Trial) []ArmCurve {
	curves := make([]ArmCurve, run.ArmCount)
	for i := range curves {
		curves[i] = ArmCurve{Arm: i, Name: run.ArmName(i), Points: []CurvePoint{}}
	}

	// Trials are already in step order; the random policy's block layout
	// simply yields one contiguous series per arm.
	for _, tr := range trials {
		c := &curves[tr.Arm]
		prev := CurvePoint{}
		if n := len(c.Points); n > 0 {
			prev = c.Points[n-1]
		}
		c.Points = append(c.Points, CurvePoint{
			Step:      tr.Step,
			CumReward: prev.CumReward + tr.Reward,
			CumChosen: prev.CumChosen + 1,
		})
	}
	return curves
}
