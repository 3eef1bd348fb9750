package metrics

import "github.com/GoSim-25-26J-441/bandit-sim/pkg/models"

// ReplayView is the state of a run as of a given step
type ReplayView struct {
	State       DataState    `json:"state"`
	Step        int          `json:"step"`
	MaxStep     int          `json:"max_step"`
	TotalReward int          `json:"total_reward"`
	TopArm      int          `json:"top_arm"`
	TopArmShare float64      `json:"top_arm_share"`
	Regret      float64      `json:"regret"`
	Arms        []ArmSummary `json:"arms,omitempty"`
	Curve       []ArmCurve   `json:"curve,omitempty"`
}

// Replay restricts a run to trials with step <= step. A step outside
// [0, len] is clamped.
func Replay(run *models.RunResult, step int) *ReplayView {
	if run == nil {
		return &ReplayView{State: StateNotRun, TopArm: -1}
	}
	n := run.Len()
	if n == 0 {
		return &ReplayView{State: StateEmpty, TopArm: -1}
	}

	step = clampPrefix(step, n)
	prefix := run.Trials[:step]
	view := &ReplayView{
		State:   StateReady,
		Step:    step,
		MaxStep: n,
		TopArm:  -1,
		Regret:  Regret(run, step),
		Arms:    armSummariesOf(run, prefix),
		Curve:   curveOf(run, prefix),
	}

	for _, row := range view.Arms {
		view.TotalReward += row.Conversions
		if row.Chosen > 0 && (view.TopArm < 0 || row.Chosen > view.Arms[view.TopArm].Chosen) {
			view.TopArm = row.Arm
		}
	}
	if view.TopArm >= 0 {
		view.TopArmShare = rate(view.Arms[view.TopArm].Chosen, step)
	}
	return view
}

// ReplaySteps lists the replay positions interval, 2*interval, ... up to and
// including maxStep.
func ReplaySteps(maxStep, interval int) []int {
	if maxStep <= 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultRegretInterval
	}
	if maxStep < interval {
		return []int{maxStep}
	}
	steps := make([]int, 0, maxStep/interval+1)
	for s := interval; s <= maxStep; s += interval {
		steps = append(steps, s)
	}
	if steps[len(steps)-1] != maxStep {
		steps = append(steps, maxStep)
	}
	return steps
}
