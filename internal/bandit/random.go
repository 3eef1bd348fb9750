package bandit

import (
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

// SimulateRandom sends totalTrials/armCount emails to each arm in contiguous
// blocks, arm 0 first. The remainder of an uneven division is dropped. One
// stream is shared across all blocks.
func SimulateRandom(totalTrials, armCount int, truths []float64, stream Stream) (*models.RunResult, error) {
	if err := validateRun(totalTrials, armCount, truths, stream); err != nil {
		return nil, err
	}

	perArm := totalTrials / armCount
	run := &models.RunResult{
		Policy:   models.PolicyRandom,
		ArmCount: armCount,
		Truths:   append([]float64(nil), truths...),
		Seed:     seedOf(stream),
		Trials:   make([]models.Trial, 0, perArm*armCount),
	}

	for arm := 0; arm < armCount; arm++ {
		p := truths[arm]
		for n := 0; n < perArm; n++ {
			run.Trials = append(run.Trials, models.Trial{
				Step:        arm*perArm + n + 1,
				Arm:         arm,
				Reward:      bernoulli(stream, p),
				SuccessProb: p,
			})
		}
	}
	return run, nil
}
