package bandit

import (
	"fmt"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

// Stabilizer keeps the empirical rate finite for arms that were never chosen.
const Stabilizer = 1e-6

// DefaultEpsilon is the exploration rate used when none is configured.
const DefaultEpsilon = 0.10

// armStats is the running state of one epsilon-greedy run.
type armStats struct {
	counts  []float64
	rewards []float64
	rates   []float64
}

func newArmStats(armCount int) *armStats {
	return &armStats{
		counts:  make([]float64, armCount),
		rewards: make([]float64, armCount),
	}
}

// best returns the first arm with the highest rewards/(counts+Stabilizer).
func (s *armStats) best() int {
	if len(s.rates) != len(s.counts) {
		s.rates = make([]float64, len(s.counts))
	}
	for i := range s.counts {
		s.rates[i] = s.rewards[i] / (s.counts[i] + Stabilizer)
	}
	_, arm := utils.MaxFloat64Slice(s.rates)
	return arm
}

func (s *armStats) update(arm, reward int) {
	s.counts[arm]++
	s.rewards[arm] += float64(reward)
}

// choose applies one epsilon-greedy decision on the run's own state.
func (s *armStats) choose(stream Stream, epsilon float64) int {
	if stream.Float64() < epsilon {
		return stream.Intn(len(s.counts))
	}
	return s.best()
}

// SelectArm applies one epsilon-greedy decision: explore a uniform arm when the
// first draw is below epsilon, otherwise exploit the best empirical arm.
func SelectArm(stream Stream, epsilon float64, counts, rewards []float64) int {
	return (&armStats{counts: counts, rewards: rewards}).choose(stream, epsilon)
}

// SimulateEpsilonGreedy runs totalTrials epsilon-greedy decisions, updating
// per-arm counts and rewards after every trial. With all-zero state every rate
// is 0, so exploitation starts on arm 0.
func SimulateEpsilonGreedy(totalTrials, armCount int, truths []float64, epsilon float64, stream Stream) (*models.RunResult, error) {
	if err := validateRun(totalTrials, armCount, truths, stream); err != nil {
		return nil, err
	}
	if !(epsilon >= 0 && epsilon <= 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidEpsilon, epsilon)
	}

	stats := newArmStats(armCount)
	run := &models.RunResult{
		Policy:   models.PolicyEpsilonGreedy,
		ArmCount: armCount,
		Truths:   append([]float64(nil), truths...),
		Seed:     seedOf(stream),
		Epsilon:  epsilon,
		Trials:   make([]models.Trial, 0, totalTrials),
	}

	for i := 0; i < totalTrials; i++ {
		arm := stats.choose(stream, epsilon)
		p := truths[arm]
		reward := bernoulli(stream, p)
		stats.update(arm, reward)
		run.Trials = append(run.Trials, models.Trial{
			Step:        i + 1,
			Arm:         arm,
			Reward:      reward,
			SuccessProb: p,
		})
	}
	return run, nil
}
