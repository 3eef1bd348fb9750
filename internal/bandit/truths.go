package bandit

import (
	"fmt"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/utils"
)

const (
	// DefaultLowProbability and DefaultHighProbability bound the hidden conversion rates.
	DefaultLowProbability  = 0.1
	DefaultHighProbability = 0.6
)

// GenerateTruths draws one hidden success probability per arm, uniform in
// [low, high), from a single stream seeded with seed.
func GenerateTruths(armCount int, seed int64, low, high float64) ([]float64, error) {
	if armCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidArmCount, armCount)
	}
	if !(low >= 0 && low <= high && high <= 1) {
		return nil, fmt.Errorf("%w: low=%g high=%g", ErrInvalidBounds, low, high)
	}

	rng := utils.NewRandSource(seed)
	truths := make([]float64, armCount)
	for i := range truths {
		truths[i] = rng.UniformFloat64(low, high)
	}
	return truths, nil
}

// NewArms pairs display names with truths. Missing names become "Arm <i>".
func NewArms(names []string, truths []float64) []models.Arm {
	arms := make([]models.Arm, len(truths))
	for i, p := range truths {
		name := fmt.Sprintf("Arm %d", i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		arms[i] = models.Arm{Index: i, Name: name, TrueProbability: p}
	}
	return arms
}

func validateRun(totalTrials, armCount int, truths []float64, stream Stream) error {
	if armCount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidArmCount, armCount)
	}
	if totalTrials <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrialCount, totalTrials)
	}
	if len(truths) != armCount {
		return fmt.Errorf("%w: got %d truths for %d arms", ErrTruthsMismatch, len(truths), armCount)
	}
	if stream == nil {
		return ErrNilStream
	}
	return nil
}
