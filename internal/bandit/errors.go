package bandit

import "errors"

var (
	ErrInvalidArmCount   = errors.New("arm count must be positive")
	ErrInvalidTrialCount = errors.New("trial count must be positive")
	ErrInvalidEpsilon    = errors.New("epsilon must be within [0, 1]")
	ErrInvalidBounds     = errors.New("probability bounds must satisfy 0 <= low <= high <= 1")
	ErrTruthsMismatch    = errors.New("truths length does not match arm count")
	ErrNilStream         = errors.New("random stream is required")
)
