package bandit

// Stream is the seeded random source threaded through every simulation.
// utils.RandSource satisfies it.
type Stream interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// bernoulli draws one binary outcome with success probability p.
func bernoulli(stream Stream, p float64) int {
	if stream.Float64() < p {
		return 1
	}
	return 0
}

// seedOf reports the seed of streams that expose one.
func seedOf(stream Stream) int64 {
	if s, ok := stream.(interface{ Seed() int64 }); ok {
		return s.Seed()
	}
	return 0
}
