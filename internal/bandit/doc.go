// Package bandit simulates two subject-line sending strategies against a fixed
// set of hidden conversion probabilities.
//
// The random policy sends an equal block of emails to every arm in arm order.
// The epsilon-greedy policy explores a uniformly random arm with probability
// epsilon and otherwise exploits the arm with the best empirical conversion
// rate so far, breaking ties toward the lowest index.
//
// All functions are pure given their Stream: no package state is shared
// between calls, so independent runs may execute concurrently as long as each
// owns its own Stream.
package bandit
