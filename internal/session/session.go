// Package session holds the two run-result holders the display layer works
// against: one for the random policy and one for epsilon-greedy.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

// Session owns the random and epsilon-greedy results of one viewer.
// Each holder is replaced wholesale on re-run; Reset clears both together.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.RWMutex
	updatedAt time.Time
	random    *models.RunResult
	greedy    *models.RunResult
}

// Snapshot is a consistent copy of both holders at one instant.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Random    *models.RunResult
	Greedy    *models.RunResult
}

// New creates an empty session
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, CreatedAt: now, updatedAt: now}
}

// Set stores a completed run in the holder matching its policy.
func (s *Session) Set(run *models.RunResult) error {
	if run == nil {
		return fmt.Errorf("run result is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch run.Policy {
	case models.PolicyRandom:
		s.random = run
	case models.PolicyEpsilonGreedy:
		s.greedy = run
	default:
		return fmt.Errorf("unknown policy %q", run.Policy)
	}
	s.updatedAt = time.Now().UTC()
	return nil
}

// SetPair replaces both holders under one lock, so no snapshot pairs a new
// random result with an old epsilon-greedy one.
func (s *Session) SetPair(random, greedy *models.RunResult) error {
	if random == nil || greedy == nil {
		return fmt.Errorf("run result is nil")
	}
	if random.Policy != models.PolicyRandom {
		return fmt.Errorf("first run has policy %q, want %q", random.Policy, models.PolicyRandom)
	}
	if greedy.Policy != models.PolicyEpsilonGreedy {
		return fmt.Errorf("second run has policy %q, want %q", greedy.Policy, models.PolicyEpsilonGreedy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.random = random
	s.greedy = greedy
	s.updatedAt = time.Now().UTC()
	return nil
}

// Get returns the current result for a policy, or nil when it has not run.
func (s *Session) Get(policy models.Policy) *models.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch policy {
	case models.PolicyRandom:
		return s.random
	case models.PolicyEpsilonGreedy:
		return s.greedy
	}
	return nil
}

// Reset clears both holders
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.random = nil
	s.greedy = nil
	s.updatedAt = time.Now().UTC()
}

// Snapshot returns both holders under one lock
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
		Random:    s.random,
		Greedy:    s.greedy,
	}
}
