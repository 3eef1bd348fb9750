package session

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

func TestSessionSetAndGet(t *testing.T) {
	s := New("s1")
	if s.Get(models.PolicyRandom) != nil || s.Get(models.PolicyEpsilonGreedy) != nil {
		t.Fatal("new session must have no results")
	}

	random := &models.RunResult{ID: "r1", Policy: models.PolicyRandom}
	greedy := &models.RunResult{ID: "g1", Policy: models.PolicyEpsilonGreedy}
	if err := s.Set(random); err != nil {
		t.Fatalf("Set random: %v", err)
	}
	if err := s.Set(greedy); err != nil {
		t.Fatalf("Set greedy: %v", err)
	}

	if s.Get(models.PolicyRandom) != random {
		t.Error("random holder not set")
	}
	if s.Get(models.PolicyEpsilonGreedy) != greedy {
		t.Error("greedy holder not set")
	}

	// Re-run replaces wholesale.
	random2 := &models.RunResult{ID: "r2", Policy: models.PolicyRandom}
	if err := s.Set(random2); err != nil {
		t.Fatalf("Set random2: %v", err)
	}
	if s.Get(models.PolicyRandom) != random2 {
		t.Error("re-run must replace the random holder")
	}
	if s.Get(models.PolicyEpsilonGreedy) != greedy {
		t.Error("re-running random must not touch greedy")
	}
}

func TestSessionSetErrors(t *testing.T) {
	s := New("s1")
	if err := s.Set(nil); err == nil {
		t.Error("expected error for nil run")
	}
	if err := s.Set(&models.RunResult{Policy: "ucb"}); err == nil {
		t.Error("expected error for unknown policy")
	}
	if s.Get("ucb") != nil {
		t.Error("unknown policy lookups return nil")
	}
}

func TestSessionReset(t *testing.T) {
	s := New("s1")
	_ = s.Set(&models.RunResult{Policy: models.PolicyRandom})
	_ = s.Set(&models.RunResult{Policy: models.PolicyEpsilonGreedy})
	before := s.Snapshot().UpdatedAt

	s.Reset()
	snap := s.Snapshot()
	if snap.Random != nil || snap.Greedy != nil {
		t.Error("reset must clear both holders")
	}
	if snap.UpdatedAt.Before(before) {
		t.Error("reset must advance updated_at")
	}
	if snap.ID != "s1" {
		t.Errorf("snapshot id = %s", snap.ID)
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := New("s1")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = s.Set(&models.RunResult{Policy: models.PolicyRandom})
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
		go func() {
			defer wg.Done()
			s.Reset()
		}()
	}
	wg.Wait()
}

func TestSessionSetPair(t *testing.T) {
	s := New("s1")
	random := &models.RunResult{ID: "r1", Policy: models.PolicyRandom}
	greedy := &models.RunResult{ID: "g1", Policy: models.PolicyEpsilonGreedy}
	if err := s.SetPair(random, greedy); err != nil {
		t.Fatalf("SetPair: %v", err)
	}
	snap := s.Snapshot()
	if snap.Random != random || snap.Greedy != greedy {
		t.Fatal("SetPair must store both holders")
	}

	tests := []struct {
		name           string
		random, greedy *models.RunResult
	}{
		{"nil random", nil, greedy},
		{"nil greedy", random, nil},
		{"swapped", greedy, random},
		{"both random", random, random},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SetPair(tt.random, tt.greedy); err == nil {
				t.Fatal("expected error")
			}
			if snap := s.Snapshot(); snap.Random != random || snap.Greedy != greedy {
				t.Fatal("failed SetPair must leave both holders untouched")
			}
		})
	}
}

func TestSessionSetPairIsAtomic(t *testing.T) {
	s := New("s1")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.SetPair(
				&models.RunResult{ID: fmt.Sprintf("r%d", i), Policy: models.PolicyRandom},
				&models.RunResult{ID: fmt.Sprintf("g%d", i), Policy: models.PolicyEpsilonGreedy},
			)
		}(i)
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			if (snap.Random == nil) != (snap.Greedy == nil) {
				t.Error("snapshot holds only one of the pair")
				return
			}
			if snap.Random != nil && strings.TrimPrefix(snap.Random.ID, "r") != strings.TrimPrefix(snap.Greedy.ID, "g") {
				t.Errorf("snapshot mixes pairs: %s and %s", snap.Random.ID, snap.Greedy.ID)
			}
		}()
	}
	wg.Wait()
}
