package simd

import (
	"time"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/session"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

// RunView is the compact form of a run returned by the simulate endpoints.
// The trial log itself is only served by export.
type RunView struct {
	RunID       string               `json:"run_id,omitempty"`
	Policy      models.Policy        `json:"policy,omitempty"`
	Seed        int64                `json:"seed"`
	Epsilon     float64              `json:"epsilon,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	KPIs        metrics.KPIs         `json:"kpis"`
	Arms        []metrics.ArmSummary `json:"arms,omitempty"`
}

// SessionView describes a session and the headline numbers of both holders
type SessionView struct {
	ID          string               `json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Random      RunView              `json:"random"`
	Greedy      RunView              `json:"greedy"`
	Improvement *metrics.Improvement `json:"improvement"`
}

// NewRunView builds the compact view of run; a nil run reports not_run KPIs.
func NewRunView(run *models.RunResult) RunView {
	v := RunView{KPIs: metrics.ComputeKPIs(run)}
	if run == nil {
		return v
	}
	completed := run.CompletedAt
	v.RunID = run.ID
	v.Policy = run.Policy
	v.Seed = run.Seed
	v.Epsilon = run.Epsilon
	v.CompletedAt = &completed
	v.Arms = metrics.ArmSummaries(run)
	return v
}

// NewSessionView builds the view of a session snapshot without per-arm rows.
func NewSessionView(snap session.Snapshot) SessionView {
	random := NewRunView(snap.Random)
	greedy := NewRunView(snap.Greedy)
	random.Arms, greedy.Arms = nil, nil
	return SessionView{
		ID:          snap.ID,
		CreatedAt:   snap.CreatedAt,
		UpdatedAt:   snap.UpdatedAt,
		Random:      random,
		Greedy:      greedy,
		Improvement: metrics.CompareRuns(snap.Random, snap.Greedy),
	}
}

// CompareResult is returned by compare: the improvement plus both fresh runs
type CompareResult struct {
	Improvement *metrics.Improvement `json:"improvement"`
	Random      RunView              `json:"random"`
	Greedy      RunView              `json:"greedy"`
}

// ReplayResult is a replay view plus the slider positions available for it
type ReplayResult struct {
	Replay *metrics.ReplayView `json:"replay"`
	Steps  []int               `json:"steps"`
}

func compareResult(imp *metrics.Improvement, snap session.Snapshot) CompareResult {
	return CompareResult{
		Improvement: imp,
		Random:      NewRunView(snap.Random),
		Greedy:      NewRunView(snap.Greedy),
	}
}
