package simulation

import (
	"time"

	"github.com/google/uuid"

	"github.com/picogrid/outbreak-simulations/pkg/ssa"
	"github.com/picogrid/outbreak-simulations/pkg/stats"
)

// Report is the result of one ensemble of realizations
type Report struct {
	ID         uuid.UUID              `json:"id"`
	Simulation string                 `json:"simulation"`
	Seed       uint64                 `json:"seed"`
	Parameters map[string]interface{} `json:"parameters"`
	Started    time.Time              `json:"started"`
	Finished   time.Time              `json:"finished"`
	Runs       []stats.RunResult      `json:"runs"`
	Summary    stats.Summary          `json:"summary"`
}

// NewReport creates an empty report stamped with a fresh batch ID
func NewReport(simulation string, seed uint64, params map[string]interface{}) *Report {
	return &Report{
		ID:         uuid.New(),
		Simulation: simulation,
		Seed:       seed,
		Parameters: params,
		Started:    time.Now(),
	}
}

// Complete stores the finished runs and summarises them
func (r *Report) Complete(runs []stats.RunResult) {
	r.Runs = runs
	r.Summary = stats.Summarize(runs)
	r.Finished = time.Now()
}

// Trajectories returns the trajectory of every run in index order
func (r *Report) Trajectories() []ssa.Trajectory {
	out := make([]ssa.Trajectory, len(r.Runs))
	for i, run := range r.Runs {
		out[i] = run.Trajectory
	}
	return out
}
