// Package stats runs ensembles of independent realizations and summarises their outcomes.
package stats

import (
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
)

// Tally counts run outcomes
type Tally struct {
	HumansWin  int `json:"humans_win"`
	ZombiesWin int `json:"zombies_win"`
	Undecided  int `json:"undecided"`
}

// Add records one outcome
func (t *Tally) Add(o ssa.Outcome) {
	switch o {
	case ssa.HumansWin:
		t.HumansWin++
	case ssa.ZombiesWin:
		t.ZombiesWin++
	default:
		t.Undecided++
	}
}

// Merge adds every count of other
func (t *Tally) Merge(other Tally) {
	t.HumansWin += other.HumansWin
	t.ZombiesWin += other.ZombiesWin
	t.Undecided += other.Undecided
}

// Total returns the number of recorded runs
func (t Tally) Total() int {
	return t.HumansWin + t.ZombiesWin + t.Undecided
}

// Count returns the number of runs with outcome o
func (t Tally) Count(o ssa.Outcome) int {
	switch o {
	case ssa.HumansWin:
		return t.HumansWin
	case ssa.ZombiesWin:
		return t.ZombiesWin
	default:
		return t.Undecided
	}
}

// Fraction returns the share of runs with outcome o, or 0 for an empty tally
func (t Tally) Fraction(o ssa.Outcome) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.Count(o)) / float64(total)
}

// EventCounts counts the events fired during one run
type EventCounts struct {
	Bites    int `json:"bites"`
	Kills    int `json:"kills"`
	Resisted int `json:"resisted"`

	// ProtectedConversions are bites on protected humans whose protection failed.
	// They are included in Bites.
	ProtectedConversions int `json:"protected_conversions"`
}

// Observe is an ssa observer callback
func (c *EventCounts) Observe(e ssa.Event) {
	switch e.Kind {
	case ssa.Bite:
		c.Bites++
		if e.Protected {
			c.ProtectedConversions++
		}
	case ssa.Kill:
		c.Kills++
	case ssa.Resisted:
		c.Resisted++
	}
}

// Total returns the number of fired events
func (c EventCounts) Total() int {
	return c.Bites + c.Kills + c.Resisted
}

// Summary aggregates an ensemble
type Summary struct {
	Tally      Tally   `json:"tally"`
	MeanEvents float64 `json:"mean_events"`

	// MeanDecidedAt is the mean extinction time over decided runs, 0 if there were none
	MeanDecidedAt float64 `json:"mean_decided_at"`
}

// Summarize tallies outcomes and averages event counts and extinction times
func Summarize(results []RunResult) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}

	events := 0
	decided := 0
	decidedAt := 0.0
	for _, r := range results {
		s.Tally.Add(r.Outcome)
		events += r.Events.Total()
		if r.Outcome != ssa.Undecided {
			decided++
			decidedAt += r.DecidedAt
		}
	}

	s.MeanEvents = float64(events) / float64(len(results))
	if decided > 0 {
		s.MeanDecidedAt = decidedAt / float64(decided)
	}
	return s
}
