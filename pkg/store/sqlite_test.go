package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
	"github.com/picogrid/outbreak-simulations/pkg/stats"
)

func newReport(name string, outcomes ...ssa.Outcome) *simulation.Report {
	report := simulation.NewReport(name, 7, map[string]interface{}{"humans": 500, "bite_factor": 0.0005})
	runs := make([]stats.RunResult, len(outcomes))
	for i, o := range outcomes {
		runs[i] = stats.RunResult{
			Index:   i,
			Outcome: o,
			Final:   ssa.State{H: 3, Z: 0},
			Events:  stats.EventCounts{Bites: 2, Kills: 1},
		}
	}
	report.Complete(runs)
	return report
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveReportAndTally(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := newReport("Humans vs Zombies", ssa.HumansWin, ssa.HumansWin, ssa.ZombiesWin)
	second := newReport("Humans vs Zombies", ssa.ZombiesWin, ssa.Undecided)

	for _, r := range []*simulation.Report{first, second} {
		if err := s.SaveReport(ctx, r); err != nil {
			t.Fatalf("Failed to save report: %v", err)
		}
	}

	tally, err := s.Tally(ctx, first.ID.String())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tally != (stats.Tally{HumansWin: 2, ZombiesWin: 1}) {
		t.Errorf("Unexpected batch tally %+v", tally)
	}

	all, err := s.Tally(ctx, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if all != (stats.Tally{HumansWin: 2, ZombiesWin: 2, Undecided: 1}) {
		t.Errorf("Unexpected overall tally %+v", all)
	}

	none, err := s.Tally(ctx, "missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if none.Total() != 0 {
		t.Errorf("Expected an empty tally for an unknown batch, got %+v", none)
	}
}

func TestSaveReportTwiceFails(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	report := newReport("Humans vs Zombies", ssa.HumansWin)
	if err := s.SaveReport(ctx, report); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}
	if err := s.SaveReport(ctx, report); err == nil {
		t.Errorf("Expected a duplicate batch to be rejected")
	}

	tally, err := s.Tally(ctx, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tally.Total() != 1 {
		t.Errorf("Expected the failed save to roll back, got %+v", tally)
	}
}

func TestBatches(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	older := newReport("Humans vs Zombies", ssa.HumansWin)
	older.Started = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := newReport("Humans vs Zombies with Vaccination", ssa.ZombiesWin, ssa.ZombiesWin)
	newer.Started = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	newer.Seed = 1<<63 + 5

	for _, r := range []*simulation.Report{older, newer} {
		if err := s.SaveReport(ctx, r); err != nil {
			t.Fatalf("Failed to save report: %v", err)
		}
	}

	batches, err := s.Batches(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(batches))
	}

	got := batches[0]
	if got.ID != newer.ID.String() {
		t.Errorf("Expected the newest batch first, got %s", got.ID)
	}
	if got.Simulation != newer.Simulation || got.Runs != 2 || got.Seed != newer.Seed {
		t.Errorf("Unexpected batch %+v", got)
	}
	if !got.Started.Equal(newer.Started) {
		t.Errorf("Expected start %v, got %v", newer.Started, got.Started)
	}
	if got.Parameters["humans"] != float64(500) {
		t.Errorf("Expected humans=500 in parameters, got %v", got.Parameters["humans"])
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "outcomes.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := s.SaveReport(context.Background(), newReport("Humans vs Zombies", ssa.HumansWin)); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	tally, err := reopened.Tally(context.Background(), "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tally.HumansWin != 1 {
		t.Errorf("Expected the stored outcome to persist, got %+v", tally)
	}
}
