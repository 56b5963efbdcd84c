package stats

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/picogrid/outbreak-simulations/pkg/ssa"
)

// RealizeFunc produces one realization from the given source.
// Implementations must forward opts to the engine.
type RealizeFunc func(src ssa.Source, opts ...ssa.Option) (ssa.Trajectory, error)

// RunResult is one finished realization
type RunResult struct {
	Index      int            `json:"index"`
	Outcome    ssa.Outcome    `json:"outcome"`
	Final      ssa.State      `json:"final"`
	DecidedAt  float64        `json:"decided_at,omitempty"` // time one population died out; 0 when undecided
	Events     EventCounts    `json:"events"`
	Trajectory ssa.Trajectory `json:"trajectory"`
}

// Ensemble runs independent realizations on a bounded worker pool.
// Realization i draws from stream i of Seed, so results do not depend on scheduling.
type Ensemble struct {
	Runs      int
	Workers   int
	Seed      uint64
	MaxEvents int
}

// Validate checks the ensemble settings
func (e Ensemble) Validate() error {
	if e.Runs < 1 {
		return fmt.Errorf("runs must be at least 1")
	}
	if e.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if e.MaxEvents < 0 {
		return fmt.Errorf("max events must not be negative")
	}
	return nil
}

func (e Ensemble) workers() int {
	w := e.Workers
	if w == 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > e.Runs {
		w = e.Runs
	}
	return w
}

// Run executes every realization and returns the results in index order.
// progress, when set, is called from worker goroutines after each finished run.
// Cancelling ctx stops scheduling new realizations and returns ctx.Err().
func (e Ensemble) Run(ctx context.Context, realize RealizeFunc, progress func()) ([]RunResult, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	results := make([]RunResult, e.Runs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i := 0; i < e.Runs; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.realizeOne(i, realize)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			if progress != nil {
				progress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e Ensemble) realizeOne(index int, realize RealizeFunc) (RunResult, error) {
	var counts EventCounts
	opts := []ssa.Option{ssa.WithObserver(counts.Observe)}
	if e.MaxEvents > 0 {
		opts = append(opts, ssa.WithMaxEvents(e.MaxEvents))
	}

	traj, err := realize(ssa.NewRandSource(e.Seed, uint64(index)), opts...)
	if err != nil {
		return RunResult{}, err
	}

	last, _ := traj.Final()
	res := RunResult{
		Index:      index,
		Outcome:    ssa.Classify(traj),
		Final:      last.State,
		Events:     counts,
		Trajectory: traj,
	}
	if res.Outcome != ssa.Undecided {
		for _, s := range traj {
			if s.State.Extinct() {
				res.DecidedAt = s.Time
				break
			}
		}
	}
	return res, nil
}
