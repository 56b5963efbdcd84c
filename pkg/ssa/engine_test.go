package ssa

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/slices"
)

func TestSimulateDegenerateInput(t *testing.T) {
	tests := []struct {
		name   string
		h0, z0 int
		want   Trajectory
	}{
		{name: "no humans", h0: 0, z0: 5, want: Trajectory{{Time: 0, State: State{H: 0, Z: 5}}}},
		{name: "no zombies", h0: 5, z0: 0, want: Trajectory{{Time: 0, State: State{H: 5, Z: 0}}}},
		{name: "empty world", h0: 0, z0: 0, want: Trajectory{{Time: 0, State: State{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSequenceSource(nil, nil)
			got, err := Simulate(tt.h0, tt.z0, Rates{BiteFactor: 1, KillFactor: 1}, 10, src)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if u, e := src.Consumed(); u != 0 || e != 0 {
				t.Errorf("Expected no draws, got %d uniform and %d exponential", u, e)
			}
		})
	}
}

func TestSimulateRejectsInvalidParameters(t *testing.T) {
	src := NewSequenceSource(nil, nil)
	ok := Rates{BiteFactor: 1, KillFactor: 1}

	tests := []struct {
		name  string
		h0    int
		z0    int
		rates Rates
		tMax  float64
		src   Source
		field string
	}{
		{name: "negative humans", h0: -1, z0: 1, rates: ok, tMax: 1, src: src, field: "humans"},
		{name: "negative zombies", h0: 1, z0: -1, rates: ok, tMax: 1, src: src, field: "zombies"},
		{name: "negative bite factor", h0: 1, z0: 1, rates: Rates{BiteFactor: -0.1, KillFactor: 1}, tMax: 1, src: src, field: "bite_factor"},
		{name: "negative kill factor", h0: 1, z0: 1, rates: Rates{BiteFactor: 1, KillFactor: -2}, tMax: 1, src: src, field: "kill_factor"},
		{name: "NaN bite factor", h0: 1, z0: 1, rates: Rates{BiteFactor: math.NaN(), KillFactor: 1}, tMax: 1, src: src, field: "bite_factor"},
		{name: "infinite kill factor", h0: 1, z0: 1, rates: Rates{BiteFactor: 1, KillFactor: math.Inf(1)}, tMax: 1, src: src, field: "kill_factor"},
		{name: "zero horizon", h0: 1, z0: 1, rates: ok, tMax: 0, src: src, field: "t_max"},
		{name: "negative horizon", h0: 1, z0: 1, rates: ok, tMax: -3, src: src, field: "t_max"},
		{name: "infinite horizon", h0: 1, z0: 1, rates: ok, tMax: math.Inf(1), src: src, field: "t_max"},
		{name: "missing source", h0: 1, z0: 1, rates: ok, tMax: 1, src: nil, field: "source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj, err := Simulate(tt.h0, tt.z0, tt.rates, tt.tMax, tt.src)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Expected ErrInvalidParameter, got %v", err)
			}
			var perr *ParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected a *ParameterError, got %T", err)
			}
			if perr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, perr.Field)
			}
			if traj != nil {
				t.Errorf("Expected no trajectory, got %v", traj)
			}
		})
	}
}

func TestSimulateScriptedTrajectory(t *testing.T) {
	// H=2 Z=1 with equal factors: total rate 4, then 4, then 2.
	src := NewSequenceSource(
		[]float64{0.1, 0.9, 0.5},
		[]float64{1.0, 2.0, 1.0},
	)

	got, err := Simulate(2, 1, Rates{BiteFactor: 1, KillFactor: 1}, 10, src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Trajectory{
		{Time: 0, State: State{H: 2, Z: 1}},
		{Time: 0.25, State: State{H: 1, Z: 2}}, // bite: 0.1*4 < 2
		{Time: 0.75, State: State{H: 1, Z: 1}}, // kill: 0.9*4 >= 2
		{Time: 1.25, State: State{H: 1, Z: 0}}, // kill: 0.5*2 sits on the boundary
		{Time: 10, State: State{H: 1, Z: 0}},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if Classify(got) != HumansWin {
		t.Errorf("Expected HumansWin, got %s", Classify(got))
	}
	if u, e := src.Consumed(); u != 3 || e != 3 {
		t.Errorf("Expected 3 uniform and 3 exponential draws, got %d and %d", u, e)
	}
}

func TestSimulateSelectsEventWithSingleDraw(t *testing.T) {
	// bite rate 3, kill rate 1: a single draw below 0.75 must bite
	rates := Rates{BiteFactor: 3, KillFactor: 1}

	tests := []struct {
		name    string
		uniform float64
		want    State
	}{
		{name: "bite", uniform: 0.7, want: State{H: 0, Z: 2}},
		{name: "kill", uniform: 0.8, want: State{H: 1, Z: 0}},
		{name: "lower edge", uniform: 0, want: State{H: 0, Z: 2}},
		{name: "partition edge", uniform: 0.75, want: State{H: 1, Z: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSequenceSource([]float64{tt.uniform}, []float64{1})
			traj, err := Simulate(1, 1, rates, 5, src)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if traj[1].State != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, traj[1].State)
			}
			if u, _ := src.Consumed(); u != 1 {
				t.Errorf("Expected exactly 1 uniform draw, got %d", u)
			}
		})
	}
}

func TestSimulateStopsAtHorizon(t *testing.T) {
	// total rate 18, unit draw 36 -> next event at t=2, beyond tMax=1
	src := NewSequenceSource(nil, []float64{36})

	got, err := Simulate(3, 3, Rates{BiteFactor: 1, KillFactor: 1}, 1, src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Trajectory{
		{Time: 0, State: State{H: 3, Z: 3}},
		{Time: 1, State: State{H: 3, Z: 3}},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if Classify(got) != Undecided {
		t.Errorf("Expected Undecided, got %s", Classify(got))
	}
}

func TestSimulateZeroRatesPadsToHorizon(t *testing.T) {
	src := NewSequenceSource(nil, nil)

	got, err := Simulate(4, 2, Rates{}, 7.5, src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Trajectory{
		{Time: 0, State: State{H: 4, Z: 2}},
		{Time: 7.5, State: State{H: 4, Z: 2}},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if u, e := src.Consumed(); u != 0 || e != 0 {
		t.Errorf("Expected no draws, got %d uniform and %d exponential", u, e)
	}
}

func TestSimulatePropagatesSourceErrors(t *testing.T) {
	t.Run("exhausted", func(t *testing.T) {
		src := NewSequenceSource([]float64{0.9}, []float64{0.1})
		traj, err := Simulate(5, 5, Rates{BiteFactor: 1, KillFactor: 1}, 100, src)
		if !errors.Is(err, ErrSourceExhausted) {
			t.Fatalf("Expected ErrSourceExhausted, got %v", err)
		}
		if traj != nil {
			t.Errorf("Expected no trajectory, got %v", traj)
		}
	})

	t.Run("uniform out of range", func(t *testing.T) {
		src := NewSequenceSource([]float64{1.0}, []float64{0.1})
		_, err := Simulate(5, 5, Rates{BiteFactor: 1, KillFactor: 1}, 100, src)
		if !errors.Is(err, ErrInvalidDraw) {
			t.Fatalf("Expected ErrInvalidDraw, got %v", err)
		}
	})

	t.Run("zero waiting time", func(t *testing.T) {
		src := NewSequenceSource([]float64{0.5}, []float64{0})
		_, err := Simulate(5, 5, Rates{BiteFactor: 1, KillFactor: 1}, 100, src)
		if !errors.Is(err, ErrInvalidDraw) {
			t.Fatalf("Expected ErrInvalidDraw, got %v", err)
		}
	})
}

func TestSimulateEventBudget(t *testing.T) {
	src := NewRandSource(7, 0)

	traj, err := Simulate(100, 100, Rates{BiteFactor: 1, KillFactor: 1}, 1000, src, WithMaxEvents(5))
	if !errors.Is(err, ErrEventBudget) {
		t.Fatalf("Expected ErrEventBudget, got %v", err)
	}
	if len(traj) != 6 {
		t.Errorf("Expected 6 samples in the partial trajectory, got %d", len(traj))
	}
}

func TestSimulateInvariants(t *testing.T) {
	rates := Rates{BiteFactor: 0.01, KillFactor: 0.012}
	const tMax = 50.0

	for seed := uint64(1); seed <= 50; seed++ {
		traj, err := Simulate(50, 5, rates, tMax, NewRandSource(seed, 0))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}

		if traj[0].Time != 0 || traj[0].State != (State{H: 50, Z: 5}) {
			t.Fatalf("seed %d: expected initial sample (0,{50 5}), got %v", seed, traj[0])
		}
		if last, _ := traj.Final(); last.Time != tMax {
			t.Errorf("seed %d: expected final time %g, got %g", seed, tMax, last.Time)
		}

		for i := 1; i < len(traj); i++ {
			prev, cur := traj[i-1], traj[i]
			if cur.State.H < 0 || cur.State.Z < 0 || cur.State.V != 0 {
				t.Fatalf("seed %d: invalid state %v at step %d", seed, cur.State, i)
			}
			if cur.Time <= prev.Time {
				t.Fatalf("seed %d: time did not advance at step %d (%g -> %g)", seed, i, prev.Time, cur.Time)
			}

			dh := cur.State.H - prev.State.H
			dz := cur.State.Z - prev.State.Z
			isBite := dh == -1 && dz == 1
			isKill := dh == 0 && dz == -1
			isPadding := i == len(traj)-1 && dh == 0 && dz == 0
			if !isBite && !isKill && !isPadding {
				t.Fatalf("seed %d: illegal transition %v -> %v", seed, prev.State, cur.State)
			}
			if isKill && cur.State.H+cur.State.Z != prev.State.H+prev.State.Z-1 {
				t.Fatalf("seed %d: kill changed more than one zombie", seed)
			}
		}
	}
}

func TestSimulateEqualRatesSplitEvenly(t *testing.T) {
	rates := Rates{BiteFactor: 0.01, KillFactor: 0.01}

	var bites, kills int
	observe := WithObserver(func(e Event) {
		switch e.Kind {
		case Bite:
			bites++
		case Kill:
			kills++
		}
	})

	for i := uint64(0); i < 500; i++ {
		if _, err := Simulate(20, 20, rates, 1000, NewRandSource(42, i), observe); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}

	total := bites + kills
	if total < 10000 {
		t.Fatalf("Expected at least 10000 events, got %d", total)
	}
	fraction := float64(bites) / float64(total)
	if math.Abs(fraction-0.5) > 0.05 {
		t.Errorf("Expected bite fraction near 0.5, got %.4f (%d bites, %d kills)", fraction, bites, kills)
	}
}

func TestSimulateObserverSeesEveryEvent(t *testing.T) {
	var events []Event
	traj, err := Simulate(30, 3, Rates{BiteFactor: 0.05, KillFactor: 0.08}, 20, NewRandSource(3, 1),
		WithObserver(func(e Event) { events = append(events, e) }))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, e := range events {
		sample := traj[i+1]
		if e.Time != sample.Time || e.After != sample.State {
			t.Fatalf("Event %d (%v at %g) does not match sample %v", i, e.After, e.Time, sample)
		}
		if e.Before != traj[i].State {
			t.Fatalf("Event %d started from %v, expected %v", i, e.Before, traj[i].State)
		}
	}
}

func TestSimulateIsReproducible(t *testing.T) {
	rates := Rates{BiteFactor: 0.02, KillFactor: 0.02}

	a, err := Simulate(40, 10, rates, 30, NewRandSource(99, 4))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := Simulate(40, 10, rates, 30, NewRandSource(99, 4))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !slices.Equal(a, b) {
		t.Errorf("Expected identical trajectories for identical seeds")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		traj Trajectory
		want Outcome
	}{
		{name: "empty", traj: nil, want: Undecided},
		{name: "humans win", traj: Trajectory{{Time: 3, State: State{H: 4, Z: 0}}}, want: HumansWin},
		{name: "zombies win", traj: Trajectory{{Time: 3, State: State{H: 0, Z: 9}}}, want: ZombiesWin},
		{name: "horizon", traj: Trajectory{{Time: 3, State: State{H: 2, Z: 2}}}, want: Undecided},
		{name: "nobody left", traj: Trajectory{{Time: 0, State: State{}}}, want: Undecided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.traj); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestOutcomeText(t *testing.T) {
	for _, o := range []Outcome{HumansWin, ZombiesWin, Undecided} {
		text, err := o.MarshalText()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		var back Outcome
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if back != o {
			t.Errorf("Expected %s, got %s", o, back)
		}
	}

	if _, err := ParseOutcome("Draw"); err == nil {
		t.Errorf("Expected an error for an unknown outcome")
	}
}
