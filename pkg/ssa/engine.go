// Package ssa implements exact stochastic simulation (Gillespie's direct method)
// of the humans-versus-zombies jump process.
//
// Two events compete: a bite converts a human into a zombie at rate
// BiteFactor·H·Z and a kill removes a zombie at rate KillFactor·H·Z. Each step
// samples an exponential waiting time from the summed rate and then picks the
// event with a single uniform draw partitioned at the bite rate.
// SimulateWithProtection adds a protected sub-population whose members may
// resist a bite.
//
// Every call is an independent realization driven entirely by the Source it is
// given; no state is shared between calls.
package ssa

import (
	"fmt"
	"math"
)

// Rates are the fixed rate constants of one run
type Rates struct {
	BiteFactor float64 `json:"bite_factor" yaml:"bite_factor"`
	KillFactor float64 `json:"kill_factor" yaml:"kill_factor"`

	// VaxProtection is the probability that a protected human resists a bite.
	// Only SimulateWithProtection reads it.
	VaxProtection float64 `json:"vax_protection" yaml:"vax_protection"`
}

// Option adjusts a single run
type Option func(*options)

type options struct {
	observer  func(Event)
	maxEvents int
}

// WithObserver registers a callback invoked synchronously after every fired event
func WithObserver(fn func(Event)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithMaxEvents caps the number of events. When the cap is hit before the run
// terminates, the partial trajectory is returned together with ErrEventBudget.
func WithMaxEvents(n int) Option {
	return func(o *options) {
		o.maxEvents = n
	}
}

// biteResolver applies a selected bite to s and reports what actually happened
type biteResolver func(s State, src Source) (next State, kind EventKind, protected bool, err error)

// Simulate runs the two-population process from (h0, z0) until one population
// dies out or tMax is reached.
//
// If either starting count is zero no event is possible and the single sample
// (0, {h0, z0}) is returned without drawing from src. Otherwise the trajectory
// always ends at time tMax, padded with the final state when extinction or a
// zero total rate stops the run early.
func Simulate(h0, z0 int, rates Rates, tMax float64, src Source, opts ...Option) (Trajectory, error) {
	if err := validate(h0, z0, rates, tMax, src); err != nil {
		return nil, err
	}
	return run(State{H: h0, Z: z0}, rates, tMax, src, plainBite, opts)
}

func plainBite(s State, _ Source) (State, EventKind, bool, error) {
	s.H--
	s.Z++
	return s, Bite, false, nil
}

func validate(h0, z0 int, rates Rates, tMax float64, src Source) error {
	if src == nil {
		return invalid("source", nil, "a random source is required")
	}
	if h0 < 0 {
		return invalid("humans", h0, "must not be negative")
	}
	if z0 < 0 {
		return invalid("zombies", z0, "must not be negative")
	}
	if !finiteNonNegative(rates.BiteFactor) {
		return invalid("bite_factor", rates.BiteFactor, "must be a finite value >= 0")
	}
	if !finiteNonNegative(rates.KillFactor) {
		return invalid("kill_factor", rates.KillFactor, "must be a finite value >= 0")
	}
	if math.IsNaN(tMax) || math.IsInf(tMax, 0) || tMax <= 0 {
		return invalid("t_max", tMax, "must be a finite value > 0")
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// run is the direct-method loop shared by both models
func run(initial State, rates Rates, tMax float64, src Source, bite biteResolver, opts []Option) (Trajectory, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	traj := Trajectory{{Time: 0, State: initial}}
	if initial.Extinct() {
		return traj, nil
	}

	state := initial
	t := 0.0
	events := 0

	for t < tMax && !state.Extinct() {
		pairs := float64(state.H) * float64(state.Z)
		biteRate := rates.BiteFactor * pairs
		killRate := rates.KillFactor * pairs
		totalRate := biteRate + killRate
		if totalRate == 0 {
			break
		}

		if o.maxEvents > 0 && events >= o.maxEvents {
			return traj, fmt.Errorf("%w: %d events fired by t=%g", ErrEventBudget, events, t)
		}

		wait, err := src.Exponential(1 / totalRate)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(wait) || math.IsInf(wait, 0) || wait <= 0 {
			return nil, fmt.Errorf("%w: waiting time %g", ErrInvalidDraw, wait)
		}

		// The next event falls past the horizon, so nothing else happens inside it
		if t+wait > tMax {
			break
		}
		next := t + wait
		if next == t {
			next = math.Nextafter(t, math.Inf(1))
		}
		t = next

		u, err := drawUniform(src)
		if err != nil {
			return nil, err
		}

		before := state
		kind := Kill
		protected := false
		if u*totalRate < biteRate {
			state, kind, protected, err = bite(state, src)
			if err != nil {
				return nil, err
			}
		} else {
			state.Z--
		}

		traj = append(traj, Sample{Time: t, State: state})
		events++

		if o.observer != nil {
			o.observer(Event{
				Kind:      kind,
				Time:      t,
				Before:    before,
				After:     state,
				Protected: protected,
			})
		}
	}

	if traj[len(traj)-1].Time < tMax {
		traj = append(traj, Sample{Time: tMax, State: state})
	}
	return traj, nil
}

func drawUniform(src Source) (float64, error) {
	u, err := src.Uniform()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(u) || u < 0 || u >= 1 {
		return 0, fmt.Errorf("%w: uniform %g outside [0,1)", ErrInvalidDraw, u)
	}
	return u, nil
}
