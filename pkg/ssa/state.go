package ssa

import "fmt"

// State holds the population counts at one instant.
// V counts the protected members of H and is always zero in the two-population model.
type State struct {
	H int `json:"humans" yaml:"humans"`
	Z int `json:"zombies" yaml:"zombies"`
	V int `json:"vaccinated" yaml:"vaccinated"`
}

// Extinct reports whether either population has died out
func (s State) Extinct() bool {
	return s.H == 0 || s.Z == 0
}

func (s State) String() string {
	return fmt.Sprintf("{H:%d Z:%d V:%d}", s.H, s.Z, s.V)
}

// Sample is one point of a trajectory
type Sample struct {
	Time  float64 `json:"time" yaml:"time"`
	State State   `json:"state" yaml:"state"`
}

// Trajectory is the ordered list of samples produced by one run.
// It starts at time 0 and is owned by the caller once returned.
type Trajectory []Sample

// Final returns the last sample; ok is false for an empty trajectory
func (t Trajectory) Final() (s Sample, ok bool) {
	if len(t) == 0 {
		return Sample{}, false
	}
	return t[len(t)-1], true
}

// Outcome classifies how a run ended
type Outcome int

const (
	Undecided Outcome = iota
	HumansWin
	ZombiesWin
)

func (o Outcome) String() string {
	switch o {
	case HumansWin:
		return "HumansWin"
	case ZombiesWin:
		return "ZombiesWin"
	default:
		return "Undecided"
	}
}

// MarshalText renders the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an outcome name
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOutcome parses the name produced by Outcome.String
func ParseOutcome(name string) (Outcome, error) {
	switch name {
	case "HumansWin":
		return HumansWin, nil
	case "ZombiesWin":
		return ZombiesWin, nil
	case "Undecided":
		return Undecided, nil
	default:
		return Undecided, fmt.Errorf("unknown outcome %q", name)
	}
}

// Classify reports the outcome of a finished trajectory.
// A final state with both populations at zero is Undecided.
func Classify(t Trajectory) Outcome {
	last, ok := t.Final()
	if !ok {
		return Undecided
	}
	switch {
	case last.State.H == 0 && last.State.Z == 0:
		return Undecided
	case last.State.Z == 0:
		return HumansWin
	case last.State.H == 0:
		return ZombiesWin
	default:
		return Undecided
	}
}

// EventKind identifies what happened on a step
type EventKind int

const (
	// Bite converted a human into a zombie
	Bite EventKind = iota
	// Kill removed a zombie
	Kill
	// Resisted is a bite on a protected human whose protection held
	Resisted
)

func (k EventKind) String() string {
	switch k {
	case Bite:
		return "bite"
	case Kill:
		return "kill"
	case Resisted:
		return "resisted"
	default:
		return "unknown"
	}
}

// Event describes one fired transition
type Event struct {
	Kind      EventKind
	Time      float64
	Before    State
	After     State
	Protected bool // the bitten human carried protection
}
