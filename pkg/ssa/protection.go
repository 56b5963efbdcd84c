package ssa

import "math"

// SimulateWithProtection runs the three-population variant where v0 of the h0
// humans carry protection.
//
// Rates depend only on H and Z. When a bite fires, the target is protected with
// probability V/H at that instant; a protected target resists with probability
// rates.VaxProtection, otherwise it converts and leaves both H and V. Kills and
// the termination rules are those of Simulate, and 0 <= V <= H holds at every sample.
func SimulateWithProtection(h0, v0, z0 int, rates Rates, tMax float64, src Source, opts ...Option) (Trajectory, error) {
	if err := validate(h0, z0, rates, tMax, src); err != nil {
		return nil, err
	}
	if v0 < 0 || v0 > h0 {
		return nil, invalid("vaccinated", v0, "must be between 0 and the number of humans")
	}
	if math.IsNaN(rates.VaxProtection) || rates.VaxProtection < 0 || rates.VaxProtection > 1 {
		return nil, invalid("vax_protection", rates.VaxProtection, "must be between 0.0 and 1.0")
	}
	return run(State{H: h0, Z: z0, V: v0}, rates, tMax, src, protectedBite(rates.VaxProtection), opts)
}

func protectedBite(vaxProtection float64) biteResolver {
	return func(s State, src Source) (State, EventKind, bool, error) {
		// H > 0 here: bites only fire while both populations are present
		target, err := drawUniform(src)
		if err != nil {
			return s, Bite, false, err
		}

		if target < float64(s.V)/float64(s.H) {
			held, err := drawUniform(src)
			if err != nil {
				return s, Bite, true, err
			}
			if held <= vaxProtection {
				return s, Resisted, true, nil
			}
			s.V--
			s.H--
			s.Z++
			return s, Bite, true, nil
		}

		s.H--
		s.Z++
		return s, Bite, false, nil
	}
}
