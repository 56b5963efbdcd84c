package ssa

import (
	"math/rand/v2"
)

// Source supplies the random draws consumed by the engine.
// Implementations need not be safe for concurrent use; give every run its own Source.
type Source interface {
	// Uniform returns a value in [0, 1)
	Uniform() (float64, error)

	// Exponential returns a strictly positive draw from an exponential distribution with the given mean
	Exponential(mean float64) (float64, error)
}

// RandSource is a Source backed by a seeded PCG generator
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a generator for the given seed and stream.
// Distinct streams under one seed give independent, reproducible realizations.
func NewRandSource(seed, stream uint64) *RandSource {
	return &RandSource{
		rng: rand.New(rand.NewPCG(seed, stream)),
	}
}

// Uniform returns a value in [0, 1)
func (s *RandSource) Uniform() (float64, error) {
	return s.rng.Float64(), nil
}

// Exponential returns an exponential draw scaled to the given mean
func (s *RandSource) Exponential(mean float64) (float64, error) {
	for {
		// ExpFloat64 may in principle return 0, which would stall simulated time
		if x := s.rng.ExpFloat64(); x > 0 {
			return x * mean, nil
		}
	}
}

// SequenceSource replays a fixed script of draws.
// Exponential draws are given as unit-mean values and scaled by the requested mean,
// so fixtures exercise the rate computation as well as the event logic.
type SequenceSource struct {
	uniforms     []float64
	exponentials []float64
	uIdx         int
	eIdx         int
}

// NewSequenceSource creates a scripted source
func NewSequenceSource(uniforms, exponentials []float64) *SequenceSource {
	return &SequenceSource{
		uniforms:     uniforms,
		exponentials: exponentials,
	}
}

// Uniform returns the next scripted uniform draw
func (s *SequenceSource) Uniform() (float64, error) {
	if s.uIdx >= len(s.uniforms) {
		return 0, ErrSourceExhausted
	}
	v := s.uniforms[s.uIdx]
	s.uIdx++
	return v, nil
}

// Exponential returns the next scripted unit draw scaled by mean
func (s *SequenceSource) Exponential(mean float64) (float64, error) {
	if s.eIdx >= len(s.exponentials) {
		return 0, ErrSourceExhausted
	}
	v := s.exponentials[s.eIdx]
	s.eIdx++
	return v * mean, nil
}

// Consumed reports how many uniform and exponential draws have been taken
func (s *SequenceSource) Consumed() (uniforms, exponentials int) {
	return s.uIdx, s.eIdx
}
