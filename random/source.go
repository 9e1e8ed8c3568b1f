package random

import (
	"math"
	"math/rand/v2"
	"time"
)

// Source is the uniform random primitive randomizers draw from. Implementations need not be safe
// for concurrent use.
type Source interface {
	// Int64Range returns a value in [minInclusive, maxExclusive). If the range is empty minInclusive is returned.
	Int64Range(minInclusive, maxExclusive int64) int64
	// Float64Range returns a value in [minInclusive, maxExclusive). If the range is empty minInclusive is returned.
	Float64Range(minInclusive, maxExclusive float64) float64
}

// PCGSource is a Source backed by math/rand/v2 with a PCG generator.
type PCGSource struct {
	rnd *rand.Rand
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) *PCGSource {
	return &PCGSource{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewTimeSource initializes a new source seeded from the current time.
func NewTimeSource() *PCGSource {
	return NewSource(uint64(time.Now().UnixNano()))
}

func (s *PCGSource) Int64Range(minInclusive, maxExclusive int64) int64 {
	if maxExclusive <= minInclusive {
		return minInclusive
	}

	// Wrapping subtraction gives the exact width even for [MinInt64, MaxInt64).
	width := uint64(maxExclusive - minInclusive)

	return minInclusive + int64(s.rnd.Uint64N(width))
}

func (s *PCGSource) Float64Range(minInclusive, maxExclusive float64) float64 {
	if !(minInclusive < maxExclusive) {
		return minInclusive
	}

	// Interpolating instead of min+f*(max-min) keeps [-MaxFloat64, MaxFloat64) finite.
	f := s.rnd.Float64()
	v := minInclusive*(1-f) + maxExclusive*f

	if v >= maxExclusive {
		v = math.Nextafter(maxExclusive, math.Inf(-1))
	}

	if v < minInclusive {
		v = minInclusive
	}

	return v
}
