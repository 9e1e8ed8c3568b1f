package random

import (
	"fmt"
	"math"
)

type intRandomizer[T Integer] struct {
	src       Source
	valueType ValueType
	max       T
}

func newIntRandomizer[T Integer](src Source, valueType ValueType, max T) *intRandomizer[T] {
	return &intRandomizer[T]{src: src, valueType: valueType, max: max}
}

func (r *intRandomizer[T]) ValueType() ValueType {
	return r.valueType
}

func (r *intRandomizer[T]) Next() T {
	return T(r.src.Int64Range(0, int64(r.max)))
}

func (r *intRandomizer[T]) NextMax(maxExclusive T) (T, error) {
	return r.NextRange(0, maxExclusive)
}

func (r *intRandomizer[T]) NextRange(minInclusive, maxExclusive T) (T, error) {
	if minInclusive >= maxExclusive {
		return 0, fmt.Errorf("%w: [%d, %d) for %s", ErrInvalidRange, minInclusive, maxExclusive, r.valueType)
	}

	return T(r.src.Int64Range(int64(minInclusive), int64(maxExclusive))), nil
}

type floatRandomizer[T Float] struct {
	src       Source
	valueType ValueType
	max       T
}

func newFloatRandomizer[T Float](src Source, valueType ValueType, max T) *floatRandomizer[T] {
	return &floatRandomizer[T]{src: src, valueType: valueType, max: max}
}

func (r *floatRandomizer[T]) ValueType() ValueType {
	return r.valueType
}

func (r *floatRandomizer[T]) Next() T {
	return r.draw(0, r.max)
}

func (r *floatRandomizer[T]) NextMax(maxExclusive T) (T, error) {
	return r.NextRange(0, maxExclusive)
}

// NextRange also rejects NaN and infinite bounds since no value can be drawn uniformly between them.
func (r *floatRandomizer[T]) NextRange(minInclusive, maxExclusive T) (T, error) {
	lo, hi := float64(minInclusive), float64(maxExclusive)
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, fmt.Errorf("%w: [%g, %g) for %s", ErrInvalidRange, lo, hi, r.valueType)
	}

	return r.draw(minInclusive, maxExclusive), nil
}

func (r *floatRandomizer[T]) draw(minInclusive, maxExclusive T) T {
	v := T(r.src.Float64Range(float64(minInclusive), float64(maxExclusive)))

	// Narrowing to float32 can round up onto the upper bound.
	if v >= maxExclusive {
		v = below(maxExclusive)
	}

	return v
}

// below returns the largest value of T less than x.
func below[T Float](x T) T {
	if f, ok := any(x).(float32); ok {
		return T(math.Nextafter32(f, float32(math.Inf(-1))))
	}

	return T(math.Nextafter(float64(x), math.Inf(-1)))
}
