package random

// Randomizer produces pseudo-random values of a single value type.
type Randomizer interface {
	ValueType() ValueType
}

// TypedRandomizer is a Randomizer whose values are of type T.
type TypedRandomizer[T any] interface {
	Randomizer

	// Next returns a value in the type's default range, [0, max value of T).
	Next() T
}

// NumberRandomizer is a TypedRandomizer for numeric types which also accepts explicit bounds.
//
// Both bounded variants fail with ErrInvalidRange when the lower bound is not strictly below the upper bound.
type NumberRandomizer[T Numeric] interface {
	TypedRandomizer[T]

	// NextMax is NextRange(0, maxExclusive).
	NextMax(maxExclusive T) (T, error)

	// NextRange returns a value v where minInclusive <= v < maxExclusive.
	NextRange(minInclusive, maxExclusive T) (T, error)
}

// Integer is the set of integer types with a built-in randomizer.
type Integer interface {
	int | int32 | int64
}

// Float is the set of floating point types with a built-in randomizer.
type Float interface {
	float32 | float64
}

// Numeric is the set of types a NumberRandomizer can be requested for.
type Numeric interface {
	Integer | Float
}
