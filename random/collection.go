package random

import (
	"fmt"
	"iter"
	"math"
)

// Collection dispatches value type requests to randomizers.
type Collection interface {
	// Randomizer returns the randomizer for the given value type, or an error wrapping ErrUnsupportedType.
	Randomizer(valueType ValueType) (Randomizer, error)

	// Randomizers yields every randomizer the collection supports, in a stable order. Nil randomizers are never
	// yielded.
	Randomizers() iter.Seq[Randomizer]
}

// Factory constructs a randomizer drawing from the given source.
type Factory func(src Source) Randomizer

type registration struct {
	valueType ValueType
	factory   Factory
}

// TableCollection is a Collection backed by an ordered lookup table of factories. A new randomizer is constructed
// on every lookup.
type TableCollection struct {
	src     Source
	entries []registration
	index   map[ValueType]int
}

// NewTableCollection returns an empty collection drawing from src; use Register to populate it.
func NewTableCollection(src Source) *TableCollection {
	return &TableCollection{
		src:   src,
		index: make(map[ValueType]int),
	}
}

// NewPseudoCollection returns the default collection which supports int32, float32, int, int64 and float64.
func NewPseudoCollection(src Source) *TableCollection {
	return NewTableCollection(src).
		Register(Int32, func(src Source) Randomizer { return newIntRandomizer[int32](src, Int32, math.MaxInt32) }).
		Register(Float32, func(src Source) Randomizer { return newFloatRandomizer[float32](src, Float32, math.MaxFloat32) }).
		Register(Int, func(src Source) Randomizer { return newIntRandomizer[int](src, Int, math.MaxInt) }).
		Register(Int64, func(src Source) Randomizer { return newIntRandomizer[int64](src, Int64, math.MaxInt64) }).
		Register(Float64, func(src Source) Randomizer { return newFloatRandomizer[float64](src, Float64, math.MaxFloat64) })
}

// Register adds a factory for the given value type. Registering a type twice replaces the factory but keeps its
// original position in the enumeration order.
func (c *TableCollection) Register(valueType ValueType, factory Factory) *TableCollection {
	if i, ok := c.index[valueType]; ok {
		c.entries[i].factory = factory
		return c
	}

	c.index[valueType] = len(c.entries)
	c.entries = append(c.entries, registration{valueType: valueType, factory: factory})

	return c
}

func (c *TableCollection) Randomizer(valueType ValueType) (Randomizer, error) {
	i, ok := c.index[valueType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, valueType)
	}

	randomizer := c.entries[i].factory(c.src)
	if randomizer == nil {
		return nil, fmt.Errorf("%w: %s factory returned no randomizer", ErrUnsupportedType, valueType)
	}

	return randomizer, nil
}

func (c *TableCollection) Randomizers() iter.Seq[Randomizer] {
	return func(yield func(Randomizer) bool) {
		for _, entry := range c.entries {
			randomizer := entry.factory(c.src)
			if randomizer == nil {
				continue
			}

			if !yield(randomizer) {
				return
			}
		}
	}
}

// ValueTypes returns the supported value types in enumeration order.
func (c *TableCollection) ValueTypes() []ValueType {
	types := make([]ValueType, 0, len(c.entries))
	for _, entry := range c.entries {
		types = append(types, entry.valueType)
	}

	return types
}
