package random

import (
	"errors"
	"fmt"
	"iter"
)

// Service resolves randomizers by value type across one or more collections. Collections are consulted in
// registration order and the first one supporting a type wins.
type Service struct {
	collections []Collection
}

// Randomizer returns the randomizer for valueType from the first collection supporting it. Collections reporting
// ErrUnsupportedType are skipped; any other error is returned as is.
func (s *Service) Randomizer(valueType ValueType) (Randomizer, error) {
	for _, collection := range s.collections {
		randomizer, err := collection.Randomizer(valueType)
		if err != nil {
			if errors.Is(err, ErrUnsupportedType) {
				continue
			}
			return nil, err
		}

		if randomizer != nil {
			return randomizer, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, valueType)
}

// Randomizers yields one randomizer per supported value type, taking each type from the first collection that
// supports it.
func (s *Service) Randomizers() iter.Seq[Randomizer] {
	return func(yield func(Randomizer) bool) {
		seen := make(map[ValueType]struct{})
		for _, collection := range s.collections {
			for randomizer := range collection.Randomizers() {
				if randomizer == nil {
					continue
				}

				if _, ok := seen[randomizer.ValueType()]; ok {
					continue
				}
				seen[randomizer.ValueType()] = struct{}{}

				if !yield(randomizer) {
					return
				}
			}
		}
	}
}

// Typed returns the randomizer for T.
func Typed[T any](s *Service) (TypedRandomizer[T], error) {
	randomizer, err := s.Randomizer(TypeOf[T]())
	if err != nil {
		return nil, err
	}

	typed, ok := randomizer.(TypedRandomizer[T])
	if !ok {
		return nil, fmt.Errorf("%w: randomizer for %s does not produce %T", ErrUnsupportedType, randomizer.ValueType(), *new(T))
	}

	return typed, nil
}

// Number returns the bounded randomizer for the numeric type T.
func Number[T Numeric](s *Service) (NumberRandomizer[T], error) {
	randomizer, err := s.Randomizer(TypeOf[T]())
	if err != nil {
		return nil, err
	}

	number, ok := randomizer.(NumberRandomizer[T])
	if !ok {
		return nil, fmt.Errorf("%w: randomizer for %s is not a number randomizer", ErrUnsupportedType, randomizer.ValueType())
	}

	return number, nil
}
