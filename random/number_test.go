package random

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const samplesCount = 1000

// upperBoundSource draws the top of every range, returning the float bound itself as a rounding source would.
type upperBoundSource struct{}

func (upperBoundSource) Int64Range(_, maxExclusive int64) int64 {
	return maxExclusive - 1
}

func (upperBoundSource) Float64Range(_, maxExclusive float64) float64 {
	return maxExclusive
}

func newTestService(t testing.TB) *Service {
	t.Helper()
	return NewServiceBuilder().With(NewPseudoCollection(NewSource(42))).Build()
}

func TestIntNextDefaultRange(t *testing.T) {
	randomizer, err := Typed[int32](newTestService(t))
	require.NoError(t, err)

	for i := 0; i < samplesCount; i++ {
		n := randomizer.Next()
		require.GreaterOrEqual(t, n, int32(0))
		require.Less(t, n, int32(math.MaxInt32))
	}
}

func TestIntNextMax(t *testing.T) {
	randomizer, err := Number[int32](newTestService(t))
	require.NoError(t, err)

	const maxValue = math.MaxInt32 / 2
	for i := 0; i < samplesCount; i++ {
		n, err := randomizer.NextMax(maxValue)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, int32(0))
		require.Less(t, n, int32(maxValue))
	}
}

func TestIntNextRangeFullWidth(t *testing.T) {
	randomizer, err := Number[int32](newTestService(t))
	require.NoError(t, err)

	var negative bool
	for i := 0; i < samplesCount; i++ {
		n, err := randomizer.NextRange(math.MinInt32, math.MaxInt32)
		require.NoError(t, err)
		require.Less(t, n, int32(math.MaxInt32))
		negative = negative || n < 0
	}

	require.True(t, negative, "expected negative values over the full int32 range")
}

func TestInt64NextRangeFullWidth(t *testing.T) {
	randomizer, err := Number[int64](newTestService(t))
	require.NoError(t, err)

	for i := 0; i < samplesCount; i++ {
		n, err := randomizer.NextRange(math.MinInt64, math.MaxInt64)
		require.NoError(t, err)
		require.Less(t, n, int64(math.MaxInt64))
	}
}

func TestIntNextRangeSingleValue(t *testing.T) {
	randomizer, err := Number[int](newTestService(t))
	require.NoError(t, err)

	n, err := randomizer.NextRange(7, 8)
	require.NoError(t, err)
	require.Equal(t, 7, n)
}

func TestIntNextRangeContainment(t *testing.T) {
	randomizer, err := Number[int64](newTestService(t))
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64().Draw(t, "a")
		b := rapid.Int64().Draw(t, "b")
		if a > b {
			a, b = b, a
		}

		n, err := randomizer.NextRange(a, b)
		if a == b {
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange for [%d, %d), got %v", a, b, err)
			}
			return
		}

		if err != nil {
			t.Fatalf("unexpected error for [%d, %d): %v", a, b, err)
		}

		if n < a || n >= b {
			t.Fatalf("%d not in [%d, %d)", n, a, b)
		}
	})
}

func TestFloatNextDefaultRange(t *testing.T) {
	randomizer, err := Typed[float32](newTestService(t))
	require.NoError(t, err)

	for i := 0; i < samplesCount; i++ {
		f := randomizer.Next()
		require.GreaterOrEqual(t, f, float32(0))
		require.Less(t, f, float32(math.MaxFloat32))
	}
}

func TestFloatNextMax(t *testing.T) {
	randomizer, err := Number[float32](newTestService(t))
	require.NoError(t, err)

	for i := 0; i < samplesCount; i++ {
		f, err := randomizer.NextMax(math.MaxFloat32)
		require.NoError(t, err)
		require.GreaterOrEqual(t, f, float32(0))
		require.Less(t, f, float32(math.MaxFloat32))
	}
}

func TestFloatNextRangeFullWidth(t *testing.T) {
	randomizer, err := Number[float32](newTestService(t))
	require.NoError(t, err)

	for i := 0; i < samplesCount; i++ {
		f, err := randomizer.NextRange(-math.MaxFloat32, math.MaxFloat32)
		require.NoError(t, err)
		require.False(t, math.IsInf(float64(f), 0))
		require.GreaterOrEqual(t, f, float32(-math.MaxFloat32))
		require.Less(t, f, float32(math.MaxFloat32))
	}
}

func TestFloatNextRangeContainment(t *testing.T) {
	service := newTestService(t)

	f32, err := Number[float32](service)
	require.NoError(t, err)

	f64, err := Number[float64](service)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float32Range(-math.MaxFloat32, math.MaxFloat32).Draw(t, "a")
		b := rapid.Float32Range(-math.MaxFloat32, math.MaxFloat32).Draw(t, "b")
		if a > b {
			a, b = b, a
		}

		n, err := f32.NextRange(a, b)
		if a == b {
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange for [%g, %g), got %v", a, b, err)
			}
			return
		}

		if err != nil {
			t.Fatalf("unexpected error for [%g, %g): %v", a, b, err)
		}

		if n < a || n >= b {
			t.Fatalf("%g not in [%g, %g)", n, a, b)
		}

		m, err := f64.NextRange(float64(a), float64(b))
		if err != nil {
			t.Fatalf("unexpected error for [%g, %g): %v", a, b, err)
		}

		if m < float64(a) || m >= float64(b) {
			t.Fatalf("%g not in [%g, %g)", m, a, b)
		}
	})
}

func TestFloatUpperBoundIsExclusive(t *testing.T) {
	service := NewServiceBuilder().With(NewPseudoCollection(upperBoundSource{})).Build()

	f32, err := Number[float32](service)
	require.NoError(t, err)

	f, err := f32.NextRange(0, 1)
	require.NoError(t, err)
	require.Less(t, f, float32(1))

	f64, err := Number[float64](service)
	require.NoError(t, err)

	g, err := f64.NextMax(1)
	require.NoError(t, err)
	require.Less(t, g, float64(1))
}

func TestNextRangeInvalid(t *testing.T) {
	service := newTestService(t)

	i32, err := Number[int32](service)
	require.NoError(t, err)

	_, err = i32.NextRange(10, 10)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = i32.NextRange(10, -10)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = i32.NextMax(0)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = i32.NextMax(-5)
	require.ErrorIs(t, err, ErrInvalidRange)

	f64, err := Number[float64](service)
	require.NoError(t, err)

	for _, bounds := range [][2]float64{
		{1, 1},
		{2, 1},
		{0, math.NaN()},
		{math.NaN(), 1},
		{math.Inf(-1), 0},
		{0, math.Inf(1)},
	} {
		_, err := f64.NextRange(bounds[0], bounds[1])
		require.ErrorIs(t, err, ErrInvalidRange, "bounds %v", bounds)
	}
}

func TestValueTypeMatchesProducedType(t *testing.T) {
	service := newTestService(t)

	i, err := Typed[int](service)
	require.NoError(t, err)
	require.Equal(t, Int, i.ValueType())
	require.IsType(t, int(0), i.Next())

	f, err := Typed[float64](service)
	require.NoError(t, err)
	require.Equal(t, Float64, f.ValueType())
	require.IsType(t, float64(0), f.Next())
}
