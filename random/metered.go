package random

import "github.com/rcrowley/go-metrics"

const (
	IntDrawsMetric   = "random.draws.int64"
	FloatDrawsMetric = "random.draws.float64"
)

// MeteredSource wraps a Source and marks a meter for every value drawn.
type MeteredSource struct {
	src    Source
	ints   metrics.Meter
	floats metrics.Meter
}

// NewMeteredSource registers the draw meters in registry, or metrics.DefaultRegistry when nil. Meters already present
// in the registry are reused, so several sources can share one registry.
func NewMeteredSource(src Source, registry metrics.Registry) *MeteredSource {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}

	return &MeteredSource{
		src:    src,
		ints:   metrics.GetOrRegisterMeter(IntDrawsMetric, registry),
		floats: metrics.GetOrRegisterMeter(FloatDrawsMetric, registry),
	}
}

func (s *MeteredSource) Int64Range(minInclusive, maxExclusive int64) int64 {
	s.ints.Mark(1)
	return s.src.Int64Range(minInclusive, maxExclusive)
}

func (s *MeteredSource) Float64Range(minInclusive, maxExclusive float64) float64 {
	s.floats.Mark(1)
	return s.src.Float64Range(minInclusive, maxExclusive)
}
