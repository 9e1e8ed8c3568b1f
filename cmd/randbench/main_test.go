package main

import (
	"testing"

	"github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idealo/mongodb-randomizers/random"
)

func TestServiceFactorySeedsPerWorker(t *testing.T) {
	registry := metrics.NewRegistry()
	services := newServiceFactory(5, registry, zap.NewNop())

	draw := func(workerID int) []int64 {
		r, err := random.Typed[int64](services(workerID))
		require.NoError(t, err)

		values := make([]int64, 5)
		for i := range values {
			values[i] = r.Next()
		}
		return values
	}

	assert.Equal(t, draw(0), draw(0))
	assert.NotEqual(t, draw(0), draw(1))

	meter := registry.Get(random.IntDrawsMetric).(metrics.Meter)
	assert.Equal(t, int64(20), meter.Count())
}

func TestClockSeededWorkersDiffer(t *testing.T) {
	services := newServiceFactory(0, metrics.NewRegistry(), zap.NewNop())

	draw := func(workerID int) []int64 {
		r, err := random.Typed[int64](services(workerID))
		require.NoError(t, err)

		values := make([]int64, 5)
		for i := range values {
			values[i] = r.Next()
		}
		return values
	}

	assert.Equal(t, draw(3), draw(3), "a factory reads the clock once")
	for i := 1; i < 8; i++ {
		assert.NotEqual(t, draw(0), draw(i), "worker %d shares a seed with worker 0", i)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("verbose")
	require.Error(t, err)
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	names := make(map[string]bool)
	for _, flag := range app.Flags {
		names[flag.GetName()] = true
	}

	for _, name := range []string{"uri", "threads", "docs", "duration", "type", "seed", "log-level"} {
		assert.True(t, names[name], "missing flag %s", name)
	}
}
