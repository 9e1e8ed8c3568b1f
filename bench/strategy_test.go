package bench

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, DocCountTestingStrategy{}, StrategyFor(Config{DocCount: 10}))
	assert.Equal(t, DurationTestingStrategy{Duration: time.Minute}, StrategyFor(Config{Duration: time.Minute}))
}

func TestSequences(t *testing.T) {
	assert.Equal(t, []Workload{Insert, Update, Delete, Upsert}, DocCountTestingStrategy{}.Sequence(false))
	assert.Equal(t, []Workload{Insert, Update}, DurationTestingStrategy{}.Sequence(false))
	assert.Equal(t, []Workload{InsertDoc, FindDoc}, DurationTestingStrategy{}.Sequence(true))
}

func TestBudgets(t *testing.T) {
	count := DocCountTestingStrategy{}.Budget(time.Now(), time.Now)
	assert.True(t, count(0, 1))
	assert.False(t, count(1, 1))
	assert.False(t, count(0, 0))

	start := time.Unix(1000, 0)
	now := start
	duration := DurationTestingStrategy{Duration: time.Second}.Budget(start, func() time.Time { return now })
	assert.True(t, duration(100, 0))

	now = start.Add(time.Second)
	assert.False(t, duration(0, 100))
}

func TestParseWorkload(t *testing.T) {
	w, err := ParseWorkload("finddoc")
	require.NoError(t, err)
	assert.Equal(t, FindDoc, w)

	_, err = ParseWorkload("truncate")
	require.Error(t, err)
}

func TestRecorderKeepsSamples(t *testing.T) {
	recorder := NewRecorder(zap.NewNop())
	recorder.Start(5 * time.Millisecond)
	recorder.Mark(3)
	time.Sleep(20 * time.Millisecond)
	recorder.Stop()

	records := recorder.Records()
	require.GreaterOrEqual(t, len(records), 2)
	assert.Equal(t, recordHeader, records[0])
	assert.Equal(t, "3", records[len(records)-1][1])
	assert.Equal(t, int64(3), recorder.Count())
}

func TestRecorderWriteCSV(t *testing.T) {
	recorder := NewRecorder(zap.NewNop())
	recorder.Mark(2)
	recorder.Stop()

	filename := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, recorder.WriteCSV(filename))

	records := readCSV(t, filename)
	assert.Equal(t, recorder.Records(), records)
	assert.Equal(t, "2", records[len(records)-1][1])

	err := recorder.WriteCSV(filepath.Join(t.TempDir(), "missing", "report.csv"))
	require.Error(t, err)
}
