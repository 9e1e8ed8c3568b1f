package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"
)

var recordHeader = []string{"t", "count", "mean_rate", "m1_rate", "m5_rate", "m15_rate"}

// Recorder samples an operation meter periodically and keeps every sample for the CSV report.
type Recorder struct {
	meter  metrics.Meter
	logger *zap.Logger

	mu      sync.Mutex
	records [][]string

	stop chan struct{}
	done chan struct{}
}

func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{
		meter:   metrics.NewMeter(),
		logger:  logger,
		records: [][]string{recordHeader},
	}
}

// Mark records n completed operations.
func (r *Recorder) Mark(n int64) {
	r.meter.Mark(n)
}

func (r *Recorder) Count() int64 {
	return r.meter.Count()
}

// Start samples the meter every interval until Stop is called.
func (r *Recorder) Start(interval time.Duration) {
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.sample(true)
			}
		}
	}()
}

// Stop ends periodic sampling, takes a final sample and stops the meter.
func (r *Recorder) Stop() {
	if r.stop != nil {
		close(r.stop)
		<-r.done
		r.stop = nil
	}

	r.sample(false)
	r.meter.Stop()
}

func (r *Recorder) sample(log bool) {
	snapshot := r.meter.Snapshot()
	timestamp := time.Now().Unix()

	if log {
		r.logger.Info("benchmark progress",
			zap.Int64("timestamp", timestamp),
			zap.Int64("count", snapshot.Count()),
			zap.Float64("mean_rate", snapshot.RateMean()),
			zap.Float64("m1_rate", snapshot.Rate1()),
			zap.Float64("m5_rate", snapshot.Rate5()),
			zap.Float64("m15_rate", snapshot.Rate15()))
	}

	record := []string{
		fmt.Sprintf("%d", timestamp),
		fmt.Sprintf("%d", snapshot.Count()),
		fmt.Sprintf("%.6f", snapshot.RateMean()),
		fmt.Sprintf("%.6f", snapshot.Rate1()),
		fmt.Sprintf("%.6f", snapshot.Rate5()),
		fmt.Sprintf("%.6f", snapshot.Rate15()),
	}

	r.mu.Lock()
	r.records = append(r.records, record)
	r.mu.Unlock()
}

// Records returns a copy of the header and every sample taken so far.
func (r *Recorder) Records() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([][]string(nil), r.records...)
}

// WriteCSV writes the records to filename.
func (r *Recorder) WriteCSV(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(r.Records()); err != nil {
		file.Close()
		return fmt.Errorf("failed to write records to CSV: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}

	return nil
}
