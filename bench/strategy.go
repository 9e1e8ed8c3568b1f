package bench

import (
	"fmt"
	"time"
)

// Workload is a single benchmarked operation type.
type Workload string

const (
	Insert    Workload = "insert"
	Update    Workload = "update"
	Upsert    Workload = "upsert"
	Delete    Workload = "delete"
	InsertDoc Workload = "insertdoc"
	FindDoc   Workload = "finddoc"
)

// ParseWorkload validates a workload name.
func ParseWorkload(name string) (Workload, error) {
	switch w := Workload(name); w {
	case Insert, Update, Upsert, Delete, InsertDoc, FindDoc:
		return w, nil
	default:
		return "", fmt.Errorf("unknown workload %q", name)
	}
}

type Config struct {
	Threads          int
	DocCount         int
	Duration         time.Duration
	LargeDocs        bool
	DropDb           bool
	OutputDir        string
	OutputFilePrefix string
	QueryType        int
	CreateIndex      bool
}

// Strategy decides how long each worker of a workload runs.
type Strategy interface {
	// Sequence is the list of workloads run by Runner.RunSequence; doc selects the article workloads.
	Sequence(doc bool) []Workload

	// Budget returns a predicate reporting whether a worker which performed n operations on a partition of size quota
	// may perform another one.
	Budget(start time.Time, now func() time.Time) func(n, quota int) bool
}

// DocCountTestingStrategy performs a fixed number of operations split across the workers.
type DocCountTestingStrategy struct{}

func (DocCountTestingStrategy) Sequence(doc bool) []Workload {
	if doc {
		return []Workload{InsertDoc, FindDoc}
	}
	return []Workload{Insert, Update, Delete, Upsert}
}

func (DocCountTestingStrategy) Budget(time.Time, func() time.Time) func(n, quota int) bool {
	return func(n, quota int) bool {
		return n < quota
	}
}

// DurationTestingStrategy keeps the workers busy until a deadline.
type DurationTestingStrategy struct {
	Duration time.Duration
}

func (DurationTestingStrategy) Sequence(doc bool) []Workload {
	if doc {
		return []Workload{InsertDoc, FindDoc}
	}
	return []Workload{Insert, Update}
}

func (s DurationTestingStrategy) Budget(start time.Time, now func() time.Time) func(n, quota int) bool {
	deadline := start.Add(s.Duration)
	return func(int, int) bool {
		return now().Before(deadline)
	}
}

// StrategyFor selects the duration strategy when a duration is configured.
func StrategyFor(config Config) Strategy {
	if config.Duration > 0 {
		return DurationTestingStrategy{Duration: config.Duration}
	}
	return DocCountTestingStrategy{}
}
