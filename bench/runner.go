package bench

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idealo/mongodb-randomizers/generator"
	"github.com/idealo/mongodb-randomizers/random"
)

// ServiceFactory returns a random service for a single worker. Services are not shared between workers because
// sources are not safe for concurrent use.
type ServiceFactory func(workerID int) *random.Service

// Runner executes benchmark workloads against a collection.
type Runner struct {
	collection  CollectionAPI
	config      Config
	strategy    Strategy
	newService  ServiceFactory
	fetchDocIDs FetchDocIDsFunc
	logger      *zap.Logger
	now         func() time.Time
	interval    time.Duration
}

type RunnerOption func(*Runner)

// WithFetchDocIDs replaces FetchDocumentIDs, mostly for tests.
func WithFetchDocIDs(fetch FetchDocIDsFunc) RunnerOption {
	return func(r *Runner) {
		r.fetchDocIDs = fetch
	}
}

func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSampleInterval sets how often progress is logged and recorded.
func WithSampleInterval(interval time.Duration) RunnerOption {
	return func(r *Runner) {
		r.interval = interval
	}
}

func NewRunner(collection CollectionAPI, config Config, newService ServiceFactory, opts ...RunnerOption) (*Runner, error) {
	if config.Threads <= 0 {
		return nil, fmt.Errorf("threads must be positive, got %d", config.Threads)
	}

	if newService == nil {
		return nil, fmt.Errorf("a random service factory is required")
	}

	r := &Runner{
		collection:  collection,
		config:      config,
		strategy:    StrategyFor(config),
		newService:  newService,
		fetchDocIDs: FetchDocumentIDs,
		logger:      zap.NewNop(),
		now:         time.Now,
		interval:    time.Second,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// RunSequence runs the strategy's workloads in order, stopping at the first failure.
func (r *Runner) RunSequence(ctx context.Context, doc bool) error {
	for _, workload := range r.strategy.Sequence(doc) {
		if _, err := r.Run(ctx, workload); err != nil {
			return err
		}
	}
	return nil
}

// Run executes a single workload and writes its CSV report, returning the report's path. Individual operation
// failures are logged and not counted; only setup, cancellation and reporting errors are returned.
func (r *Runner) Run(ctx context.Context, workload Workload) (string, error) {
	if err := r.prepare(ctx, workload); err != nil {
		return "", err
	}

	partitions, err := r.partition(ctx, workload)
	if err != nil {
		return "", err
	}

	workers := make([]*worker, r.config.Threads)
	for i := range workers {
		if workers[i], err = newWorker(i, partitions[i], r.newService(i), r.config.QueryType); err != nil {
			return "", fmt.Errorf("failed to create worker %d: %w", i, err)
		}
	}

	r.logger.Info("starting workload",
		zap.String("workload", string(workload)),
		zap.Int("threads", r.config.Threads),
		zap.Int("docs", r.config.DocCount),
		zap.Duration("duration", r.config.Duration))

	recorder := NewRecorder(r.logger)
	recorder.Start(r.interval)

	budget := r.strategy.Budget(r.now(), r.now)

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		if workload.needsIDs() && len(w.partition) == 0 {
			r.logger.Debug("skipping empty partition", zap.Int("thread", w.id), zap.String("workload", string(workload)))
			continue
		}

		g.Go(func() error {
			return r.work(gctx, workload, w, budget, recorder)
		})
	}

	err = g.Wait()
	recorder.Stop()
	if err != nil {
		return "", err
	}

	filename := r.reportPath(workload)
	if err := recorder.WriteCSV(filename); err != nil {
		return "", err
	}

	r.logger.Info("benchmarking completed",
		zap.String("workload", string(workload)),
		zap.Int64("count", recorder.Count()),
		zap.String("results", filename))

	return filename, nil
}

func (w Workload) needsIDs() bool {
	return w == Update || w == Upsert || w == Delete
}

func (r *Runner) prepare(ctx context.Context, workload Workload) error {
	if workload != Insert && workload != InsertDoc && workload != Upsert {
		return nil
	}

	if r.config.DropDb {
		if err := r.collection.Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop collection: %w", err)
		}
		r.logger.Info("collection dropped", zap.String("workload", string(workload)))
	}

	if workload == InsertDoc && r.config.CreateIndex {
		creator, ok := r.collection.(IndexCreator)
		if !ok {
			r.logger.Warn("index creation skipped, collection cannot create indexes")
			return nil
		}

		ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := creator.CreateBenchmarkIndexes(ictx); err != nil {
			return err
		}
		r.logger.Info("indexes created")
	}

	return nil
}

// partition splits the document IDs a workload operates on across the workers. Insert workloads get fresh IDs, so
// that a doc-count run inserts exactly DocCount documents.
func (r *Runner) partition(ctx context.Context, workload Workload) ([][]primitive.ObjectID, error) {
	partitions := make([][]primitive.ObjectID, r.config.Threads)

	var ids []primitive.ObjectID
	switch workload {
	case Update, Delete:
		fetched, err := r.fetchDocIDs(ctx, r.collection, int64(r.config.DocCount))
		if err != nil {
			return nil, err
		}
		if len(fetched) == 0 {
			return nil, fmt.Errorf("no document IDs found for %s operations", workload)
		}
		ids = fetched
	default:
		ids = make([]primitive.ObjectID, r.config.DocCount)
		for i := range ids {
			ids[i] = primitive.NewObjectID()
		}
	}

	for i, id := range ids {
		partitions[i%r.config.Threads] = append(partitions[i%r.config.Threads], id)
	}

	return partitions, nil
}

func (r *Runner) reportPath(workload Workload) string {
	prefix := "benchmark_results"
	if r.config.OutputFilePrefix != "" {
		prefix = r.config.OutputFilePrefix
	}

	return filepath.Join(r.config.OutputDir, fmt.Sprintf("%s_%s.csv", prefix, workload))
}

type worker struct {
	id        int
	partition []primitive.ObjectID
	docs      *generator.DocumentGenerator
	queries   *generator.QueryGenerator
	ints      random.NumberRandomizer[int]
	rnd       random.TypedRandomizer[int64]
}

func newWorker(id int, partition []primitive.ObjectID, svc *random.Service, queryType int) (*worker, error) {
	docs, err := generator.NewDocumentGenerator(svc)
	if err != nil {
		return nil, err
	}

	queries, err := generator.NewQueryGenerator(svc, queryType)
	if err != nil {
		return nil, err
	}

	ints, err := random.Number[int](svc)
	if err != nil {
		return nil, err
	}

	rnd, err := random.Typed[int64](svc)
	if err != nil {
		return nil, err
	}

	return &worker{id: id, partition: partition, docs: docs, queries: queries, ints: ints, rnd: rnd}, nil
}

// pick returns a random ID among the first n of the partition.
func (w *worker) pick(n int) (primitive.ObjectID, error) {
	i, err := w.ints.NextMax(n)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return w.partition[i], nil
}

func (r *Runner) work(ctx context.Context, workload Workload, w *worker, budget func(n, quota int) bool, recorder *Recorder) error {
	quota := len(w.partition)
	for n := 0; budget(n, quota); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Each ID is deleted once, whatever the strategy.
		if workload == Delete && n >= quota {
			return nil
		}

		ok, err := r.execute(ctx, workload, w, n)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("operation failed",
				zap.String("workload", string(workload)),
				zap.Int("thread", w.id),
				zap.Error(err))
			continue
		}

		if ok {
			recorder.Mark(1)
		}
	}

	return nil
}

func (r *Runner) execute(ctx context.Context, workload Workload, w *worker, n int) (bool, error) {
	switch workload {
	case Insert, InsertDoc:
		var doc bson.M
		switch {
		case workload == InsertDoc:
			doc = w.docs.GenerateComplex(w.id)
		case r.config.LargeDocs:
			doc = w.docs.GenerateLarge(w.id)
		default:
			doc = w.docs.GenerateSimple(w.id)
		}
		if workload == Insert && n < len(w.partition) {
			doc["_id"] = w.partition[n]
		}
		_, err := r.collection.InsertOne(ctx, doc)
		return err == nil, err

	case Update, Upsert:
		size := len(w.partition)
		opts := options.Update()
		if workload == Upsert {
			// Upserts target the first half so that both updates and inserts happen.
			size = max(1, size/2)
			opts.SetUpsert(true)
		}
		docID, err := w.pick(size)
		if err != nil {
			return false, err
		}
		filter := bson.M{"_id": docID}
		update := bson.M{"$set": bson.M{"updatedAt": r.now().Unix(), "rnd": w.rnd.Next()}}
		_, err = r.collection.UpdateOne(ctx, filter, update, opts)
		return err == nil, err

	case Delete:
		result, err := r.collection.DeleteOne(ctx, bson.M{"_id": w.partition[n]})
		if err != nil {
			return false, err
		}
		return result.DeletedCount > 0, nil

	case FindDoc:
		opts := options.Find().
			SetLimit(10).
			SetProjection(bson.M{
				"_id":       1,
				"author":    1,
				"title":     1,
				"timestamp": 1,
			}).
			SetSort(bson.D{{Key: "timestamp", Value: -1}})

		cursor, err := r.collection.Find(ctx, w.queries.Generate(), opts)
		if err != nil {
			return false, err
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var doc bson.M
			if err := cursor.Decode(&doc); err != nil {
				return false, err
			}
		}
		return cursor.Err() == nil, cursor.Err()

	default:
		return false, fmt.Errorf("unknown workload %q", workload)
	}
}
