package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/urfave/cli"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/idealo/mongodb-randomizers/bench"
	"github.com/idealo/mongodb-randomizers/generator"
	"github.com/idealo/mongodb-randomizers/random"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "randbench: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "randbench"
	app.Usage = "benchmark MongoDB with documents drawn from a typed random service"

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "uri", Value: "mongodb://localhost:27017", Usage: "MongoDB URI", EnvVar: "RANDBENCH_URI"},
		cli.StringFlag{Name: "database", Value: "benchmarking", Usage: "database name", EnvVar: "RANDBENCH_DATABASE"},
		cli.StringFlag{Name: "collection", Value: "testdata", Usage: "collection name", EnvVar: "RANDBENCH_COLLECTION"},
		cli.IntFlag{Name: "threads", Value: 10, Usage: "number of concurrent workers", EnvVar: "RANDBENCH_THREADS"},
		cli.IntFlag{Name: "docs", Value: 1000, Usage: "total number of documents to insert, update, upsert, delete or find", EnvVar: "RANDBENCH_DOCS"},
		cli.DurationFlag{Name: "duration", Usage: "run each workload for this long instead of a fixed document count", EnvVar: "RANDBENCH_DURATION"},
		cli.StringFlag{Name: "type", Usage: "workload: insert, update, upsert, delete, insertdoc or finddoc; empty runs the whole sequence", EnvVar: "RANDBENCH_TYPE"},
		cli.BoolFlag{Name: "doc", Usage: "run the article document sequence (insertdoc, finddoc) when no type is given", EnvVar: "RANDBENCH_DOC"},
		cli.BoolFlag{Name: "large", Usage: "attach a 2 KiB random payload to inserted documents", EnvVar: "RANDBENCH_LARGE"},
		cli.BoolTFlag{Name: "drop", Usage: "drop the collection before insert workloads", EnvVar: "RANDBENCH_DROP"},
		cli.BoolFlag{Name: "create-index", Usage: "create article indexes before insertdoc", EnvVar: "RANDBENCH_CREATE_INDEX"},
		cli.IntFlag{Name: "query-type", Value: generator.QueryRandom, Usage: "finddoc filter: -1 random, 0 author, 1 tag, 2 recent, 3 full text", EnvVar: "RANDBENCH_QUERY_TYPE"},
		cli.StringFlag{Name: "output-dir", Usage: "directory for CSV reports", EnvVar: "RANDBENCH_OUTPUT_DIR"},
		cli.StringFlag{Name: "prefix", Usage: "CSV report file prefix", EnvVar: "RANDBENCH_PREFIX"},
		cli.Uint64Flag{Name: "seed", Usage: "base seed for the random sources, 0 seeds from the clock", EnvVar: "RANDBENCH_SEED"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level: debug, info, warn, error", EnvVar: "RANDBENCH_LOG_LEVEL"},
	}

	app.Action = run

	return app
}

func run(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	config := bench.Config{
		Threads:          c.Int("threads"),
		DocCount:         c.Int("docs"),
		Duration:         c.Duration("duration"),
		LargeDocs:        c.Bool("large"),
		DropDb:           c.BoolT("drop"),
		OutputDir:        c.String("output-dir"),
		OutputFilePrefix: c.String("prefix"),
		QueryType:        c.Int("query-type"),
		CreateIndex:      c.Bool("create-index"),
	}

	registry := metrics.NewRegistry()
	services := newServiceFactory(c.Uint64("seed"), registry, logger)

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(c.String("uri")))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck

	collection := &bench.MongoDBCollection{
		Collection: client.Database(c.String("database")).Collection(c.String("collection")),
	}

	runner, err := bench.NewRunner(collection, config, services, bench.WithLogger(logger))
	if err != nil {
		return err
	}

	if name := c.String("type"); name != "" {
		workload, err := bench.ParseWorkload(name)
		if err != nil {
			return err
		}
		_, err = runner.Run(ctx, workload)
		logDraws(logger, registry)
		return err
	}

	err = runner.RunSequence(ctx, c.Bool("doc"))
	logDraws(logger, registry)
	return err
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// newServiceFactory gives every worker its own metered source seeded with seed+i. A zero seed is replaced by a single
// clock read, so workers never share a seed and runs with an explicit seed are reproducible.
func newServiceFactory(seed uint64, registry metrics.Registry, logger *zap.Logger) bench.ServiceFactory {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return func(workerID int) *random.Service {
		src := random.NewSource(seed + uint64(workerID))

		return random.NewServiceBuilder().
			WithLogger(logger.With(zap.Int("thread", workerID))).
			With(random.NewPseudoCollection(random.NewMeteredSource(src, registry))).
			Build()
	}
}

func logDraws(logger *zap.Logger, registry metrics.Registry) {
	registry.Each(func(name string, metric interface{}) {
		if meter, ok := metric.(metrics.Meter); ok {
			logger.Info("random values drawn", zap.String("metric", name), zap.Int64("count", meter.Count()))
		}
	})
}
