package scan

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/app"
	"github.com/hirvin/drivemapper/config"
)

type Command struct {
	rootDir   string
	dbPath    string
	batchSize int
	workers   int
	queueSize int
	conflict  string
	verbose   bool
}

func (*Command) Name() string     { return "scan" }
func (*Command) Synopsis() string { return "Scan a directory tree and store file records in SQLite" }
func (*Command) Usage() string {
	return `scan -root <directory> -db <database> [-batch N] [-workers N] [-queue N] [-conflict ignore|replace]:
  Walk the directory tree concurrently and store one record per entry.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	defaults := config.Default()
	f.StringVar(&c.rootDir, "root", "", "directory to scan (required)")
	f.StringVar(&c.dbPath, "db", "", "database file path (required)")
	f.IntVar(&c.batchSize, "batch", defaults.BatchSize, "records per storage transaction")
	f.IntVar(&c.workers, "workers", defaults.Workers, "concurrent directory readers")
	f.IntVar(&c.queueSize, "queue", defaults.QueueSize, "record queue capacity")
	f.StringVar(&c.conflict, "conflict", defaults.Conflict, "existing path policy: ignore or replace")
	f.BoolVar(&c.verbose, "verbose", false, "verbose logging")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.rootDir == "" || c.dbPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	logger, err := app.NewLogger(c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	cfg := config.Default()
	cfg.RootPath = c.rootDir
	cfg.DBPath = c.dbPath
	cfg.BatchSize = c.batchSize
	cfg.Workers = c.workers
	cfg.QueueSize = c.queueSize
	cfg.Conflict = c.conflict

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	setupSignalHandling(cancel, logger)

	summary, err := app.Run(ctx, &cfg, logger)
	if err != nil {
		logger.Error("scan failed",
			zap.Int64("scanned", summary.TotalScanned),
			zap.Int64("skipped", summary.TotalSkipped),
			zap.Error(err))
		return subcommands.ExitFailure
	}

	logger.Info("scan completed",
		zap.Int64("scanned", summary.TotalScanned),
		zap.Int64("skipped", summary.TotalSkipped),
		zap.Int64("records_committed", summary.RecordsCommitted),
		zap.Int64("batches_committed", summary.BatchesCommitted),
		zap.Duration("elapsed", summary.Elapsed.Round(time.Millisecond)))

	return subcommands.ExitSuccess
}

func setupSignalHandling(cancel context.CancelFunc, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var forceQuit atomic.Bool

	go func() {
		for sig := range sigChan {
			logger.Info("received signal", zap.String("signal", sig.String()))
			if forceQuit.Load() {
				logger.Warn("forcing immediate shutdown")
				os.Exit(1)
			}

			forceQuit.Store(true)
			logger.Info("press Ctrl+C again to force quit, waiting for partial batch flush")
			cancel()

			go func() {
				time.Sleep(5 * time.Second)
				forceQuit.Store(false)
			}()
		}
	}()
}
