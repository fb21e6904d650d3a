package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/config"
	"github.com/hirvin/drivemapper/db"
	"github.com/hirvin/drivemapper/scanner"
	"github.com/hirvin/drivemapper/writer"
)

// Summary reports the outcome of one scan run. Even on partial failure
// the counts reflect what actually happened: scanned and skipped entry
// totals from the walkers, committed totals from the writer.
type Summary struct {
	TotalScanned     int64
	TotalSkipped     int64
	RecordsCommitted int64
	BatchesCommitted int64
	Elapsed          time.Duration
}

// Run executes one full scan: validates the configuration, opens the
// store, starts the batch writer, fans the walker pool out over the
// root, and blocks until the queue has drained. Cancellation of ctx
// stops the walkers at the next entry boundary and flushes the writer's
// partial batch before returning.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, span := otel.Tracer("app").Start(ctx, "ScanRun", trace.WithAttributes(
		attribute.String("root", cfg.RootPath),
		attribute.Int("batch_size", cfg.BatchSize),
		attribute.Int("workers", cfg.Workers),
	))
	defer span.End()

	rc := NewRunContext(ctx, logger, cfg.QueueSize)
	defer rc.PerformCleanup()

	database, err := db.SetupDatabase(cfg.DBPath)
	if err != nil {
		span.RecordError(err)
		return Summary{}, err
	}

	store, err := db.NewStore(database, db.ConflictPolicy(cfg.Conflict))
	if err != nil {
		database.Close()
		span.RecordError(err)
		return Summary{}, err
	}
	rc.Store = store

	bw := writer.New(store, rc.Queue, writer.Config{
		BatchSize:        cfg.BatchSize,
		MaxRetries:       cfg.MaxRetries,
		ProgressInterval: time.Duration(cfg.ProgressInterval) * time.Second,
	}, rc.Stats, logger)

	writerDone := make(chan error, 1)
	rc.Wg.Add(1)
	go func() {
		defer rc.Wg.Done()
		err := bw.Run(rc.Context)
		if err != nil && !errors.Is(err, context.Canceled) {
			// A dead writer must not leave walkers blocked on the queue.
			rc.Cancel()
		}
		writerDone <- err
	}()

	walker := scanner.NewWalker(rc.Context, rc.Queue, cfg.Workers, rc.Stats, logger)
	walkErr := walker.Walk(cfg.RootPath)

	rc.CloseQueue()
	writeErr := <-writerDone

	summary := Summary{
		TotalScanned:     atomic.LoadInt64(&rc.Stats.ScannedEntries),
		TotalSkipped:     atomic.LoadInt64(&rc.Stats.SkippedEntries),
		RecordsCommitted: atomic.LoadInt64(&rc.Stats.CommittedRecords),
		BatchesCommitted: atomic.LoadInt64(&rc.Stats.CommittedBatches),
		Elapsed:          time.Since(rc.Stats.StartTime),
	}
	span.SetAttributes(
		attribute.Int64("scanned", summary.TotalScanned),
		attribute.Int64("skipped", summary.TotalSkipped),
		attribute.Int64("committed", summary.RecordsCommitted),
	)

	if writeErr != nil && !errors.Is(writeErr, context.Canceled) {
		span.RecordError(writeErr)
		logger.Error("scan aborted: committed batches are durable, the in-flight batch was lost",
			zap.Int64("records_committed", summary.RecordsCommitted),
			zap.Error(writeErr))
		return summary, writeErr
	}
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		span.RecordError(walkErr)
		return summary, walkErr
	}
	if errors.Is(walkErr, context.Canceled) || errors.Is(writeErr, context.Canceled) {
		return summary, context.Canceled
	}
	return summary, nil
}

// ExportRun reads every stored record from the database at dbPath and
// writes them as CSV to csvPath, returning the row count.
func ExportRun(ctx context.Context, dbPath, csvPath string) (int64, error) {
	database, err := db.OpenExisting(dbPath)
	if err != nil {
		return 0, err
	}

	store, err := db.NewStore(database, db.ConflictIgnore)
	if err != nil {
		database.Close()
		return 0, err
	}
	defer store.Close()

	out, err := os.Create(csvPath)
	if err != nil {
		return 0, fmt.Errorf("create csv file: %w", err)
	}

	rows, err := db.ExportCSV(ctx, store, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return rows, err
}
