// Package writer drains the record queue into durable storage. Exactly
// one BatchWriter consumes the queue; the storage handle is never
// touched by any other component.
package writer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/models"
)

// ErrRetriesExhausted marks a batch commit that failed permanently
// after the configured number of retries. Batches committed before the
// failure are durable; the in-flight batch is lost.
var ErrRetriesExhausted = errors.New("batch commit retries exhausted")

// Store is the storage contract the writer depends on. InsertBatch must
// be atomic: a failed call leaves none of the batch behind.
type Store interface {
	InsertBatch(ctx context.Context, records []models.FileRecord) error
}

type Config struct {
	BatchSize        int
	MaxRetries       int
	RetryInterval    time.Duration // initial backoff interval
	ProgressInterval time.Duration // min delay between progress log lines
}

// BatchWriter is the single consumer of the record queue. It groups
// records into fixed-size batches and commits each batch as one storage
// transaction, flushing a final partial batch when the queue closes.
type BatchWriter struct {
	store  Store
	queue  <-chan models.FileRecord
	cfg    Config
	stats  *models.ProgressStats
	logger *zap.Logger
}

func New(store Store, queue <-chan models.FileRecord, cfg Config, stats *models.ProgressStats, logger *zap.Logger) *BatchWriter {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 5 * time.Second
	}
	return &BatchWriter{
		store:  store,
		queue:  queue,
		cfg:    cfg,
		stats:  stats,
		logger: logger,
	}
}

// Run consumes the queue until it is closed and drained, or until ctx
// is canceled. On cancellation the current partial batch is still
// flushed before returning; a batch is never torn in half.
func (w *BatchWriter) Run(ctx context.Context) error {
	batch := make([]models.FileRecord, 0, w.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			if err := w.commit(batch); err != nil {
				return err
			}
			return ctx.Err()

		case record, ok := <-w.queue:
			if !ok {
				return w.commit(batch)
			}
			batch = append(batch, record)
			if len(batch) >= w.cfg.BatchSize {
				if err := w.commit(batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}
}

// commit writes one batch through the store, retrying transient
// failures with exponential backoff up to the configured attempt
// count. The store call runs under a context detached from the run
// context: a batch that has started committing always finishes, so a
// mid-commit cancel can neither tear the batch nor turn into a
// spurious storage failure. Cancellation is observed between batches.
func (w *BatchWriter) commit(batch []models.FileRecord) error {
	if len(batch) == 0 {
		return nil
	}

	ctx, span := otel.Tracer("writer").Start(context.Background(), "CommitBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch_size", len(batch)))

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.cfg.RetryInterval

	attempts := 0
	err := backoff.RetryNotify(
		func() error {
			attempts++
			err := w.store.InsertBatch(ctx, batch)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// Not a storage fault; retrying against a dead
				// context only burns the backoff budget.
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithMaxRetries(policy, uint64(w.cfg.MaxRetries)),
		func(err error, wait time.Duration) {
			w.logger.Warn("batch commit failed, retrying",
				zap.Int("attempt", attempts),
				zap.Duration("backoff", wait),
				zap.Error(err))
		},
	)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		span.RecordError(err)
		return err
	}
	if err != nil {
		span.RecordError(err)
		w.logger.Error("batch commit failed permanently",
			zap.Int64("batches_committed", atomic.LoadInt64(&w.stats.CommittedBatches)),
			zap.Int64("records_committed", atomic.LoadInt64(&w.stats.CommittedRecords)),
			zap.Int("records_lost", len(batch)),
			zap.Error(err))
		return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, err)
	}

	var bytes int64
	for _, record := range batch {
		bytes += record.SizeBytes
	}
	atomic.AddInt64(&w.stats.CommittedRecords, int64(len(batch)))
	atomic.AddInt64(&w.stats.CommittedBatches, 1)
	atomic.AddInt64(&w.stats.ProcessedBytes, bytes)

	w.maybeLogProgress()
	return nil
}

func (w *BatchWriter) maybeLogProgress() {
	w.stats.Mutex.Lock()
	due := time.Since(w.stats.LastLogTime) >= w.cfg.ProgressInterval
	if due {
		w.stats.LastLogTime = time.Now()
	}
	w.stats.Mutex.Unlock()

	if !due {
		return
	}

	w.logger.Info("scan progress",
		zap.Int64("records", atomic.LoadInt64(&w.stats.CommittedRecords)),
		zap.Int64("batches", atomic.LoadInt64(&w.stats.CommittedBatches)),
		zap.String("data", humanize.IBytes(uint64(atomic.LoadInt64(&w.stats.ProcessedBytes)))),
		zap.Duration("elapsed", time.Since(w.stats.StartTime).Round(time.Second)))
}
