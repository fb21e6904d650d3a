// Package scanner discovers filesystem entries and turns them into
// records for the batch writer.
//
// Traversal fans out one goroutine per discovered directory. A weighted
// semaphore bounds how many directories are being read at once, so the
// pool degree limits open directory handles rather than goroutine count;
// pending work is bounded by the number of undiscovered directories.
// Records from all walkers fan in to a single shared channel owned by
// the writer. Traversal order is unspecified.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/hirvin/drivemapper/models"
)

// Walker traverses a directory tree and emits one FileRecord per
// reachable entry onto the record queue. A Walker is single-use:
// construct with NewWalker, call Walk once.
type Walker struct {
	ctx    context.Context
	queue  chan<- models.FileRecord
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	stats  *models.ProgressStats
	logger *zap.Logger
}

func NewWalker(ctx context.Context, queue chan<- models.FileRecord, workers int, stats *models.ProgressStats, logger *zap.Logger) *Walker {
	return &Walker{
		ctx:    ctx,
		queue:  queue,
		sem:    semaphore.NewWeighted(int64(workers)),
		stats:  stats,
		logger: logger,
	}
}

// Walk traverses the subtree rooted at root and blocks until every
// discovered directory has been fully processed or the run context is
// canceled. Per-entry stat failures and unreadable directories are
// logged, counted as skipped, and never abort the walk. Only a root
// that cannot be stat'd at all is an error.
func (w *Walker) Walk(root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat root %s: %w", root, err)
	}

	if info.IsDir() {
		w.walkDirectory(root, info)
	} else {
		w.emit(BuildRecord(root, info))
	}

	w.wg.Wait()
	return w.ctx.Err()
}

// walkDirectory spawns a goroutine that lists one directory, emits a
// record for the directory itself plus each file inside it, and
// recursively fans out into subdirectories. The semaphore is held only
// around the directory read, so children can acquire it while the
// parent is still emitting records. A directory whose listing fails is
// counted as skipped and produces no record; siblings are unaffected.
func (w *Walker) walkDirectory(dir string, info os.FileInfo) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if err := w.sem.Acquire(w.ctx, 1); err != nil {
			return
		}
		entries, err := os.ReadDir(dir)
		w.sem.Release(1)

		if err != nil {
			atomic.AddInt64(&w.stats.SkippedEntries, 1)
			w.logger.Warn("skipping unreadable directory",
				zap.String("path", dir),
				zap.Error(err))
			return
		}

		if !w.emit(BuildRecord(dir, info)) {
			return
		}

		for _, entry := range entries {
			select {
			case <-w.ctx.Done():
				return
			default:
			}

			path := filepath.Join(dir, entry.Name())
			entryInfo, err := entry.Info()
			if err != nil {
				atomic.AddInt64(&w.stats.SkippedEntries, 1)
				w.logger.Warn("skipping entry",
					zap.String("path", path),
					zap.Error(err))
				continue
			}

			// DirEntry info is lstat-based, so symlinked directories
			// fall through to emit and are never followed.
			if entry.IsDir() {
				w.walkDirectory(path, entryInfo)
				continue
			}

			if !w.emit(BuildRecord(path, entryInfo)) {
				return
			}
		}
	}()
}

func (w *Walker) emit(record models.FileRecord) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.queue <- record:
		atomic.AddInt64(&w.stats.ScannedEntries, 1)
		return true
	}
}
