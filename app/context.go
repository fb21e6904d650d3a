// Package app owns a scan run end to end: the RunContext holding every
// per-run resource and the Run orchestration that wires walker pool,
// record queue, batch writer, and store together.
package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/db"
	"github.com/hirvin/drivemapper/models"
)

// RunContext bundles the resources owned by one scan run. It is built
// at run start and torn down exactly once on every exit path.
type RunContext struct {
	Store   *db.Store
	Queue   chan models.FileRecord
	Wg      *sync.WaitGroup
	Stats   *models.ProgressStats
	Context context.Context
	Cancel  context.CancelFunc
	Logger  *zap.Logger

	cleanup    sync.Once
	queueClose sync.Once
}

func NewRunContext(parent context.Context, logger *zap.Logger, queueSize int) *RunContext {
	ctx, cancel := context.WithCancel(parent)
	now := time.Now()
	return &RunContext{
		Queue:   make(chan models.FileRecord, queueSize),
		Wg:      &sync.WaitGroup{},
		Context: ctx,
		Cancel:  cancel,
		Logger:  logger,
		Stats: &models.ProgressStats{
			StartTime:   now,
			LastLogTime: now,
		},
	}
}

// CloseQueue signals the writer that no more records are coming. Safe
// to call from any exit path; only the first call closes the channel.
func (rc *RunContext) CloseQueue() {
	rc.queueClose.Do(func() {
		close(rc.Queue)
	})
}

// PerformCleanup closes the queue, waits for the writer to drain, and
// shuts the storage connection down.
func (rc *RunContext) PerformCleanup() {
	rc.cleanup.Do(func() {
		rc.CloseQueue()

		if rc.Wg != nil {
			rc.Wg.Wait()
		}

		if rc.Store != nil {
			if err := rc.Store.Close(); err != nil {
				rc.Logger.Warn("closing store", zap.Error(err))
			}
		}

		rc.Cancel()
	})
}
