package models

import (
	"sync"
	"time"
)

// FileRecord holds the metadata captured for a single filesystem entry.
// A record is built exactly once by a walker, passed through the record
// queue, and never mutated afterwards; the batch writer only reads it.
type FileRecord struct {
	Path         string
	Name         string
	Extension    string
	SizeBytes    int64
	Tags         []string
	IsDirectory  bool
	IsHidden     bool
	ModTimeUTC   int64
	ScannedAtUTC int64
}

// ProgressStats carries the running counters for one scan run. The count
// fields are updated with sync/atomic from walker goroutines and the
// writer; Mutex only guards LastLogTime for throttled progress output.
type ProgressStats struct {
	ScannedEntries   int64
	SkippedEntries   int64
	CommittedRecords int64
	CommittedBatches int64
	ProcessedBytes   int64
	StartTime        time.Time
	LastLogTime      time.Time
	Mutex            sync.Mutex
}
