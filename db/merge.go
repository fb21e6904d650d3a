package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/models"
)

// MergeDatabase copies every record from the scan database at
// sourcePath into the one at destPath, resolving path collisions with
// the given policy. The copy runs inside a single destination
// transaction so a failed merge leaves the destination untouched.
// Returns the number of records read from the source.
func MergeDatabase(ctx context.Context, sourcePath, destPath string, policy ConflictPolicy, logger *zap.Logger) (int64, error) {
	sourceDB, err := OpenExisting(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("open source database: %w", err)
	}
	defer sourceDB.Close()

	source, err := NewStore(sourceDB, ConflictIgnore)
	if err != nil {
		return 0, err
	}

	destDB, err := SetupDatabase(destPath)
	if err != nil {
		return 0, fmt.Errorf("open destination database: %w", err)
	}
	defer destDB.Close()

	dest, err := NewStore(destDB, policy)
	if err != nil {
		return 0, err
	}

	tx, err := destDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin merge transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, dest.insert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var copied int64
	err = source.ForEach(ctx, func(record models.FileRecord) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, err := stmt.ExecContext(ctx,
			record.Path,
			record.Name,
			record.Extension,
			record.SizeBytes,
			joinTags(record.Tags),
			record.IsDirectory,
			record.IsHidden,
			record.ModTimeUTC,
			record.ScannedAtUTC,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", record.Path, err)
		}

		copied++
		if copied%10000 == 0 {
			logger.Info("merge progress", zap.Int64("records", copied))
		}
		return nil
	})
	if err != nil {
		return copied, err
	}

	if err := tx.Commit(); err != nil {
		return copied, fmt.Errorf("commit merge: %w", err)
	}
	return copied, nil
}
