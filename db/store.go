// Package db is the durable side of a scan: SQLite setup, schema
// migrations, the batch-insert store, CSV export, and database merging.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hirvin/drivemapper/models"
)

// TagSeparator joins a record's tags into the single stored column.
const TagSeparator = "/"

// ConflictPolicy selects what happens when a scan inserts a path that
// already exists in the database. The default, ConflictIgnore, keeps
// the existing row; ConflictReplace overwrites it.
type ConflictPolicy string

const (
	ConflictIgnore  ConflictPolicy = "ignore"
	ConflictReplace ConflictPolicy = "replace"
)

func (p ConflictPolicy) Valid() bool {
	return p == ConflictIgnore || p == ConflictReplace
}

func joinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

func (p ConflictPolicy) insertVerb() string {
	if p == ConflictReplace {
		return "INSERT OR REPLACE"
	}
	return "INSERT OR IGNORE"
}

// Store is the storage adapter over one open scan database. InsertBatch
// is atomic per call; everything else is read-only.
type Store struct {
	database *sql.DB
	insert   string
}

func NewStore(database *sql.DB, policy ConflictPolicy) (*Store, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown conflict policy %q", policy)
	}

	return &Store{
		database: database,
		insert: policy.insertVerb() + ` INTO files (
			path, name, extension, size_bytes, tags,
			is_directory, is_hidden, mod_time_utc, scanned_at_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	}, nil
}

// InsertBatch commits all records in one transaction. On any failure
// the transaction is rolled back and none of the batch lands.
func (s *Store) InsertBatch(ctx context.Context, records []models.FileRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
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
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", record.Path, err)
		}
	}

	return tx.Commit()
}

// ForEach streams every stored record, ordered by path, to fn. Iteration
// stops on the first error fn returns.
func (s *Store) ForEach(ctx context.Context, fn func(models.FileRecord) error) error {
	rows, err := s.database.QueryContext(ctx, `
		SELECT path, name, extension, size_bytes, tags,
		       is_directory, is_hidden, mod_time_utc, scanned_at_utc
		FROM files
		ORDER BY path
	`)
	if err != nil {
		return fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var record models.FileRecord
		var tags string
		if err := rows.Scan(
			&record.Path,
			&record.Name,
			&record.Extension,
			&record.SizeBytes,
			&tags,
			&record.IsDirectory,
			&record.IsHidden,
			&record.ModTimeUTC,
			&record.ScannedAtUTC,
		); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if tags != "" {
			record.Tags = strings.Split(tags, TagSeparator)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.database.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&count)
	return count, err
}

func (s *Store) Close() error {
	// Checkpoint so the .db file alone is a complete snapshot.
	if _, err := s.database.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.database.Close()
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	return s.database.Close()
}

// DB exposes the underlying handle for read-only consumers (the HTTP
// API). The scan path never uses it.
func (s *Store) DB() *sql.DB {
	return s.database
}
