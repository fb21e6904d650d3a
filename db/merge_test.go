package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/models"
)

func seedDatabase(t *testing.T, path string, records []models.FileRecord) {
	t.Helper()

	database, err := SetupDatabase(path)
	require.NoError(t, err)

	store, err := NewStore(database, ConflictIgnore)
	require.NoError(t, err)
	require.NoError(t, store.InsertBatch(context.Background(), records))
	require.NoError(t, store.Close())
}

func TestMergeDatabase(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.db")
	destPath := filepath.Join(dir, "dest.db")

	seedDatabase(t, sourcePath, sampleRecords())
	seedDatabase(t, destPath, []models.FileRecord{{
		Path:         "/other/keep.txt",
		Name:         "keep.txt",
		Extension:    "txt",
		SizeBytes:    1,
		ScannedAtUTC: 1700000300,
	}})

	copied, err := MergeDatabase(context.Background(), sourcePath, destPath, ConflictIgnore, zap.NewNop())
	require.NoError(t, err)
	require.EqualValues(t, 3, copied)

	database, err := SetupDatabase(destPath)
	require.NoError(t, err)
	dest, err := NewStore(database, ConflictIgnore)
	require.NoError(t, err)
	defer dest.Close()

	count, err := dest.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 4, count)
}

func TestMergeDatabaseMissingSource(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "nope.db")
	destPath := filepath.Join(dir, "dest.db")
	seedDatabase(t, destPath, sampleRecords())

	_, err := MergeDatabase(context.Background(), sourcePath, destPath, ConflictIgnore, zap.NewNop())
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NoFileExists(t, sourcePath, "a mistyped source path must not be created")
}

func TestMergeDatabaseConflictIgnore(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.db")
	destPath := filepath.Join(dir, "dest.db")

	source := sampleRecords()
	source[0].SizeBytes = 999
	seedDatabase(t, sourcePath, source)
	seedDatabase(t, destPath, sampleRecords())

	_, err := MergeDatabase(context.Background(), sourcePath, destPath, ConflictIgnore, zap.NewNop())
	require.NoError(t, err)

	database, err := SetupDatabase(destPath)
	require.NoError(t, err)
	dest, err := NewStore(database, ConflictIgnore)
	require.NoError(t, err)
	defer dest.Close()

	var size int64
	require.NoError(t, database.QueryRow(
		"SELECT size_bytes FROM files WHERE path = ?", "/data/a/b/file1.txt",
	).Scan(&size))
	require.EqualValues(t, 10, size, "ignore policy keeps the destination row")
}
