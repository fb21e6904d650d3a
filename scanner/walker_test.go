package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/models"
)

// buildTree creates the fixture layout used by the walker tests:
//
//	root/a/b/file1.txt (10 bytes)
//	root/a/c/file2.log (0 bytes)
//	root/a/d/          (unreadable)
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "c"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "d"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "file1.txt"), []byte("0123456789"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "c", "file2.log"), nil, 0644))
	require.NoError(t, os.Chmod(filepath.Join(root, "a", "d"), 0000))
	t.Cleanup(func() {
		os.Chmod(filepath.Join(root, "a", "d"), 0755)
	})

	return root
}

// runWalk drains the queue concurrently and returns the emitted records.
func runWalk(t *testing.T, ctx context.Context, root string, workers int, stats *models.ProgressStats) ([]models.FileRecord, error) {
	t.Helper()

	queue := make(chan models.FileRecord, 16)
	done := make(chan []models.FileRecord)
	go func() {
		var records []models.FileRecord
		for record := range queue {
			records = append(records, record)
		}
		done <- records
	}()

	walker := NewWalker(ctx, queue, workers, stats, zap.NewNop())
	err := walker.Walk(root)
	close(queue)
	return <-done, err
}

func recordPaths(records []models.FileRecord) []string {
	paths := make([]string, 0, len(records))
	for _, record := range records {
		paths = append(paths, record.Path)
	}
	sort.Strings(paths)
	return paths
}

func TestWalkVisitsEveryEntryExactlyOnce(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := buildTree(t)
	stats := &models.ProgressStats{}

	records, err := runWalk(t, context.Background(), root, 4, stats)
	require.NoError(t, err)

	// root, a, b, c plus the two files; unreadable d produces no record.
	expected := []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "a", "b", "file1.txt"),
		filepath.Join(root, "a", "c"),
		filepath.Join(root, "a", "c", "file2.log"),
	}
	require.Equal(t, expected, recordPaths(records))

	require.EqualValues(t, len(expected), atomic.LoadInt64(&stats.ScannedEntries))
	require.EqualValues(t, 1, atomic.LoadInt64(&stats.SkippedEntries))
}

func TestWalkRecordContents(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := buildTree(t)
	records, err := runWalk(t, context.Background(), root, 2, &models.ProgressStats{})
	require.NoError(t, err)

	byName := map[string]models.FileRecord{}
	for _, record := range records {
		byName[record.Name] = record
	}

	file1 := byName["file1.txt"]
	require.EqualValues(t, 10, file1.SizeBytes)
	require.Equal(t, "txt", file1.Extension)
	require.False(t, file1.IsDirectory)
	// Tags end with the directory chain below the temp root.
	n := len(file1.Tags)
	require.GreaterOrEqual(t, n, 2)
	require.Equal(t, []string{"a", "b"}, file1.Tags[n-2:])

	file2 := byName["file2.log"]
	require.Zero(t, file2.SizeBytes)

	dirB := byName["b"]
	require.True(t, dirB.IsDirectory)
	require.Zero(t, dirB.SizeBytes)
}

func TestWalkConcurrencyInvariant(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := buildTree(t)

	sequential, err := runWalk(t, context.Background(), root, 1, &models.ProgressStats{})
	require.NoError(t, err)

	for _, workers := range []int{2, 8} {
		parallel, err := runWalk(t, context.Background(), root, workers, &models.ProgressStats{})
		require.NoError(t, err)
		require.Equal(t, recordPaths(sequential), recordPaths(parallel),
			"workers=%d changed the visited set", workers)
	}
}

func TestWalkSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	records, err := runWalk(t, context.Background(), path, 1, &models.ProgressStats{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "only.txt", records[0].Name)
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := runWalk(t, context.Background(), filepath.Join(t.TempDir(), "nope"), 1, &models.ProgressStats{})
	require.Error(t, err)
}

func TestWalkCanceledContext(t *testing.T) {
	root := buildTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := runWalk(t, ctx, root, 4, &models.ProgressStats{})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, records)
}

func TestWalkDoesNotFollowDirectorySymlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real", "f.txt"), []byte("x"), 0644))
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	records, err := runWalk(t, context.Background(), root, 2, &models.ProgressStats{})
	require.NoError(t, err)

	// The symlink itself is recorded, but nothing underneath it.
	require.NotContains(t, recordPaths(records), filepath.Join(root, "link", "f.txt"))
	require.Contains(t, recordPaths(records), filepath.Join(root, "link"))
}
