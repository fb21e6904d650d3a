package db

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	store := openTestStore(t, ConflictIgnore)
	ctx := context.Background()

	require.NoError(t, store.InsertBatch(ctx, sampleRecords()))

	var out bytes.Buffer
	rows, err := ExportCSV(ctx, store, &out)
	require.NoError(t, err)
	require.EqualValues(t, 3, rows)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t,
		"path,name,extension,size_bytes,tags,is_directory,scanned_at_utc,mod_time_utc,is_hidden",
		lines[0])

	// Rows come out ordered by path.
	require.True(t, strings.HasPrefix(lines[1], "/data/a,"))
	require.True(t, strings.HasPrefix(lines[2], "/data/a/.hidden.log,"))
	require.True(t, strings.HasPrefix(lines[3], "/data/a/b/file1.txt,"))

	require.Equal(t, "/data/a/b/file1.txt,file1.txt,txt,10,data/a/b,false,1700000200,1700000100,false", lines[3])
}

func TestExportCSVIdempotent(t *testing.T) {
	store := openTestStore(t, ConflictIgnore)
	ctx := context.Background()

	require.NoError(t, store.InsertBatch(ctx, sampleRecords()))

	var first, second bytes.Buffer
	_, err := ExportCSV(ctx, store, &first)
	require.NoError(t, err)
	_, err = ExportCSV(ctx, store, &second)
	require.NoError(t, err)

	require.Equal(t, first.Bytes(), second.Bytes())
}

func TestExportCSVEmptyStore(t *testing.T) {
	store := openTestStore(t, ConflictIgnore)

	var out bytes.Buffer
	rows, err := ExportCSV(context.Background(), store, &out)
	require.NoError(t, err)
	require.Zero(t, rows)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 1, "header only")
}
