package db

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hirvin/drivemapper/models"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"path", "name", "extension", "size_bytes", "tags",
	"is_directory", "scanned_at_utc", "mod_time_utc", "is_hidden",
}

// ExportCSV writes every stored record to w as CSV, one row per record,
// ordered by path with a leading header row. Tags are flattened into a
// single '/'-delimited field. Exporting an unmodified database twice
// yields byte-identical output.
func ExportCSV(ctx context.Context, store *Store, w io.Writer) (int64, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	var rows int64
	err := store.ForEach(ctx, func(record models.FileRecord) error {
		rows++
		return cw.Write([]string{
			record.Path,
			record.Name,
			record.Extension,
			strconv.FormatInt(record.SizeBytes, 10),
			joinTags(record.Tags),
			strconv.FormatBool(record.IsDirectory),
			strconv.FormatInt(record.ScannedAtUTC, 10),
			strconv.FormatInt(record.ModTimeUTC, 10),
			strconv.FormatBool(record.IsHidden),
		})
	})
	if err != nil {
		return rows, fmt.Errorf("export rows: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("flush csv: %w", err)
	}
	return rows, nil
}
