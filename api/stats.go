package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// GetStats returns aggregate statistics for the whole database.
func (h *Handler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := otel.Tracer("api/handlers").Start(ctx, "GetStats")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	var stats ScanStats
	err := h.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM files WHERE is_directory = 0),
			(SELECT COUNT(*) FROM files WHERE is_directory = 1),
			(SELECT COALESCE(SUM(size_bytes), 0) FROM files),
			(SELECT COUNT(DISTINCT extension) FROM files WHERE extension != ''),
			(SELECT COALESCE(MAX(scanned_at_utc), 0) FROM files)
	`).Scan(
		&stats.TotalFiles,
		&stats.TotalDirectories,
		&stats.TotalSize,
		&stats.UniqueExtensions,
		&stats.LastScannedAt,
	)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get statistics")
	}

	return c.JSON(http.StatusOK, stats)
}

// GetExtensionStats returns a per-extension rollup, largest file count
// first.
func (h *Handler) GetExtensionStats(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := otel.Tracer("api/handlers").Start(ctx, "GetExtensionStats")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	limit := c.QueryParam("limit")
	if limit == "" {
		limit = "10"
	}
	span.SetAttributes(attribute.String("limit", limit))

	rows, err := h.db.QueryContext(ctx, `
		SELECT
			extension,
			COUNT(*) as file_count,
			SUM(size_bytes) as total_size,
			AVG(size_bytes) as avg_size,
			MIN(size_bytes) as min_size,
			MAX(size_bytes) as max_size
		FROM files
		WHERE is_directory = 0
		GROUP BY extension
		ORDER BY file_count DESC
		LIMIT ?
	`, limit)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get extension statistics")
	}
	defer rows.Close()

	stats := []ExtensionStats{}
	for rows.Next() {
		var stat ExtensionStats
		if err := rows.Scan(
			&stat.Extension,
			&stat.FileCount,
			&stat.TotalSize,
			&stat.AverageSize,
			&stat.MinSize,
			&stat.MaxSize,
		); err != nil {
			span.RecordError(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to scan row")
		}
		stats = append(stats, stat)
	}

	return c.JSON(http.StatusOK, stats)
}
