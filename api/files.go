package api

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// GetFileRecord returns the stored record for one path.
func (h *Handler) GetFileRecord(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := otel.Tracer("api/handlers").Start(ctx, "GetFileRecord")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	path := c.QueryParam("path")
	if path == "" {
		err := echo.NewHTTPError(http.StatusBadRequest, "Path parameter is required")
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("path", path))

	var detail FileDetail
	var tags string
	err := h.db.QueryRowContext(ctx, `
		SELECT name, path, extension, size_bytes, tags,
		       is_directory, is_hidden, mod_time_utc, scanned_at_utc
		FROM files
		WHERE path = ?
	`, path).Scan(
		&detail.Name,
		&detail.Path,
		&detail.Extension,
		&detail.Size,
		&tags,
		&detail.IsDir,
		&detail.IsHidden,
		&detail.Modified,
		&detail.ScannedAt,
	)
	if err == sql.ErrNoRows {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get file record")
	}
	detail.Tags = splitTags(tags)

	return c.JSON(http.StatusOK, detail)
}
