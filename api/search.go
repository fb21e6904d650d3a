package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// SearchFiles searches names and paths for a substring pattern.
func (h *Handler) SearchFiles(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := otel.Tracer("api/handlers").Start(ctx, "SearchFiles")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	pattern := c.QueryParam("pattern")
	if pattern == "" {
		err := echo.NewHTTPError(http.StatusBadRequest, "Pattern parameter is required")
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("pattern", pattern))

	like := "%" + pattern + "%"

	var total int
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM files
		WHERE name LIKE ? OR path LIKE ?
	`, like, like).Scan(&total)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get total count")
	}

	page, err := h.getPageFromQuery(c, total)
	if err != nil {
		span.RecordError(err)
		return err
	}
	offset := (page - 1) * perPage

	rows, err := h.db.QueryContext(ctx, `
		SELECT name, path, extension, is_directory, size_bytes, tags
		FROM files
		WHERE name LIKE ? OR path LIKE ?
		ORDER BY path
		LIMIT ? OFFSET ?
	`, like, like, perPage, offset)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search files")
	}
	defer rows.Close()

	entries := []FileEntry{}
	for rows.Next() {
		var entry FileEntry
		var tags string
		if err := rows.Scan(&entry.Name, &entry.Path, &entry.Extension, &entry.IsDir, &entry.Size, &tags); err != nil {
			span.RecordError(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to scan row")
		}
		entry.Tags = splitTags(tags)
		entries = append(entries, entry)
	}

	return c.JSON(http.StatusOK, NewPaginatedResponse(c, entries, page, total))
}

// AdvancedSearch filters records by size bounds, extension, kind, and tag.
func (h *Handler) AdvancedSearch(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := otel.Tracer("api/handlers").Start(ctx, "AdvancedSearch")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	baseQuery := " FROM files WHERE 1=1"
	params := []interface{}{}

	if minSize := c.QueryParam("min_size"); minSize != "" {
		span.SetAttributes(attribute.String("min_size", minSize))
		baseQuery += " AND size_bytes >= ?"
		params = append(params, minSize)
	}
	if maxSize := c.QueryParam("max_size"); maxSize != "" {
		span.SetAttributes(attribute.String("max_size", maxSize))
		baseQuery += " AND size_bytes <= ?"
		params = append(params, maxSize)
	}
	if extension := c.QueryParam("extension"); extension != "" {
		span.SetAttributes(attribute.String("extension", extension))
		baseQuery += " AND extension = ?"
		params = append(params, extension)
	}
	if isDir := c.QueryParam("is_directory"); isDir != "" {
		baseQuery += " AND is_directory = ?"
		params = append(params, isDir)
	}
	if isHidden := c.QueryParam("is_hidden"); isHidden != "" {
		baseQuery += " AND is_hidden = ?"
		params = append(params, isHidden)
	}
	if tag := c.QueryParam("tag"); tag != "" {
		span.SetAttributes(attribute.String("tag", tag))
		// Tags are stored '/'-joined; wrap both sides so a tag only
		// matches a whole segment.
		baseQuery += " AND ('/' || tags || '/') LIKE ?"
		params = append(params, "%/"+tag+"/%")
	}

	var total int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*)"+baseQuery, params...).Scan(&total)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get total count")
	}

	page, err := h.getPageFromQuery(c, total)
	if err != nil {
		span.RecordError(err)
		return err
	}
	offset := (page - 1) * perPage

	query := "SELECT name, path, extension, is_directory, size_bytes, tags" +
		baseQuery + " ORDER BY path LIMIT ? OFFSET ?"
	params = append(params, perPage, offset)

	rows, err := h.db.QueryContext(ctx, query, params...)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search files")
	}
	defer rows.Close()

	entries := []FileEntry{}
	for rows.Next() {
		var entry FileEntry
		var tags string
		if err := rows.Scan(&entry.Name, &entry.Path, &entry.Extension, &entry.IsDir, &entry.Size, &tags); err != nil {
			span.RecordError(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to scan row")
		}
		entry.Tags = splitTags(tags)
		entries = append(entries, entry)
	}

	return c.JSON(http.StatusOK, NewPaginatedResponse(c, entries, page, total))
}
