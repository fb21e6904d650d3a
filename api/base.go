// Package api serves read-only queries over a scanned database.
package api

import (
	"database/sql"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const perPage = 100

type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

// NewPaginatedResponse creates a paginated response and adds telemetry.
func NewPaginatedResponse(c echo.Context, data interface{}, page int, total int) *PaginatedResponse {
	totalPages := (total + perPage - 1) / perPage
	hasNext := page < totalPages

	if span := trace.SpanFromContext(c.Request().Context()); span != nil {
		span.SetAttributes(
			attribute.Bool("has_next_page", hasNext),
			attribute.Int("response_items", reflect.ValueOf(data).Len()),
		)
	}

	return &PaginatedResponse{
		Data:       data,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    hasNext,
	}
}

// getPageFromQuery validates the page parameter against the row total.
func (h *Handler) getPageFromQuery(c echo.Context, total int) (int, error) {
	pageStr := c.QueryParam("page")
	if pageStr == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid page number")
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages > 0 && page > totalPages {
		return 0, echo.NewHTTPError(http.StatusBadRequest,
			"Page number exceeds total pages. Total pages: "+strconv.Itoa(totalPages))
	}

	span := trace.SpanFromContext(c.Request().Context())
	span.SetAttributes(
		attribute.Int("page", page),
		attribute.Int("total", total),
	)

	return page, nil
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, "/")
}
