package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pdpscrape/models"
)

// ProductLookup is the pipeline the handler drives.
type ProductLookup interface {
	Lookup(ctx context.Context, rawURL string) (*models.ProductRecord, error)
}

// Product returns a handler for POST /api/v1/product.
//
// Orchestration flow:
//  1. Bind the request body.
//  2. ProductLookup.Lookup → validate, fetch, locate, map.
//  3. 200 with the bare ProductRecord, or the mapped error status.
func Product(svc ProductLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewExtractError(models.ErrCodeInvalidInput,
				"request: a JSON body with a valid url is required", err))
			return
		}

		rec, err := svc.Lookup(c.Request.Context(), req.URL)
		if err != nil {
			slog.Warn("product lookup failed",
				"url", req.URL,
				"error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			respondError(c, err)
			return
		}

		slog.Info("product extracted",
			"url", req.URL,
			"title", rec.Title,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		c.JSON(http.StatusOK, rec)
	}
}

// respondError maps an ExtractError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error) {
	var extractErr *models.ExtractError
	if !errors.As(err, &extractErr) {
		extractErr = models.NewExtractError(models.ErrCodeInternal, "internal error", err)
	}

	c.JSON(mapErrorToStatus(extractErr), models.ErrorResponse{
		Success: false,
		Error:   extractErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ExtractError) int {
	switch e.Code {
	case models.ErrCodeUnsupportedDomain, models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeUpstreamUnreachable:
		return http.StatusBadGateway // 502
	case models.ErrCodeUpstreamBlocked:
		return http.StatusForbidden // 403
	case models.ErrCodeUpstreamHTTP:
		if bodyAllowedForStatus(e.UpstreamStatus) {
			return e.UpstreamStatus
		}
		return http.StatusBadGateway
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// bodyAllowedForStatus reports whether status can be passed through with a
// JSON error body. 1xx, 204 and 304 responses carry none.
func bodyAllowedForStatus(status int) bool {
	switch {
	case status < 200 || status > 999:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
