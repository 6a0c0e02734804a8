// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
	apperrors "github.com/empirehq/trustcore/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`

	// Authorization failures carry the guard structure so edge middleware
	// can render both roles and emit audit logs.
	RequiredRole string `json:"required_role,omitempty"`
	ActualRole   string `json:"actual_role,omitempty"`
	AuditAction  string `json:"audit_action,omitempty"`
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON
// response. ForbiddenError is never downgraded; its structured fields are
// included in the 403 body.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	var forbidden *accessDomain.ForbiddenError

	switch {
	case apperrors.As(err, &forbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:        "forbidden",
			Message:      forbidden.Error(),
			RequiredRole: forbidden.Required.String(),
			ActualRole:   forbidden.Actual.String(),
			AuditAction:  forbidden.AuditAction,
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		errorResponse = ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}

	default:
		// For unknown/internal errors, don't expose details to the client.
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	// Log the full error details (including wrapped errors).
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// MakeJSONResponse writes a JSON response with the given status code using
// the standard library, for handlers outside gin routing.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already written, nothing more we can do here.
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}
