package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes. An AppError with a
// code decides for itself.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrLedger):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the mapped status. Client errors are echoed,
// server side errors are logged and replaced by msg.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func bindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}
