package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, models.ErrInsufficientStock):
		return http.StatusConflict, "insufficient_stock"
	case errors.Is(err, models.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError maps domain errors onto HTTP statuses. Internal failures are
// logged and their detail hidden from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, code := classify(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		detail = "internal server error"
	} else {
		logger.Debug("request rejected", zap.String("code", code), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Detail: detail})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	respondError(c, logger, errors.Join(models.ErrValidation, err))
}
