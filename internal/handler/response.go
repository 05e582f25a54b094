package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-backend/internal/domain"
)

// respondError maps err onto a status code and writes {"error": msg}.
func (h *Handler) respondError(c *gin.Context, err error, notFoundMsg string) {
	status, msg := mapError(err, notFoundMsg)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": msg})
}

func mapError(err error, notFoundMsg string) (int, string) {
	var validationErr *domain.ValidationError
	var uploadErr *domain.UploadError
	var storageErr *domain.StorageError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, domain.ErrNotFound):
		if notFoundMsg == "" {
			notFoundMsg = "Not found"
		}
		return http.StatusNotFound, notFoundMsg
	case errors.As(err, &uploadErr):
		return http.StatusInternalServerError, uploadErr.Error()
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError, "storage failure: " + storageErr.Err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
