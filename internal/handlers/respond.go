package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/logger"
)

// respondError maps an error to its HTTP status and a {"error": msg} body.
// Unknown errors become opaque 500s; internals are logged, never leaked.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			logger.Error("request failed", "status", appErr.Code, "error", appErr.Err)
		}
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	logger.Error("request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
