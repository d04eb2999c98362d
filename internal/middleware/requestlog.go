package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mailstudio/internal/logger"
)

const requestIDContextKey = "request_id"

// RequestID assigns each request an ID (honoring an incoming X-Request-Id)
// and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// GetRequestID returns the request ID assigned by RequestID.
func GetRequestID(c *gin.Context) string {
	v, _ := c.Get(requestIDContextKey)
	s, _ := v.(string)
	return s
}

// RequestLog logs method, path, status and duration for every request.
// Opt-in via config.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"id", GetRequestID(c),
			"method", c.Request.Method,
			"url", c.Request.URL.RequestURI(),
			"status", c.Writer.Status(),
			"ms", time.Since(start).Milliseconds(),
		)
	}
}
