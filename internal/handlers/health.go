package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/services"
)

// HealthHandler serves unauthenticated liveness and diagnostics endpoints.
type HealthHandler struct {
	templates  *services.TemplateService
	categories *services.CategoryService
	version    string
	startedAt  time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(templates *services.TemplateService, categories *services.CategoryService, version string) *HealthHandler {
	return &HealthHandler{
		templates:  templates,
		categories: categories,
		version:    version,
		startedAt:  time.Now(),
	}
}

// Ping is a bare liveness probe.
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UnixMilli(), "pid": os.Getpid()})
}

// Health reports uptime and resource counts. Does not expose sensitive data.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"uptimeSec":  int(time.Since(h.startedAt).Round(time.Second).Seconds()),
		"templates":  h.templates.ActiveCount(),
		"categories": len(h.categories.List()),
		"version":    h.version,
	})
}

// Diag reports runtime details for operators.
func (h *HealthHandler) Diag(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
		"pid":  os.Getpid(),
		"go":   runtime.Version(),
		"memory": gin.H{
			"alloc":      mem.Alloc,
			"totalAlloc": mem.TotalAlloc,
			"sys":        mem.Sys,
			"numGC":      mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	})
}
