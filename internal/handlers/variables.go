package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/variables"
)

// VariablesHandler exposes placeholder extraction.
type VariablesHandler struct{}

// NewVariablesHandler creates a VariablesHandler.
func NewVariablesHandler() *VariablesHandler {
	return &VariablesHandler{}
}

type extractRequest struct {
	Body any `json:"body"`
}

// Extract handles POST /api/admin/variables/extract. Non-string bodies yield
// an empty list, never an error.
func (h *VariablesHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"variables": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"variables": variables.ExtractAny(req.Body)})
}
