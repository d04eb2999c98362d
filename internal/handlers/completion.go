package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/metrics"
	"mailstudio/internal/services"
)

// CompletionHandler proxies prompts to the upstream completion API.
type CompletionHandler struct {
	completions *services.CompletionService
}

// NewCompletionHandler creates a CompletionHandler.
func NewCompletionHandler(completions *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{completions: completions}
}

type completionRequest struct {
	Prompt  json.RawMessage `json:"prompt"`
	Feature string          `json:"feature"`
}

// Complete handles POST /api/openai: 500 when no upstream key is configured,
// 400 when the prompt is missing or not a string, otherwise one upstream call
// with the result surfaced directly.
func (h *CompletionHandler) Complete(c *gin.Context) {
	if !h.completions.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server missing OPENAI_API_KEY"})
		return
	}
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing prompt"})
		return
	}
	var prompt string
	if err := json.Unmarshal(req.Prompt, &prompt); err != nil || prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing prompt"})
		return
	}

	result, err := h.completions.Complete(c.Request.Context(), prompt, req.Feature)
	if err != nil {
		metrics.CompletionTotal.WithLabelValues(req.Feature, "error").Inc()
		respondError(c, err)
		return
	}
	metrics.CompletionTotal.WithLabelValues(result.Feature, "ok").Inc()
	c.JSON(http.StatusOK, result)
}
