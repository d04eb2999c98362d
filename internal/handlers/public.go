package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/services"
)

// PublicHandler serves the optional unauthenticated template listing.
type PublicHandler struct {
	templates *services.TemplateService
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(templates *services.TemplateService) *PublicHandler {
	return &PublicHandler{templates: templates}
}

type publicVariable struct {
	Name   string `json:"name"`
	Sample string `json:"sample,omitempty"`
}

type publicTemplate struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Body      string           `json:"body"`
	Variables []publicVariable `json:"variables"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// List returns active templates stripped of internal fields.
func (h *PublicHandler) List(c *gin.Context) {
	active := h.templates.List(false)
	out := make([]publicTemplate, 0, len(active))
	for _, t := range active {
		vars := make([]publicVariable, 0, len(t.Variables))
		for _, v := range t.Variables {
			vars = append(vars, publicVariable{Name: v.Name, Sample: v.Sample})
		}
		updated := t.CreatedAt
		if t.UpdatedAt != nil {
			updated = *t.UpdatedAt
		}
		out = append(out, publicTemplate{
			ID:        t.ID,
			Name:      t.Name,
			Body:      t.Body,
			Variables: vars,
			UpdatedAt: updated,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"templates":   out,
		"count":       len(out),
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}
