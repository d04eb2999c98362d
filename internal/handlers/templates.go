package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/models"
	"mailstudio/internal/services"
)

// TemplateHandler handles template CRUD, archive and restore endpoints.
type TemplateHandler struct {
	templates *services.TemplateService
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templates *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List returns templates; ?all=1 includes archived ones.
func (h *TemplateHandler) List(c *gin.Context) {
	all := c.Query("all")
	c.JSON(http.StatusOK, h.templates.List(all == "1" || all == "true"))
}

// Get returns a single template by ID.
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.templates.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

type createTemplateRequest struct {
	Name       string            `json:"name"`
	CategoryID *string           `json:"categoryId"`
	Body       string            `json:"body"`
	Variables  []models.Variable `json:"variables"`
}

// Create adds a template.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	tpl, err := h.templates.Create(req.Name, req.CategoryID, req.Body, req.Variables)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// updateTemplateRequest distinguishes absent fields (leave unchanged) from
// explicit nulls via raw JSON presence.
type updateTemplateRequest struct {
	Name       *string            `json:"name"`
	CategoryID json.RawMessage    `json:"categoryId"`
	Body       *string            `json:"body"`
	Variables  *[]models.Variable `json:"variables"`
}

// Update applies a partial update.
func (h *TemplateHandler) Update(c *gin.Context) {
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	upd := services.TemplateUpdate{
		Name: req.Name,
		Body: req.Body,
	}
	if req.CategoryID != nil {
		upd.CategoryIDSet = true
		var id *string
		if err := json.Unmarshal(req.CategoryID, &id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return
		}
		upd.CategoryID = id
	}
	if req.Variables != nil {
		upd.VariablesSet = true
		upd.Variables = *req.Variables
	}
	tpl, err := h.templates.Update(c.Param("id"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// Delete archives a template (soft delete).
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.SoftDelete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "archived": true})
}

// Restore brings an archived template back.
func (h *TemplateHandler) Restore(c *gin.Context) {
	if err := h.templates.Restore(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "restored": true})
}
