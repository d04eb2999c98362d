package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/models"
	"mailstudio/internal/services"
)

// TransferHandler handles bulk export and import of categories and templates.
type TransferHandler struct {
	templates  *services.TemplateService
	categories *services.CategoryService
}

// NewTransferHandler creates a TransferHandler.
func NewTransferHandler(templates *services.TemplateService, categories *services.CategoryService) *TransferHandler {
	return &TransferHandler{templates: templates, categories: categories}
}

// Export returns a full snapshot, archived templates included.
func (h *TransferHandler) Export(c *gin.Context) {
	c.JSON(http.StatusOK, h.templates.ExportAll(h.categories))
}

type importRequest struct {
	Categories json.RawMessage `json:"categories"`
	Templates  json.RawMessage `json:"templates"`
}

// Import merges the posted snapshot by ID; existing records win.
func (h *TransferHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categories/templates must be arrays"})
		return
	}
	cats := []models.Category{}
	if req.Categories != nil {
		if err := json.Unmarshal(req.Categories, &cats); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "categories/templates must be arrays"})
			return
		}
	}
	tpls := []models.Template{}
	if req.Templates != nil {
		if err := json.Unmarshal(req.Templates, &tpls); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "categories/templates must be arrays"})
			return
		}
	}
	catCount, tplCount, err := h.templates.Import(h.categories, cats, tpls)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "categories": catCount, "templates": tplCount})
}
