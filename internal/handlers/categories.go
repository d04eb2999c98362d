package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/services"
)

// CategoryHandler handles category CRUD endpoints.
type CategoryHandler struct {
	categories *services.CategoryService
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name string `json:"name"`
}

// List returns all categories.
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.categories.List())
}

// Create adds a category.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	cat, err := h.categories.Create(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// Update renames a category.
func (h *CategoryHandler) Update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cat, err := h.categories.Update(c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// Delete hard-deletes a category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
