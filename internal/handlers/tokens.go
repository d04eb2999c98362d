package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/middleware"
	"mailstudio/internal/models"
	"mailstudio/internal/services"
)

// TokenHandler handles admin credential management. All routes except Check
// additionally require the admin role.
type TokenHandler struct {
	tokens *services.TokenService
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(tokens *services.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// List returns sanitized token metadata (no hashes, no plaintext).
func (h *TokenHandler) List(c *gin.Context) {
	metas, err := h.tokens.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": metas})
}

// Check reports the acting token's role and identity for diagnostics.
func (h *TokenHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"role":    middleware.AuthRole(c),
		"tokenId": middleware.AuthTokenID(c),
		"source":  middleware.AuthTokenSource(c),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

type createTokenRequest struct {
	Role  string `json:"role"`
	Label string `json:"label"`
}

// Create generates a new token; the plaintext appears in this response only.
func (h *TokenHandler) Create(c *gin.Context) {
	req := createTokenRequest{Role: models.RoleAdmin}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleAdmin
	}
	entry, plain, err := h.tokens.Create(req.Role, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    entry.ID,
		"token": plain,
		"role":  entry.Role,
		"label": entry.Label,
	})
}

// Reveal returns retained plaintext for a legacy entry.
func (h *TokenHandler) Reveal(c *gin.Context) {
	entry, err := h.tokens.Reveal(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     entry.ID,
		"token":  entry.Token,
		"role":   entry.Role,
		"label":  entry.Label,
		"legacy": entry.Legacy,
	})
}

// Rotate replaces a generated token's secret.
func (h *TokenHandler) Rotate(c *gin.Context) {
	entry, plain, oldEndsWith, err := h.tokens.Rotate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"id": entry.ID, "newToken": plain}
	if oldEndsWith != "" {
		resp["oldTokenEndsWith"] = oldEndsWith
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a generated token entry.
func (h *TokenHandler) Delete(c *gin.Context) {
	if err := h.tokens.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
