package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/models"
	"mailstudio/internal/services"
)

const (
	authRoleContextKey    = "auth_role"
	authTokenIDContextKey = "auth_token_id"
	authSourceContextKey  = "auth_token_source"
)

// TokenAuth authenticates every administrative request via an
// Authorization: Bearer <token> header and attaches the matched entry's role,
// id and source to the context. With no store file and no env-configured
// secret it fails every request with a 500 until an operator configures one.
func TokenAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hdr := c.GetHeader("Authorization")
		if !strings.HasPrefix(hdr, "Bearer ") {
			if !tokens.Configured() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "ADMIN_TOKEN not configured on server"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		entry, err := tokens.Authenticate(strings.TrimPrefix(hdr, "Bearer "))
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role := entry.Role
		if role == "" {
			role = models.RoleAdmin
		}
		c.Set(authRoleContextKey, role)
		c.Set(authTokenIDContextKey, entry.ID)
		c.Set(authSourceContextKey, entry.Source)
		c.Next()
	}
}

// RequireAdmin restricts role-sensitive operations to admin tokens. Read
// tokens are authenticated but forbidden here.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AuthRole(c) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AuthRole returns the authenticated role, or "" when unauthenticated.
func AuthRole(c *gin.Context) string {
	v, _ := c.Get(authRoleContextKey)
	s, _ := v.(string)
	return s
}

// AuthTokenID returns the authenticated token entry ID.
func AuthTokenID(c *gin.Context) string {
	v, _ := c.Get(authTokenIDContextKey)
	s, _ := v.(string)
	return s
}

// AuthTokenSource returns the authenticated token entry source.
func AuthTokenSource(c *gin.Context) string {
	v, _ := c.Get(authSourceContextKey)
	s, _ := v.(string)
	return s
}
