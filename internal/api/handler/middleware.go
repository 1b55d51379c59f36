package handler

import (
	"net/http"
	"strings"

	"resolve/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// AuthRequired validates the bearer token and stashes the caller's identity
// in the request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		claims, err := h.parseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil || claims.Purpose != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, string(claims.Role))
		c.Next()
	}
}

// VerifiedRequired blocks dashboard operations until the account's email is
// confirmed.
func (h *Handler) VerifiedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.Storage.GetUserByID(c.GetString(ctxUserID))
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed. Please try logging in again."})
			return
		}
		if user.EmailVerifiedAt == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Please verify your email address first."})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects non-admin callers and audits the denial.
func (h *Handler) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if models.Role(c.GetString(ctxRole)) != models.RoleAdmin {
			userID := c.GetString(ctxUserID)
			h.Monitor.LogEvent("role_denied", "medium", &userID, c.ClientIP(), c.Request.UserAgent(), c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}
