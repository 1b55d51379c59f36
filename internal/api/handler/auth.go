package handler

import (
	"net/http"
	"strings"
	"time"

	"resolve/backend/internal/accounts"
	"resolve/backend/internal/config"
	"resolve/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims carried by session tokens. Verification tokens reuse the type with
// Purpose set to "verify".
type Claims struct {
	UserID  string      `json:"uid"`
	Role    models.Role `json:"role"`
	Purpose string      `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// generateToken генерує JWT для користувача
func (h *Handler) generateToken(userID string, role models.Role, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "resolve-service",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

func (h *Handler) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return h.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// SignUp creates a student account and its profile. The response carries the
// verification token; there is no mail delivery in this deployment, the
// frontend hands the token straight to the verify endpoint.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please check your input and try again."})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := h.Storage.GetUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again."})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists."})
		return
	}

	hash, err := accounts.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again."})
		return
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := h.Storage.CreateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account."})
		return
	}
	if err := h.Storage.SaveProfile(&models.Profile{ID: user.ID, FullName: strings.TrimSpace(req.FullName)}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile."})
		return
	}

	verifyToken, err := h.generateToken(user.ID, models.RoleStudent, "verify", config.VerificationTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":            user.ID,
		"verification_token": verifyToken,
	})
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmail marks the account verified. Dashboard access is gated on this.
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please check your input and try again."})
		return
	}

	claims, err := h.parseToken(req.Token)
	if err != nil || claims.Purpose != "verify" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	if err := h.Storage.MarkEmailVerified(claims.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignIn authenticates and issues a session token. Repeated failures for the
// same email are throttled and audited.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please check your input and try again."})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := h.Storage.FailedLoginCount(email)
	if err == nil && count >= config.MaxLoginAttempts {
		h.Monitor.LogEvent("login_lockout", "high", nil, c.ClientIP(), c.Request.UserAgent(), c.FullPath())
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many failed attempts. Please try again later."})
		return
	}

	user, err := h.Storage.GetUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again."})
		return
	}
	if user == nil || !accounts.CheckPassword(user.PasswordHash, req.Password) {
		attempts, _ := h.Storage.RegisterFailedLogin(email)
		h.Monitor.LogEvent("failed_login", "medium", nil, c.ClientIP(), c.Request.UserAgent(), c.FullPath())
		if attempts >= config.MaxLoginAttempts {
			h.Monitor.LogEvent("login_lockout", "high", nil, c.ClientIP(), c.Request.UserAgent(), c.FullPath())
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed. Please try logging in again."})
		return
	}

	h.Storage.ClearFailedLogins(email)

	role, err := h.Storage.GetRole(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again."})
		return
	}

	token, err := h.generateToken(user.ID, role, "", config.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":          token,
		"user_id":        user.ID,
		"role":           role,
		"email_verified": user.EmailVerifiedAt != nil,
	})
}

// SignOut is stateless: sessions are bearer tokens, the client drops its
// copy. The endpoint exists so sign-outs appear in the audit trail.
func (h *Handler) SignOut(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	h.Monitor.LogEvent("sign_out", "low", &userID, c.ClientIP(), c.Request.UserAgent(), c.FullPath())
	c.JSON(http.StatusOK, gin.H{"signed_out": true})
}

// Session reports who the bearer token belongs to, mirroring the
// get-current-session contract the dashboards rely on.
func (h *Handler) Session(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	user, err := h.Storage.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed. Please try logging in again."})
		return
	}
	profile, _ := h.Storage.GetProfile(userID)

	c.JSON(http.StatusOK, gin.H{
		"user_id":        user.ID,
		"email":          user.Email,
		"role":           c.GetString(ctxRole),
		"email_verified": user.EmailVerifiedAt != nil,
		"profile":        profile,
	})
}
