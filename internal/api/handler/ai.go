package handler

import (
	"context"
	"errors"
	"net/http"

	"resolve/backend/internal/ai"
	"resolve/backend/internal/config"

	"github.com/gin-gonic/gin"
)

type assistRequest struct {
	Action      string `json:"action" binding:"required"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

// Assist exposes the writing-assistant actions: improve, suggest_title,
// suggest_category and chat.
func (h *Handler) Assist(c *gin.Context) {
	var req assistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action is required."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.AITimeout)
	defer cancel()

	result, err := h.AI.Assist(ctx, req.Action, req.Text, req.Description)
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GenerateReplies drafts three admin reply suggestions for a complaint, one
// per tone. Admin only, wired at the router.
func (h *Handler) GenerateReplies(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.AITimeout)
	defer cancel()

	drafts, err := h.AI.GenerateReplies(ctx, complaint)
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, drafts)
}

// aiError maps gateway failures onto stable client-facing responses. Upstream
// detail is never forwarded verbatim.
func (h *Handler) aiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ai.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
	case errors.Is(err, ai.ErrNoCredits):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "AI credits exhausted. Please contact support."})
	case errors.Is(err, ai.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assistant action."})
	default:
		if userID := c.GetString(ctxUserID); userID != "" {
			h.Monitor.LogEvent("ai_gateway_error", "medium", &userID, c.ClientIP(), c.Request.UserAgent(), c.FullPath())
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI service is temporarily unavailable."})
	}
}
