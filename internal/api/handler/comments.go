package handler

import (
	"net/http"
	"strings"

	"resolve/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment appends a reply to a complaint thread. IsAdminReply is
// derived from the caller's role, never from the request body.
func (h *Handler) CreateComment(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty."})
		return
	}

	comment := &models.Comment{
		ComplaintID:  complaint.ID,
		UserID:       c.GetString(ctxUserID),
		Content:      strings.TrimSpace(req.Content),
		IsAdminReply: models.Role(c.GetString(ctxRole)) == models.RoleAdmin,
	}
	if err := h.Storage.CreateComment(comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send comment"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments returns the thread in display order, oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}

	comments, err := h.Storage.ListComments(complaint.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
