package handler

import (
	"errors"
	"net/http"

	"resolve/backend/internal/models"
	"resolve/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createRatingRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// CreateRating records the student's one-time rating for a resolved
// complaint. There is no update path: ratings are write-once.
func (h *Handler) CreateRating(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}
	if complaint.StudentID != c.GetString(ctxUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
		return
	}
	if complaint.Status != models.StatusResolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only resolved complaints can be rated."})
		return
	}

	var req createRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5 stars."})
		return
	}

	rating := &models.Rating{
		ComplaintID: complaint.ID,
		StudentID:   c.GetString(ctxUserID),
		Rating:      req.Rating,
		Feedback:    req.Feedback,
	}
	if err := h.Storage.CreateRating(rating); err != nil {
		if errors.Is(err, storage.ErrAlreadyRated) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already rated this complaint."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit rating. Please try again."})
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// GetRating returns the caller's rating for a complaint, if any.
func (h *Handler) GetRating(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}

	rating, err := h.Storage.GetRating(complaint.ID, c.GetString(ctxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return
	}
	if rating == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No rating yet."})
		return
	}
	c.JSON(http.StatusOK, rating)
}
