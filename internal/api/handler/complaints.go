package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"resolve/backend/internal/config"
	"resolve/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createComplaintRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Severity    models.Severity `json:"severity" binding:"required"`
	Category    string          `json:"category"`
}

// CreateComplaint validates the submission, enriches it through the AI
// classifier, and persists it. Classification failures never block creation;
// the neutral fallback is stored instead.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please check your input and try again."})
		return
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	switch {
	case title == "" || description == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description cannot be empty."})
		return
	case len(title) > config.MaxTitleLength:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not exceed 200 characters."})
		return
	case len(description) > config.MaxDescriptionLength:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description must not exceed 5000 characters."})
		return
	case !req.Severity.Valid():
		c.JSON(http.StatusBadRequest, gin.H{"error": "Severity must be one of: low, medium, high, urgent."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.AITimeout)
	defer cancel()
	classification := h.AI.Classify(ctx, title, description, req.Severity)

	complaint := &models.Complaint{
		StudentID:      c.GetString(ctxUserID),
		Title:          title,
		Description:    description,
		Severity:       req.Severity,
		Category:       req.Category,
		AICategory:     classification.Category,
		AIConfidence:   classification.Confidence,
		AITags:         classification.Tags,
		PriorityScore:  classification.PriorityScore,
		PredictedHours: classification.PredictedHours,
	}
	if err := h.Storage.CreateComplaint(complaint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit complaint. Please try again."})
		return
	}

	if complaint.Severity == models.SeverityUrgent && h.Alerter != nil {
		name := "Student"
		if profile, err := h.Storage.GetProfile(complaint.StudentID); err == nil && profile != nil {
			name = profile.FullName
		}
		select {
		case h.Alerter.Send <- models.Notification{
			Message:     "New urgent complaint from " + name + ": " + complaint.Title,
			Sound:       models.SoundUrgent,
			ComplaintID: complaint.ID,
		}:
		default:
			log.Printf("Alert channel full, dropping urgent alert for %s", complaint.ID)
		}
	}

	c.JSON(http.StatusCreated, complaint)
}

// ListComplaints is role-scoped: admins see everything ordered by priority,
// students see only their own.
func (h *Handler) ListComplaints(c *gin.Context) {
	var (
		complaints []models.Complaint
		err        error
	)
	if models.Role(c.GetString(ctxRole)) == models.RoleAdmin {
		complaints, err = h.Storage.ListComplaints()
	} else {
		complaints, err = h.Storage.ListComplaintsForStudent(c.GetString(ctxUserID))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// GetComplaint returns one complaint, visible to its owner and to admins.
func (h *Handler) GetComplaint(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type updateStatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// UpdateComplaintStatus applies an admin status change. The store maintains
// the resolved_at invariant and publishes the change event; no transition
// graph is validated here beyond enum membership.
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of: pending, in_progress, resolved."})
		return
	}

	complaint, err := h.Storage.UpdateComplaintStatus(c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint. Please try again."})
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// loadComplaint fetches the :id complaint and enforces owner-or-admin
// visibility. On failure it writes the response and returns ok=false.
func (h *Handler) loadComplaint(c *gin.Context) (*models.Complaint, bool) {
	complaint, err := h.Storage.GetComplaintByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return nil, false
	}
	if complaint == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found."})
		return nil, false
	}
	if models.Role(c.GetString(ctxRole)) != models.RoleAdmin && complaint.StudentID != c.GetString(ctxUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
		return nil, false
	}
	return complaint, true
}
