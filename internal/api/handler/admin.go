package handler

import (
	"net/http"

	"resolve/backend/internal/config"

	"github.com/gin-gonic/gin"
)

// GetAnalytics returns the cached dashboard aggregates. The snapshot is kept
// fresh by the change feed; a cold start computes it on demand.
func (h *Handler) GetAnalytics(c *gin.Context) {
	snapshot, err := h.Analytics.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ListSecurityLogs returns the most recent audit events, newest first.
func (h *Handler) ListSecurityLogs(c *gin.Context) {
	logs, err := h.Storage.ListSecurityLogs(config.SecurityLogLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ListSuspiciousActivities returns detected anomalies, newest first.
func (h *Handler) ListSuspiciousActivities(c *gin.Context) {
	activities, err := h.Storage.ListSuspiciousActivities(config.ActivityLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return
	}
	c.JSON(http.StatusOK, activities)
}

// RunDetection triggers an on-demand anomaly detection pass outside the
// periodic schedule.
func (h *Handler) RunDetection(c *gin.Context) {
	if err := h.Storage.RunSuspiciousActivityDetection(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Detection run failed."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "detection completed"})
}

// ResolveSuspiciousActivity marks an anomaly as reviewed by the calling admin.
func (h *Handler) ResolveSuspiciousActivity(c *gin.Context) {
	id := c.Param("id")
	if err := h.Storage.ResolveSuspiciousActivity(id, c.GetString(ctxUserID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve activity."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}
