package models_test

import (
	"reflect"
	"testing"
	"time"

	"resolve/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestComplaintBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestComplaintBeforeCreate_GeneratesUUID(t *testing.T) {
	complaint := &models.Complaint{
		StudentID:   uuid.New().String(),
		Title:       "Projector not working",
		Description: "The projector in room 204 has been broken for a week.",
		Severity:    models.SeverityMedium,
	}

	assert.Empty(t, complaint.ID, "Complaint ID should be empty before BeforeCreate")

	err := complaint.BeforeCreate(nil)

	assert.NoError(t, err, "BeforeCreate should not return an error")
	assert.NotEmpty(t, complaint.ID, "Complaint ID must be populated after BeforeCreate")

	parsedUUID, parseErr := uuid.Parse(complaint.ID)
	assert.NoError(t, parseErr, "Complaint ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// TestComplaintBeforeCreate_Defaults verifies the hook preserves an existing ID
// and defaults the status to pending.
func TestComplaintBeforeCreate_Defaults(t *testing.T) {
	existingID := uuid.New().String()
	complaint := &models.Complaint{
		ID:          existingID,
		StudentID:   uuid.New().String(),
		Title:       "Wifi down",
		Description: "No connectivity on the third floor.",
		Severity:    models.SeverityHigh,
	}

	err := complaint.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, complaint.ID, "BeforeCreate should preserve existing ID")
	assert.Equal(t, models.StatusPending, complaint.Status, "Status should default to pending")
}

// TestComplaintSetStatus verifies the resolved_at invariant: the timestamp is
// set if and only if the status is terminal.
func TestComplaintSetStatus(t *testing.T) {
	now := time.Now()
	complaint := &models.Complaint{Status: models.StatusPending}

	complaint.SetStatus(models.StatusInProgress, now)
	assert.Equal(t, models.StatusInProgress, complaint.Status)
	assert.Nil(t, complaint.ResolvedAt, "non-terminal status must not carry resolved_at")

	complaint.SetStatus(models.StatusResolved, now)
	assert.Equal(t, models.StatusResolved, complaint.Status)
	assert.NotNil(t, complaint.ResolvedAt)
	assert.Equal(t, now, *complaint.ResolvedAt)

	// Reopening clears the timestamp again.
	complaint.SetStatus(models.StatusInProgress, now.Add(time.Hour))
	assert.Nil(t, complaint.ResolvedAt, "reopening must clear resolved_at")
}

func TestStatusAndSeverityValidation(t *testing.T) {
	assert.True(t, models.StatusPending.Valid())
	assert.True(t, models.StatusInProgress.Valid())
	assert.True(t, models.StatusResolved.Valid())
	assert.False(t, models.Status("closed").Valid(), "closed is not part of the status set")
	assert.False(t, models.Status("").Valid())

	assert.True(t, models.SeverityUrgent.Valid())
	assert.False(t, models.Severity("critical").Valid())

	assert.True(t, models.StatusResolved.Terminal())
	assert.False(t, models.StatusInProgress.Terminal())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending", models.StatusPending.Label())
	assert.Equal(t, "In Progress", models.StatusInProgress.Label())
	assert.Equal(t, "Resolved", models.StatusResolved.Label())
}

// TestComplaintStructTags verifies that struct tags are correctly defined for GORM and JSON.
func TestComplaintStructTags(t *testing.T) {
	complaintType := reflect.TypeOf(models.Complaint{})

	idField, found := complaintType.FieldByName("ID")
	assert.True(t, found, "ID field should exist")
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey", "ID should be marked as primary key")

	studentField, found := complaintType.FieldByName("StudentID")
	assert.True(t, found, "StudentID field should exist")
	assert.Contains(t, studentField.Tag.Get("gorm"), "index", "StudentID should be indexed")

	tagsField, found := complaintType.FieldByName("AITags")
	assert.True(t, found, "AITags field should exist")
	assert.Contains(t, tagsField.Tag.Get("gorm"), "type:text[]", "AITags should use PostgreSQL array type")
}
