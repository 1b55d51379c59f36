package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Severity is the student-assigned urgency of a complaint.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	SeverityUrgent Severity = "urgent"
)

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityUrgent:
		return true
	}
	return false
}

// Status is the admin-controlled lifecycle stage of a complaint.
// The canonical set matches the schema enum: pending, in_progress, resolved.
// resolved is the only terminal state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s Status) Terminal() bool { return s == StatusResolved }

// Label returns the human-readable form used in notifications.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	}
	return string(s)
}

// Complaint is a student-submitted complaint. The AI* fields are filled once
// at creation time by the classification gateway and never mutated afterwards.
type Complaint struct {
	ID          string   `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   string   `gorm:"type:uuid;not null;index" json:"student_id"`
	Title       string   `gorm:"type:text;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Severity    Severity `gorm:"type:text;not null" json:"severity"`
	Status      Status   `gorm:"type:text;not null;default:pending" json:"status"`

	Category       string         `gorm:"type:text" json:"category,omitempty"`
	AICategory     string         `gorm:"type:text" json:"ai_category,omitempty"`
	AIConfidence   float64        `json:"ai_confidence,omitempty"`
	AITags         pq.StringArray `gorm:"type:text[]" json:"ai_tags,omitempty"`
	PriorityScore  float64        `gorm:"index" json:"priority_score"`
	PredictedHours float64        `json:"predicted_hours"`

	AssignedTo *string `gorm:"type:uuid" json:"assigned_to,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// BeforeCreate generates the complaint ID if it is not set yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return
}

// SetStatus applies a status change and maintains the resolved_at invariant:
// the timestamp is set if and only if the new status is terminal.
func (c *Complaint) SetStatus(next Status, now time.Time) {
	c.Status = next
	if next.Terminal() {
		t := now
		c.ResolvedAt = &t
	} else {
		c.ResolvedAt = nil
	}
}
