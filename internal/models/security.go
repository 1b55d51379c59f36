package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SecurityLog is an append-only audit record. Rows are written by the auth
// handlers and by the SQL-side detection machinery; the API only ever reads
// them back for the admin dashboard.
type SecurityLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	EventType string    `gorm:"type:text;not null;index" json:"event_type"`
	Severity  string    `gorm:"type:text;not null" json:"severity"`
	UserID    *string   `gorm:"type:uuid" json:"user_id,omitempty"`
	IPAddress string    `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"type:text" json:"user_agent,omitempty"`
	Endpoint  string    `gorm:"type:text" json:"endpoint,omitempty"`
	Details   string    `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *SecurityLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}

// SuspiciousActivity is produced by the detect_suspicious_activity() stored
// procedure. The API reads, and admins may mark rows resolved; everything
// else about these rows is owned by the SQL side.
type SuspiciousActivity struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	ActivityType    string     `gorm:"type:text;not null" json:"activity_type"`
	Severity        string     `gorm:"type:text;not null" json:"severity"`
	UserID          *string    `gorm:"type:uuid" json:"user_id,omitempty"`
	IPAddress       string     `gorm:"type:text" json:"ip_address,omitempty"`
	EventCount      int        `gorm:"not null" json:"event_count"`
	TimeWindowStart time.Time  `json:"time_window_start"`
	TimeWindowEnd   time.Time  `json:"time_window_end"`
	DetectionTime   time.Time  `json:"detection_time"`
	Details         string     `gorm:"type:jsonb" json:"details,omitempty"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`
	Resolved        bool       `gorm:"not null;default:false" json:"resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      *string    `gorm:"type:uuid" json:"resolved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
