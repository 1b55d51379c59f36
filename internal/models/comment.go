package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is an append-only reply on a complaint thread. IsAdminReply marks
// replies written from the admin dashboard; it drives notification routing.
type Comment struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID  string    `gorm:"type:uuid;not null;index" json:"complaint_id"`
	UserID       string    `gorm:"type:uuid;not null" json:"user_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	IsAdminReply bool      `gorm:"not null;default:false" json:"is_admin_reply"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
