package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is a write-once star rating a student leaves after their complaint
// is resolved. One rating per (complaint, student), enforced by the unique
// index and the storage layer.
type Rating struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID string    `gorm:"type:uuid;not null;uniqueIndex:idx_rating_once" json:"complaint_id"`
	StudentID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_rating_once" json:"student_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Feedback    string    `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
