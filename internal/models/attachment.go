package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment records a file stored alongside a complaint. FilePath is the
// storage-relative path returned by the blob store, not a public URL.
// Attachments are immutable after creation.
type Attachment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID string    `gorm:"type:uuid;not null;index" json:"complaint_id"`
	FileName    string    `gorm:"type:text;not null" json:"file_name"`
	FileType    string    `gorm:"type:text;not null" json:"file_type"`
	FileSize    int64     `gorm:"not null" json:"file_size"`
	FilePath    string    `gorm:"type:text;not null" json:"file_path"`
	UploadedBy  string    `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
