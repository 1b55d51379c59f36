package config

import "time"

const (
	// Complaint input limits
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000

	// File uploads
	MaxFileSize          = 5 * 1024 * 1024
	MaxFilesPerComplaint = 3
	AttachmentBucket     = "complaint-attachments"

	// Login throttling
	MaxLoginAttempts = 5
	LockoutDuration  = 15 * time.Minute

	// Security monitor
	DetectionInterval = 30 * time.Minute

	// Listing
	DefaultPageSize  = 10
	MaxPageSize      = 100
	SecurityLogLimit = 100
	ActivityLimit    = 50

	// Sessions
	SessionTTL           = 72 * time.Hour
	VerificationTokenTTL = 24 * time.Hour

	// AI gateway
	AITimeout = 30 * time.Second
)

// AllowedFileTypes are the MIME types accepted for complaint attachments.
var AllowedFileTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}
