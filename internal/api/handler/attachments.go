package handler

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"resolve/backend/internal/config"
	"resolve/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type failedUpload struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// UploadAttachments accepts up to MaxFilesPerComplaint files under the
// multipart field "files". Each file is validated and stored independently:
// one bad file does not roll back the others, the response lists which
// uploads failed and why.
func (h *Handler) UploadAttachments(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}
	role := models.Role(c.GetString(ctxRole))
	if role != models.RoleAdmin && complaint.StudentID != c.GetString(ctxUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload request."})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided."})
		return
	}
	if len(files) > config.MaxFilesPerComplaint {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("You can upload up to %d files per complaint.", config.MaxFilesPerComplaint),
		})
		return
	}

	uploaderID := c.GetString(ctxUserID)
	var saved []models.Attachment
	var failed []failedUpload

	for _, fh := range files {
		attachment, reason := h.saveUpload(complaint.ID, uploaderID, fh)
		if reason != "" {
			failed = append(failed, failedUpload{FileName: fh.Filename, Reason: reason})
			continue
		}
		saved = append(saved, *attachment)
	}

	status := http.StatusCreated
	if len(saved) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"attachments": saved, "failed": failed})
}

// saveUpload validates a single file, writes it to the attachment store and
// records the metadata row. Returns a non-empty reason on failure.
func (h *Handler) saveUpload(complaintID, uploaderID string, fh *multipart.FileHeader) (*models.Attachment, string) {
	if fh.Size > config.MaxFileSize {
		return nil, "File exceeds the 5MB size limit."
	}
	fileType := fh.Header.Get("Content-Type")
	if !config.AllowedFileTypes[fileType] {
		return nil, "File type not allowed. Use JPEG, PNG, WebP or PDF."
	}

	src, err := fh.Open()
	if err != nil {
		log.Printf("ERROR: Failed to open upload %q: %v", fh.Filename, err)
		return nil, "Failed to read file."
	}
	defer src.Close()

	path, err := h.Files.Save(config.AttachmentBucket, fh.Filename, src)
	if err != nil {
		log.Printf("ERROR: Failed to store upload %q: %v", fh.Filename, err)
		return nil, "Failed to store file."
	}

	attachment := &models.Attachment{
		ComplaintID: complaintID,
		FileName:    fh.Filename,
		FileType:    fileType,
		FileSize:    fh.Size,
		FilePath:    path,
		UploadedBy:  uploaderID,
	}
	if err := h.Storage.CreateAttachment(attachment); err != nil {
		log.Printf("ERROR: Failed to record attachment %q: %v", fh.Filename, err)
		return nil, "Failed to record attachment."
	}
	return attachment, ""
}

// ListAttachments returns the attachment metadata for a complaint.
func (h *Handler) ListAttachments(c *gin.Context) {
	complaint, ok := h.loadComplaint(c)
	if !ok {
		return
	}
	attachments, err := h.Storage.ListAttachments(complaint.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
		return
	}
	c.JSON(http.StatusOK, attachments)
}
