package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
)

// AttachmentHandler handles job attachment HTTP requests
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload handles a multipart file upload bound to a job
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	jobID, err := uuid.Parse(c.PostForm("job_id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(c.Request.Context(), &service.UploadInput{
		JobID:        jobID,
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      file,
		UploadedByID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Attachment uploaded successfully", attachment)
}

// List handles listing a job's attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	jobID := queryUUID(c, "job_id")
	if jobID == nil {
		response.BadRequest(c, "Valid job_id is required")
		return
	}

	attachments, err := h.attachmentService.ListByJob(c.Request.Context(), *jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Attachments retrieved successfully", attachments)
}

// GetSignedURL handles minting a short-lived download token for an attachment
func (h *AttachmentHandler) GetSignedURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid attachment ID")
		return
	}

	signed, err := h.attachmentService.GetSignedURL(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Signed URL generated successfully", signed)
}

// Download streams a file for a valid signed token. The route is public:
// the token itself carries the authorization.
func (h *AttachmentHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Token is required")
		return
	}

	attachment, reader, err := h.attachmentService.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", attachment.FileName),
	}
	c.DataFromReader(200, attachment.SizeBytes, attachment.ContentType, reader, extraHeaders)
}

// Delete handles removing an attachment and its stored file
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid attachment ID")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Attachment deleted successfully", nil)
}
