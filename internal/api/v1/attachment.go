package v1

import (
	"io"
	"net/http"

	"github.com/auditflow/auditflow/internal/api/dto"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type AttachmentHandler struct {
	service service.AttachmentService
	log     *logger.Logger
}

func NewAttachmentHandler(service service.AttachmentService, log *logger.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		service: service,
		log:     log,
	}
}

// @Summary Upload an attachment
// @Description Upload a file against an audit; the type is sniffed from the content, never the extension
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Audit ID"
// @Param file formData file true "File to upload"
// @Param comments formData string false "Comments"
// @Success 201 {object} dto.AttachmentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/attachments [post]
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("A file form field is required").
			Mark(ierr.ErrValidation))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read uploaded file").
			Mark(ierr.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read uploaded file").
			Mark(ierr.ErrValidation))
		return
	}

	req := dto.UploadAttachmentRequest{
		AuditID:  c.Param("id"),
		FileName: fileHeader.Filename,
		Data:     data,
	}
	if comments := c.PostForm("comments"); comments != "" {
		req.Comments = lo.ToPtr(comments)
	}

	resp, err := h.service.Upload(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List attachments
// @Description List an audit's attachments
// @Tags Attachments
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} dto.ListAttachmentsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/attachments [get]
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Download an attachment
// @Description Stream the stored file back with its original name and type
// @Tags Attachments
// @Produce octet-stream
// @Param id path string true "Attachment ID"
// @Success 200 {file} binary
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /attachments/{id}/download [get]
func (h *AttachmentHandler) DownloadAttachment(c *gin.Context) {
	resp, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+resp.FileName+`"`)
	c.Data(http.StatusOK, resp.FileType, resp.Data)
}

// @Summary Delete an attachment
// @Description Delete an attachment row and its stored file
// @Tags Attachments
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 204 "No Content"
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /attachments/{id} [delete]
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
