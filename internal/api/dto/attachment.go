package dto

import (
	"github.com/auditflow/auditflow/internal/domain/attachment"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/validator"
)

type UploadAttachmentRequest struct {
	AuditID  string  `validate:"required"`
	FileName string  `validate:"required"`
	Data     []byte  `validate:"required"`
	Comments *string `validate:"omitempty,max=1000"`
}

func (r *UploadAttachmentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if len(r.Data) == 0 {
		return ierr.NewError("file is empty").
			WithHint("Please provide a non-empty file").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type AttachmentResponse struct {
	*attachment.Attachment
}

// ListAttachmentsResponse lists an audit's attachments; the set is small
// enough that it is never paginated
type ListAttachmentsResponse struct {
	AuditID string                `json:"audit_id"`
	Items   []*AttachmentResponse `json:"items"`
}

// DownloadAttachmentResponse carries the file bytes and metadata for the
// HTTP layer to stream back
type DownloadAttachmentResponse struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Data     []byte `json:"-"`
}
