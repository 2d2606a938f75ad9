package service

import (
	"context"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/attachment"
	"github.com/auditflow/auditflow/internal/domain/audit"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/storage"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/samber/lo"
)

type AttachmentService interface {
	Upload(ctx context.Context, req dto.UploadAttachmentRequest) (*dto.AttachmentResponse, error)
	List(ctx context.Context, auditID string) (*dto.ListAttachmentsResponse, error)
	Download(ctx context.Context, id string) (*dto.DownloadAttachmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type attachmentService struct {
	auditRepo      audit.Repository
	attachmentRepo attachment.Repository
	fileStore      storage.FileStore
	logger         *logger.Logger
}

func NewAttachmentService(
	auditRepo audit.Repository,
	attachmentRepo attachment.Repository,
	fileStore storage.FileStore,
	logger *logger.Logger,
) AttachmentService {
	return &attachmentService{
		auditRepo:      auditRepo,
		attachmentRepo: attachmentRepo,
		fileStore:      fileStore,
		logger:         logger,
	}
}

// Upload validates the file before anything touches the filesystem, then
// writes the file and the metadata row. If the row write fails the stored
// file is removed so no orphan file survives.
func (s *attachmentService) Upload(ctx context.Context, req dto.UploadAttachmentRequest) (*dto.AttachmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, ierr.NewError("user is required").
			WithHint("Uploads must be made by an authenticated user").
			Mark(ierr.ErrValidation)
	}

	a, err := s.auditRepo.Get(ctx, req.AuditID)
	if err != nil {
		return nil, err
	}
	if err := requireRespondable(a); err != nil {
		return nil, err
	}

	mimeType, err := s.fileStore.Validate(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}

	path, err := s.fileStore.Save(ctx, a.ID, req.FileName, req.Data)
	if err != nil {
		return nil, err
	}

	att := &attachment.Attachment{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ATTACHMENT),
		AuditID:   a.ID,
		UserID:    userID,
		FileName:  req.FileName,
		FilePath:  path,
		FileType:  mimeType,
		FileSize:  int64(len(req.Data)),
		Comments:  req.Comments,
		CreatedAt: nowUTC(),
	}

	if err := s.attachmentRepo.Create(ctx, att); err != nil {
		if rmErr := s.fileStore.Delete(ctx, path); rmErr != nil {
			s.logger.Errorw("failed to clean up file after metadata write failure",
				"path", path,
				"error", rmErr,
			)
		}
		return nil, err
	}

	s.logger.Infow("uploaded attachment",
		"attachment_id", att.ID,
		"audit_id", a.ID,
		"file_type", mimeType,
		"file_size", att.FileSize,
	)
	return &dto.AttachmentResponse{Attachment: att}, nil
}

func (s *attachmentService) List(ctx context.Context, auditID string) (*dto.ListAttachmentsResponse, error) {
	if _, err := s.auditRepo.Get(ctx, auditID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	return &dto.ListAttachmentsResponse{
		AuditID: auditID,
		Items: lo.Map(attachments, func(att *attachment.Attachment, _ int) *dto.AttachmentResponse {
			return &dto.AttachmentResponse{Attachment: att}
		}),
	}, nil
}

func (s *attachmentService) Download(ctx context.Context, id string) (*dto.DownloadAttachmentResponse, error) {
	att, err := s.attachmentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.fileStore.Read(ctx, att.FilePath)
	if err != nil {
		return nil, err
	}

	return &dto.DownloadAttachmentResponse{
		FileName: att.FileName,
		FileType: att.FileType,
		Data:     data,
	}, nil
}

// Delete removes the metadata row first, then the file. A file that cannot
// be removed once the row is gone is logged as an accepted inconsistency.
func (s *attachmentService) Delete(ctx context.Context, id string) error {
	att, err := s.attachmentRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.fileStore.Delete(ctx, att.FilePath); err != nil {
		s.logger.Warnw("attachment file left behind after delete",
			"attachment_id", att.ID,
			"path", att.FilePath,
			"error", err,
		)
	}

	return nil
}
