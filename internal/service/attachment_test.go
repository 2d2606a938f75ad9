package service

import (
	"context"
	"testing"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/config"
	"github.com/auditflow/auditflow/internal/domain/audit"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/testutil"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/stretchr/testify/suite"
)

// pngBytes carries a real PNG signature so MIME sniffing recognizes it
var pngBytes = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, []byte("fake image payload")...)

type AttachmentServiceSuite struct {
	suite.Suite
	ctx            context.Context
	service        *attachmentService
	auditRepo      *testutil.InMemoryAuditStore
	attachmentRepo *testutil.InMemoryAttachmentStore
	fileStore      *testutil.InMemoryFileStore
	audit          *audit.Audit
}

func TestAttachmentService(t *testing.T) {
	suite.Run(t, new(AttachmentServiceSuite))
}

func (s *AttachmentServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContext()
	s.auditRepo = testutil.NewInMemoryAuditStore()
	s.attachmentRepo = testutil.NewInMemoryAttachmentStore()
	s.fileStore = testutil.NewInMemoryFileStore()

	s.service = &attachmentService{
		auditRepo:      s.auditRepo,
		attachmentRepo: s.attachmentRepo,
		fileStore:      s.fileStore,
		logger:         logger.L,
	}

	s.audit = &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Vehicle inspection",
		Status:        types.AuditStatusInProgress,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, s.audit))
}

func (s *AttachmentServiceSuite) TestUpload() {
	resp, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
		AuditID:  s.audit.ID,
		FileName: "odometer.png",
		Data:     pngBytes,
	})
	s.NoError(err)
	s.Equal("image/png", resp.FileType)
	s.Equal(int64(len(pngBytes)), resp.FileSize)
	s.Equal(types.DefaultUserID, resp.UserID)
	s.True(s.fileStore.Exists(resp.FilePath))
}

func (s *AttachmentServiceSuite) TestUploadRejectsUnknownType() {
	_, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
		AuditID:  s.audit.ID,
		FileName: "notes.txt",
		Data:     []byte("plain text is not sniffable"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AttachmentServiceSuite) TestUploadRejectsOversizedFile() {
	big := make([]byte, config.DefaultMaxFileSize+1)
	copy(big, pngBytes)

	_, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
		AuditID:  s.audit.ID,
		FileName: "huge.png",
		Data:     big,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AttachmentServiceSuite) TestUploadRejectedOnCompletedAudit() {
	s.audit.Status = types.AuditStatusCompleted
	s.NoError(s.auditRepo.Update(s.ctx, s.audit))

	_, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
		AuditID:  s.audit.ID,
		FileName: "late.png",
		Data:     pngBytes,
	})
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *AttachmentServiceSuite) TestUploadSaveFailureLeavesNothing() {
	s.fileStore.FailSave = true

	_, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
		AuditID:  s.audit.ID,
		FileName: "lost.png",
		Data:     pngBytes,
	})
	s.Error(err)

	attachments, err := s.attachmentRepo.ListByAudit(s.ctx, s.audit.ID)
	s.NoError(err)
	s.Empty(attachments)
}

func (s *AttachmentServiceSuite) TestListByAudit() {
	for _, name := range []string{"front.png", "rear.png"} {
		_, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
			AuditID:  s.audit.ID,
			FileName: name,
			Data:     pngBytes,
		})
		s.NoError(err)
	}

	list, err := s.service.List(s.ctx, s.audit.ID)
	s.NoError(err)
	s.Equal(s.audit.ID, list.AuditID)
	s.Len(list.Items, 2)
}

func (s *AttachmentServiceSuite) TestDownload() {
	uploaded, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
		AuditID:  s.audit.ID,
		FileName: "odometer.png",
		Data:     pngBytes,
	})
	s.NoError(err)

	download, err := s.service.Download(s.ctx, uploaded.ID)
	s.NoError(err)
	s.Equal("odometer.png", download.FileName)
	s.Equal("image/png", download.FileType)
	s.Equal(pngBytes, download.Data)
}

func (s *AttachmentServiceSuite) TestDeleteRemovesRowAndFile() {
	uploaded, err := s.service.Upload(s.ctx, dto.UploadAttachmentRequest{
		AuditID:  s.audit.ID,
		FileName: "odometer.png",
		Data:     pngBytes,
	})
	s.NoError(err)

	s.NoError(s.service.Delete(s.ctx, uploaded.ID))

	_, err = s.attachmentRepo.Get(s.ctx, uploaded.ID)
	s.True(ierr.IsNotFound(err))
	s.False(s.fileStore.Exists(uploaded.FilePath))
}

func (s *AttachmentServiceSuite) TestDeleteNotFound() {
	err := s.service.Delete(s.ctx, "att_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
