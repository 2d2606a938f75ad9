package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/attachment"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/domain/section"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/testutil"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type AuditServiceSuite struct {
	suite.Suite
	ctx            context.Context
	service        *auditService
	auditRepo      *testutil.InMemoryAuditStore
	sectionRepo    *testutil.InMemorySectionStore
	questionRepo   *testutil.InMemoryQuestionStore
	responseRepo   *testutil.InMemoryResponseStore
	attachmentRepo *testutil.InMemoryAttachmentStore
	fileStore      *testutil.InMemoryFileStore
}

func TestAuditService(t *testing.T) {
	suite.Run(t, new(AuditServiceSuite))
}

func (s *AuditServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContext()
	s.auditRepo = testutil.NewInMemoryAuditStore()
	s.sectionRepo = testutil.NewInMemorySectionStore()
	s.questionRepo = testutil.NewInMemoryQuestionStore(s.sectionRepo)
	s.responseRepo = testutil.NewInMemoryResponseStore()
	s.attachmentRepo = testutil.NewInMemoryAttachmentStore()
	s.fileStore = testutil.NewInMemoryFileStore()

	s.service = &auditService{
		client:         testutil.NewMockPostgresClient(logger.L),
		auditRepo:      s.auditRepo,
		sectionRepo:    s.sectionRepo,
		questionRepo:   s.questionRepo,
		responseRepo:   s.responseRepo,
		attachmentRepo: s.attachmentRepo,
		fileStore:      s.fileStore,
		logger:         logger.L,
	}
}

func (s *AuditServiceSuite) TestCreateAudit() {
	resp, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{
		Title:       "Annual ISO surveillance",
		Description: "Stage 1 readiness check",
	})
	s.NoError(err)
	s.Equal(types.AuditStatusDraft, resp.Status)
	s.False(resp.IsTemplate)
	s.True(strings.HasPrefix(resp.ID, "audit_"))
	s.True(strings.HasPrefix(resp.ReferenceCode, "AUD-"))
	s.Equal(types.DefaultUserID, resp.CreatedBy)
}

func (s *AuditServiceSuite) TestCreateAuditRequiresTitle() {
	_, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AuditServiceSuite) TestGetAuditNotFound() {
	_, err := s.service.GetAudit(s.ctx, "audit_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *AuditServiceSuite) TestListAuditsFilters() {
	_, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{Title: "Plain audit"})
	s.NoError(err)
	_, err = s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{Title: "Template", IsTemplate: true})
	s.NoError(err)

	all, err := s.service.ListAudits(s.ctx, nil)
	s.NoError(err)
	s.Len(all.Items, 2)
	s.Equal(2, all.Pagination.Total)

	filter := types.NewAuditFilter()
	filter.IsTemplate = lo.ToPtr(true)
	templates, err := s.service.ListAudits(s.ctx, filter)
	s.NoError(err)
	s.Len(templates.Items, 1)
	s.Equal("Template", templates.Items[0].Title)
}

func (s *AuditServiceSuite) TestUpdateAudit() {
	created, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{Title: "Before"})
	s.NoError(err)

	due := time.Now().UTC().Add(72 * time.Hour)
	updated, err := s.service.UpdateAudit(s.ctx, created.ID, dto.UpdateAuditRequest{
		Title:      lo.ToPtr("After"),
		AssignedTo: lo.ToPtr("user_7"),
		DueDate:    &due,
	})
	s.NoError(err)
	s.Equal("After", updated.Title)
	s.Equal("user_7", *updated.AssignedTo)
}

func (s *AuditServiceSuite) TestUpdateRejectedOnceCompleted() {
	created, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{Title: "Locked"})
	s.NoError(err)

	a, err := s.auditRepo.Get(s.ctx, created.ID)
	s.NoError(err)
	a.Status = types.AuditStatusCompleted
	s.NoError(s.auditRepo.Update(s.ctx, a))

	_, err = s.service.UpdateAudit(s.ctx, created.ID, dto.UpdateAuditRequest{
		Title: lo.ToPtr("Too late"),
	})
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *AuditServiceSuite) TestDeleteAuditCascades() {
	created, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{Title: "Doomed"})
	s.NoError(err)

	sec := &section.Section{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
		AuditID:   created.ID,
		Title:     "Section",
		Weight:    1,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.sectionRepo.Create(s.ctx, sec))

	q := &question.Question{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
		SectionID: sec.ID,
		Text:      "Question",
		Type:      types.QuestionTypeYesNo,
		Weight:    1,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.questionRepo.Create(s.ctx, q))

	now := time.Now().UTC()
	s.NoError(s.responseRepo.Upsert(s.ctx, &response.Response{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RESPONSE),
		AuditID:    created.ID,
		QuestionID: q.ID,
		UserID:     types.DefaultUserID,
		Value:      types.AnswerYes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	path, err := s.fileStore.Save(s.ctx, created.ID, "evidence.png", []byte("png-bytes"))
	s.NoError(err)
	s.NoError(s.attachmentRepo.Create(s.ctx, &attachment.Attachment{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ATTACHMENT),
		AuditID:   created.ID,
		UserID:    types.DefaultUserID,
		FileName:  "evidence.png",
		FilePath:  path,
		FileType:  "image/png",
		FileSize:  9,
		CreatedAt: now,
	}))

	s.NoError(s.service.DeleteAudit(s.ctx, created.ID))

	_, err = s.auditRepo.Get(s.ctx, created.ID)
	s.True(ierr.IsNotFound(err))
	_, err = s.sectionRepo.Get(s.ctx, sec.ID)
	s.True(ierr.IsNotFound(err))
	_, err = s.questionRepo.Get(s.ctx, q.ID)
	s.True(ierr.IsNotFound(err))

	responses, err := s.responseRepo.ListByAudit(s.ctx, created.ID, types.DefaultUserID)
	s.NoError(err)
	s.Empty(responses)

	attachments, err := s.attachmentRepo.ListByAudit(s.ctx, created.ID)
	s.NoError(err)
	s.Empty(attachments)
	s.False(s.fileStore.Exists(path))
}

func (s *AuditServiceSuite) TestInstantiateFromTemplate() {
	tmpl, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{
		Title:      "Cold chain template",
		IsTemplate: true,
	})
	s.NoError(err)

	sec := &section.Section{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
		AuditID:   tmpl.ID,
		Title:     "Refrigeration",
		Weight:    2,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.sectionRepo.Create(s.ctx, sec))

	q := &question.Question{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
		SectionID: sec.ID,
		Text:      "Temperature logs current?",
		Type:      types.QuestionTypeYesNo,
		Required:  true,
		Weight:    1,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.questionRepo.Create(s.ctx, q))

	instance, err := s.service.InstantiateFromTemplate(s.ctx, tmpl.ID, dto.InstantiateTemplateRequest{
		Title:      "March cold chain audit",
		AssignedTo: lo.ToPtr("user_12"),
	})
	s.NoError(err)
	s.False(instance.IsTemplate)
	s.Equal(types.AuditStatusDraft, instance.Status)
	s.Equal("March cold chain audit", instance.Title)
	s.NotEqual(tmpl.ID, instance.ID)

	sections, err := s.sectionRepo.ListByAudit(s.ctx, instance.ID)
	s.NoError(err)
	s.Len(sections, 1)
	s.Equal("Refrigeration", sections[0].Title)
	s.Equal(2.0, sections[0].Weight)
	s.NotEqual(sec.ID, sections[0].ID)

	questions, err := s.questionRepo.ListBySection(s.ctx, sections[0].ID)
	s.NoError(err)
	s.Len(questions, 1)
	s.Equal("Temperature logs current?", questions[0].Text)
	s.True(questions[0].Required)
}

func (s *AuditServiceSuite) TestInstantiateRejectsNonTemplate() {
	created, err := s.service.CreateAudit(s.ctx, dto.CreateAuditRequest{Title: "Not a template"})
	s.NoError(err)

	_, err = s.service.InstantiateFromTemplate(s.ctx, created.ID, dto.InstantiateTemplateRequest{})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
