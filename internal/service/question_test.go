package service

import (
	"context"
	"testing"
	"time"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/audit"
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

type QuestionServiceSuite struct {
	suite.Suite
	ctx          context.Context
	service      *questionService
	auditRepo    *testutil.InMemoryAuditStore
	sectionRepo  *testutil.InMemorySectionStore
	questionRepo *testutil.InMemoryQuestionStore
	responseRepo *testutil.InMemoryResponseStore
	audit        *audit.Audit
	section      *section.Section
}

func TestQuestionService(t *testing.T) {
	suite.Run(t, new(QuestionServiceSuite))
}

func (s *QuestionServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContext()
	s.auditRepo = testutil.NewInMemoryAuditStore()
	s.sectionRepo = testutil.NewInMemorySectionStore()
	s.questionRepo = testutil.NewInMemoryQuestionStore(s.sectionRepo)
	s.responseRepo = testutil.NewInMemoryResponseStore()

	s.service = &questionService{
		client:       testutil.NewMockPostgresClient(logger.L),
		auditRepo:    s.auditRepo,
		sectionRepo:  s.sectionRepo,
		questionRepo: s.questionRepo,
		responseRepo: s.responseRepo,
		logger:       logger.L,
	}

	s.audit = &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Fire safety inspection",
		Status:        types.AuditStatusDraft,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, s.audit))

	s.section = &section.Section{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
		AuditID:   s.audit.ID,
		Title:     "Extinguishers",
		Weight:    1,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.sectionRepo.Create(s.ctx, s.section))
}

func (s *QuestionServiceSuite) TestCreateQuestionAppendsPosition() {
	first, err := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "Are extinguishers accessible?",
		Type: types.QuestionTypeYesNo,
	})
	s.NoError(err)
	s.Equal(1, first.Position)
	s.Equal(1.0, first.Weight)

	second, err := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text:   "Rate signage visibility",
		Type:   types.QuestionTypeLikert,
		Weight: lo.ToPtr(2.0),
	})
	s.NoError(err)
	s.Equal(2, second.Position)
	s.Equal(2.0, second.Weight)
}

func (s *QuestionServiceSuite) TestCreateQuestionRejectsInvalidType() {
	_, err := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "What flavor?",
		Type: types.QuestionType("multiple_choice"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *QuestionServiceSuite) TestUpdateQuestionKeepsType() {
	created, err := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "Are exits marked?",
		Type: types.QuestionTypeYesNo,
	})
	s.NoError(err)

	updated, err := s.service.UpdateQuestion(s.ctx, created.ID, dto.UpdateQuestionRequest{
		Text:     lo.ToPtr("Are all exits clearly marked?"),
		Required: lo.ToPtr(true),
	})
	s.NoError(err)
	s.Equal("Are all exits clearly marked?", updated.Text)
	s.True(updated.Required)
	s.Equal(types.QuestionTypeYesNo, updated.Type)
}

func (s *QuestionServiceSuite) TestDeleteQuestionRemovesResponses() {
	created, err := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "Checked this month?",
		Type: types.QuestionTypeYesNo,
	})
	s.NoError(err)

	now := time.Now().UTC()
	s.NoError(s.responseRepo.Upsert(s.ctx, &response.Response{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RESPONSE),
		AuditID:    s.audit.ID,
		QuestionID: created.ID,
		UserID:     types.DefaultUserID,
		Value:      types.AnswerYes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	s.NoError(s.service.DeleteQuestion(s.ctx, created.ID))

	_, err = s.questionRepo.Get(s.ctx, created.ID)
	s.True(ierr.IsNotFound(err))

	responses, err := s.responseRepo.ListByAudit(s.ctx, s.audit.ID, types.DefaultUserID)
	s.NoError(err)
	s.Empty(responses)
}

func (s *QuestionServiceSuite) TestStructuralEditsRejectedOnceCompleted() {
	s.audit.Status = types.AuditStatusCompleted
	s.NoError(s.auditRepo.Update(s.ctx, s.audit))

	_, err := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "Too late?",
		Type: types.QuestionTypeYesNo,
	})
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *QuestionServiceSuite) TestReorderQuestions() {
	first, _ := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "First", Type: types.QuestionTypeYesNo,
	})
	second, _ := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "Second", Type: types.QuestionTypeYesNo,
	})

	err := s.service.ReorderQuestions(s.ctx, s.section.ID, dto.ReorderQuestionsRequest{
		QuestionIDs: []string{second.ID, first.ID},
	})
	s.NoError(err)

	questions, err := s.questionRepo.ListBySection(s.ctx, s.section.ID)
	s.NoError(err)
	s.Equal([]string{second.ID, first.ID}, lo.Map(questions, func(q *question.Question, _ int) string {
		return q.ID
	}))
}

func (s *QuestionServiceSuite) TestReorderRejectsMismatchedSet() {
	first, _ := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "First", Type: types.QuestionTypeYesNo,
	})
	_, err := s.service.CreateQuestion(s.ctx, s.section.ID, dto.CreateQuestionRequest{
		Text: "Second", Type: types.QuestionTypeYesNo,
	})
	s.NoError(err)

	err = s.service.ReorderQuestions(s.ctx, s.section.ID, dto.ReorderQuestionsRequest{
		QuestionIDs: []string{first.ID},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
