package service

import (
	"context"
	"testing"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/section"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/testutil"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ResponseServiceSuite struct {
	suite.Suite
	ctx          context.Context
	service      *responseService
	auditRepo    *testutil.InMemoryAuditStore
	sectionRepo  *testutil.InMemorySectionStore
	questionRepo *testutil.InMemoryQuestionStore
	responseRepo *testutil.InMemoryResponseStore
	audit        *audit.Audit
	section      *section.Section
	yesNo        *question.Question
	likert       *question.Question
	freeText     *question.Question
}

func TestResponseService(t *testing.T) {
	suite.Run(t, new(ResponseServiceSuite))
}

func (s *ResponseServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContext()
	s.auditRepo = testutil.NewInMemoryAuditStore()
	s.sectionRepo = testutil.NewInMemorySectionStore()
	s.questionRepo = testutil.NewInMemoryQuestionStore(s.sectionRepo)
	s.responseRepo = testutil.NewInMemoryResponseStore()

	scoring := &scoringService{
		sectionRepo:  s.sectionRepo,
		questionRepo: s.questionRepo,
		responseRepo: s.responseRepo,
		logger:       logger.L,
	}
	s.service = &responseService{
		client:         testutil.NewMockPostgresClient(logger.L),
		auditRepo:      s.auditRepo,
		questionRepo:   s.questionRepo,
		responseRepo:   s.responseRepo,
		scoringService: scoring,
		logger:         logger.L,
	}

	s.audit = &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Data center walkthrough",
		Status:        types.AuditStatusDraft,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, s.audit))

	s.section = &section.Section{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
		AuditID:   s.audit.ID,
		Title:     "Physical access",
		Weight:    1,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.sectionRepo.Create(s.ctx, s.section))

	s.yesNo = s.seedQuestion(types.QuestionTypeYesNo, true, 1)
	s.likert = s.seedQuestion(types.QuestionTypeLikert, true, 2)
	s.freeText = s.seedQuestion(types.QuestionTypeText, false, 3)
}

func (s *ResponseServiceSuite) seedQuestion(qType types.QuestionType, required bool, position int) *question.Question {
	q := &question.Question{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
		SectionID: s.section.ID,
		Text:      "Question",
		Type:      qType,
		Required:  required,
		Weight:    1,
		Position:  position,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.questionRepo.Create(s.ctx, q))
	return q
}

func (s *ResponseServiceSuite) TestSaveResponseMovesDraftToInProgress() {
	resp, err := s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerYes,
	})
	s.NoError(err)
	s.Equal(types.AnswerYes, resp.Value)
	s.Equal(types.DefaultUserID, resp.UserID)

	stored, err := s.auditRepo.Get(s.ctx, s.audit.ID)
	s.NoError(err)
	s.Equal(types.AuditStatusInProgress, stored.Status)
}

func (s *ResponseServiceSuite) TestSaveResponseOverwritesPrevious() {
	_, err := s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerYes,
	})
	s.NoError(err)

	_, err = s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerNo,
		Comments:   lo.ToPtr("rechecked the badge reader"),
	})
	s.NoError(err)

	responses, err := s.responseRepo.ListByAudit(s.ctx, s.audit.ID, types.DefaultUserID)
	s.NoError(err)
	s.Len(responses, 1)
	s.Equal(types.AnswerNo, responses[0].Value)
}

func (s *ResponseServiceSuite) TestSaveResponseRejectsOutOfDomainValues() {
	_, err := s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.yesNo.ID,
		Value:      "maybe",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.likert.ID,
		Value:      "6",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ResponseServiceSuite) TestSaveResponseRejectsTemplates() {
	tmpl := &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Template",
		Status:        types.AuditStatusDraft,
		IsTemplate:    true,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, tmpl))

	_, err := s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    tmpl.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerYes,
	})
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *ResponseServiceSuite) TestSaveResponseRejectsClosedAudit() {
	s.audit.Status = types.AuditStatusCompleted
	s.NoError(s.auditRepo.Update(s.ctx, s.audit))

	_, err := s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerYes,
	})
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *ResponseServiceSuite) TestSaveResponseRejectsForeignQuestion() {
	other := &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Other audit",
		Status:        types.AuditStatusDraft,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, other))

	_, err := s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    other.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerYes,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ResponseServiceSuite) TestMissingRequired() {
	missing, err := s.service.MissingRequired(s.ctx, s.audit.ID, types.DefaultUserID)
	s.NoError(err)
	s.ElementsMatch([]string{s.yesNo.ID, s.likert.ID}, missing)

	_, err = s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerYes,
	})
	s.NoError(err)

	missing, err = s.service.MissingRequired(s.ctx, s.audit.ID, types.DefaultUserID)
	s.NoError(err)
	s.Equal([]string{s.likert.ID}, missing)
}

func (s *ResponseServiceSuite) TestGetCompletionStats() {
	_, err := s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.yesNo.ID,
		Value:      types.AnswerYes,
	})
	s.NoError(err)
	_, err = s.service.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    s.audit.ID,
		QuestionID: s.likert.ID,
		Value:      "3",
	})
	s.NoError(err)

	stats, err := s.service.GetCompletionStats(s.ctx, s.audit.ID, types.DefaultUserID)
	s.NoError(err)
	s.Equal(3, stats.TotalQuestions)
	s.Equal(2, stats.AnsweredCount)
	s.Equal(2, stats.RequiredTotal)
	s.Equal(2, stats.RequiredAnswered)

	// yes contributes 1/1, likert 3 contributes 0.6/1: 100 * 1.6 / 2 = 80
	s.NotNil(stats.ScorePercentage)
	s.Equal("80", stats.ScorePercentage.String())
	s.NotNil(stats.ScoreBand)
	s.Equal(types.ScoreBandHigh, *stats.ScoreBand)
}

func (s *ResponseServiceSuite) TestGetRequiredQuestions() {
	required, err := s.service.GetRequiredQuestions(s.ctx, s.audit.ID)
	s.NoError(err)
	s.Len(required, 2)
}
