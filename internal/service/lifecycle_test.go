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
	"github.com/stretchr/testify/suite"
)

type LifecycleServiceSuite struct {
	suite.Suite
	ctx             context.Context
	service         *lifecycleService
	responseService *responseService
	auditRepo       *testutil.InMemoryAuditStore
	sectionRepo     *testutil.InMemorySectionStore
	questionRepo    *testutil.InMemoryQuestionStore
	responseRepo    *testutil.InMemoryResponseStore
}

func TestLifecycleService(t *testing.T) {
	suite.Run(t, new(LifecycleServiceSuite))
}

func (s *LifecycleServiceSuite) SetupTest() {
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
	client := testutil.NewMockPostgresClient(logger.L)
	s.responseService = &responseService{
		client:         client,
		auditRepo:      s.auditRepo,
		questionRepo:   s.questionRepo,
		responseRepo:   s.responseRepo,
		scoringService: scoring,
		logger:         logger.L,
	}
	s.service = &lifecycleService{
		client:          client,
		auditRepo:       s.auditRepo,
		responseService: s.responseService,
		scoringService:  scoring,
		logger:          logger.L,
	}
}

// seedAudit creates an audit with one section holding a required yes_no
// question and an optional text question
func (s *LifecycleServiceSuite) seedAudit(status types.AuditStatus) (*audit.Audit, *question.Question) {
	a := &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Quarterly compliance review",
		Status:        status,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, a))

	sec := &section.Section{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
		AuditID:   a.ID,
		Title:     "Policies",
		Weight:    1,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.sectionRepo.Create(s.ctx, sec))

	required := &question.Question{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
		SectionID: sec.ID,
		Text:      "Policy signed off?",
		Type:      types.QuestionTypeYesNo,
		Required:  true,
		Weight:    1,
		Position:  1,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.questionRepo.Create(s.ctx, required))

	optional := &question.Question{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
		SectionID: sec.ID,
		Text:      "Notes",
		Type:      types.QuestionTypeText,
		Required:  false,
		Weight:    1,
		Position:  2,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.questionRepo.Create(s.ctx, optional))

	return a, required
}

func (s *LifecycleServiceSuite) answerRequired(a *audit.Audit, q *question.Question) {
	_, err := s.responseService.SaveResponse(s.ctx, dto.SaveResponseRequest{
		AuditID:    a.ID,
		QuestionID: q.ID,
		Value:      types.AnswerYes,
	})
	s.NoError(err)
}

func (s *LifecycleServiceSuite) TestStartAudit() {
	a, _ := s.seedAudit(types.AuditStatusDraft)

	started, err := s.service.StartAudit(s.ctx, a.ID)
	s.NoError(err)
	s.Equal(types.AuditStatusInProgress, started.Status)
}

func (s *LifecycleServiceSuite) TestStartAuditIdempotentWhenInProgress() {
	a, _ := s.seedAudit(types.AuditStatusInProgress)

	started, err := s.service.StartAudit(s.ctx, a.ID)
	s.NoError(err)
	s.Equal(types.AuditStatusInProgress, started.Status)
}

func (s *LifecycleServiceSuite) TestStartAuditRejectedWhenCompleted() {
	a, _ := s.seedAudit(types.AuditStatusCompleted)

	_, err := s.service.StartAudit(s.ctx, a.ID)
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *LifecycleServiceSuite) TestCompleteAuditGateBlocksUnanswered() {
	a, _ := s.seedAudit(types.AuditStatusInProgress)

	_, err := s.service.CompleteAudit(s.ctx, a.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	// a failed gate leaves the audit untouched
	stored, err := s.auditRepo.Get(s.ctx, a.ID)
	s.NoError(err)
	s.Equal(types.AuditStatusInProgress, stored.Status)
	s.Nil(stored.CompletionDate)
}

func (s *LifecycleServiceSuite) TestCompleteAudit() {
	a, q := s.seedAudit(types.AuditStatusInProgress)
	s.answerRequired(a, q)

	result, err := s.service.CompleteAudit(s.ctx, a.ID)
	s.NoError(err)
	s.Equal(types.AuditStatusCompleted, result.Audit.Status)
	s.NotNil(result.Audit.CompletionDate)
	s.NotNil(result.Stats)
	s.NotNil(result.Stats.ScorePercentage)
	s.Equal("100", result.Stats.ScorePercentage.String())
}

func (s *LifecycleServiceSuite) TestCompleteAuditOnlyFromInProgress() {
	a, _ := s.seedAudit(types.AuditStatusDraft)

	_, err := s.service.CompleteAudit(s.ctx, a.ID)
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *LifecycleServiceSuite) TestArchiveFromAnyState() {
	for _, status := range []types.AuditStatus{
		types.AuditStatusDraft,
		types.AuditStatusInProgress,
		types.AuditStatusCompleted,
	} {
		a, _ := s.seedAudit(status)
		archived, err := s.service.ArchiveAudit(s.ctx, a.ID)
		s.NoError(err)
		s.Equal(types.AuditStatusArchived, archived.Status)
	}
}

func (s *LifecycleServiceSuite) TestArchiveIsTerminal() {
	a, _ := s.seedAudit(types.AuditStatusArchived)

	_, err := s.service.ArchiveAudit(s.ctx, a.ID)
	s.Error(err)
	s.True(ierr.IsStateConflict(err))

	_, err = s.service.StartAudit(s.ctx, a.ID)
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}

func (s *LifecycleServiceSuite) TestTemplatesHaveNoLifecycle() {
	tmpl := &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Template",
		Status:        types.AuditStatusDraft,
		IsTemplate:    true,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, tmpl))

	_, err := s.service.StartAudit(s.ctx, tmpl.ID)
	s.Error(err)
	s.True(ierr.IsStateConflict(err))
}
