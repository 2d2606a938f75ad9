package service

import (
	"context"
	"testing"
	"time"

	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/domain/section"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/testutil"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/stretchr/testify/suite"
)

type ScoringServiceSuite struct {
	suite.Suite
	ctx            context.Context
	scoringService *scoringService
	auditRepo      *testutil.InMemoryAuditStore
	sectionRepo    *testutil.InMemorySectionStore
	questionRepo   *testutil.InMemoryQuestionStore
	responseRepo   *testutil.InMemoryResponseStore
}

func TestScoringService(t *testing.T) {
	suite.Run(t, new(ScoringServiceSuite))
}

func (s *ScoringServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContext()
	s.auditRepo = testutil.NewInMemoryAuditStore()
	s.sectionRepo = testutil.NewInMemorySectionStore()
	s.questionRepo = testutil.NewInMemoryQuestionStore(s.sectionRepo)
	s.responseRepo = testutil.NewInMemoryResponseStore()

	s.scoringService = &scoringService{
		sectionRepo:  s.sectionRepo,
		questionRepo: s.questionRepo,
		responseRepo: s.responseRepo,
		logger:       logger.L,
	}
}

func (s *ScoringServiceSuite) seedAudit() *audit.Audit {
	a := &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         "Warehouse safety walkthrough",
		Status:        types.AuditStatusInProgress,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.auditRepo.Create(s.ctx, a))
	return a
}

func (s *ScoringServiceSuite) seedSection(auditID string, weight float64, position int) *section.Section {
	sec := &section.Section{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
		AuditID:   auditID,
		Title:     "Section",
		Weight:    weight,
		Position:  position,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.sectionRepo.Create(s.ctx, sec))
	return sec
}

func (s *ScoringServiceSuite) seedQuestion(sectionID string, qType types.QuestionType, weight float64, position int) *question.Question {
	q := &question.Question{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
		SectionID: sectionID,
		Text:      "Question",
		Type:      qType,
		Required:  true,
		Weight:    weight,
		Position:  position,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.questionRepo.Create(s.ctx, q))
	return q
}

func (s *ScoringServiceSuite) seedAnswer(auditID, questionID, value string) {
	now := time.Now().UTC()
	s.NoError(s.responseRepo.Upsert(s.ctx, &response.Response{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RESPONSE),
		AuditID:    auditID,
		QuestionID: questionID,
		UserID:     types.DefaultUserID,
		Value:      value,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
}

func (s *ScoringServiceSuite) TestSectionWeightsSkewTheScore() {
	// One full-credit answer in a weight-1 section against one zero-credit
	// answer in a weight-3 section: 100 * (1*1 + 0*3) / (1*1 + 1*3) = 25
	a := s.seedAudit()
	secA := s.seedSection(a.ID, 1, 1)
	secB := s.seedSection(a.ID, 3, 2)
	qA := s.seedQuestion(secA.ID, types.QuestionTypeYesNo, 1, 1)
	qB := s.seedQuestion(secB.ID, types.QuestionTypeYesNo, 1, 1)
	s.seedAnswer(a.ID, qA.ID, types.AnswerYes)
	s.seedAnswer(a.ID, qB.ID, types.AnswerNo)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.NotNil(score)
	s.Equal("25", score.String())
}

func (s *ScoringServiceSuite) TestNotApplicableExcludedFromDenominator() {
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 1, 1)
	q1 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 1)
	q2 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 2)
	s.seedAnswer(a.ID, q1.ID, types.AnswerYes)
	s.seedAnswer(a.ID, q2.ID, types.AnswerNotApplicable)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.NotNil(score)
	s.Equal("100", score.String())
}

func (s *ScoringServiceSuite) TestUnansweredQuestionsExcluded() {
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 1, 1)
	q1 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 1)
	s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 2)
	s.seedAnswer(a.ID, q1.ID, types.AnswerNo)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.NotNil(score)
	s.Equal("0", score.String())
}

func (s *ScoringServiceSuite) TestLikertProRatesAgainstScaleMax() {
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 1, 1)
	q := s.seedQuestion(sec.ID, types.QuestionTypeLikert, 2, 1)
	s.seedAnswer(a.ID, q.ID, "4")

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.NotNil(score)
	s.Equal("80", score.String())
}

func (s *ScoringServiceSuite) TestScoreRoundsToTwoDecimals() {
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 1, 1)
	q1 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 1)
	q2 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 2)
	q3 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 3)
	s.seedAnswer(a.ID, q1.ID, types.AnswerYes)
	s.seedAnswer(a.ID, q2.ID, types.AnswerNo)
	s.seedAnswer(a.ID, q3.ID, types.AnswerNo)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.NotNil(score)
	s.Equal("33.33", score.String())
}

func (s *ScoringServiceSuite) TestTextQuestionsNeverScore() {
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 1, 1)
	q := s.seedQuestion(sec.ID, types.QuestionTypeText, 1, 1)
	s.seedAnswer(a.ID, q.ID, "observations noted")

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.Nil(score)
}

func (s *ScoringServiceSuite) TestAllNotApplicableYieldsNilScore() {
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 1, 1)
	q := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 1)
	s.seedAnswer(a.ID, q.ID, types.AnswerNotApplicable)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.Nil(score)
}

func (s *ScoringServiceSuite) TestEmptyAuditYieldsNilScore() {
	a := s.seedAudit()

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.Nil(score)
}

func (s *ScoringServiceSuite) TestZeroWeightSectionContributesNothing() {
	a := s.seedAudit()
	secA := s.seedSection(a.ID, 1, 1)
	secB := s.seedSection(a.ID, 0, 2)
	qA := s.seedQuestion(secA.ID, types.QuestionTypeYesNo, 1, 1)
	qB := s.seedQuestion(secB.ID, types.QuestionTypeYesNo, 1, 1)
	s.seedAnswer(a.ID, qA.ID, types.AnswerYes)
	s.seedAnswer(a.ID, qB.ID, types.AnswerNo)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.NotNil(score)
	s.Equal("100", score.String())
}

func (s *ScoringServiceSuite) TestAllZeroWeightsYieldNilScore() {
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 0, 1)
	q := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 1)
	s.seedAnswer(a.ID, q.ID, types.AnswerYes)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.Nil(score)
}

func (s *ScoringServiceSuite) TestQuestionWeightsWithinSection() {
	// yes on weight 3, no on weight 1: 100 * 3 / 4 = 75
	a := s.seedAudit()
	sec := s.seedSection(a.ID, 1, 1)
	q1 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 3, 1)
	q2 := s.seedQuestion(sec.ID, types.QuestionTypeYesNo, 1, 2)
	s.seedAnswer(a.ID, q1.ID, types.AnswerYes)
	s.seedAnswer(a.ID, q2.ID, types.AnswerNo)

	score, err := s.scoringService.ComputeScore(s.ctx, a.ID, types.DefaultUserID)
	s.NoError(err)
	s.NotNil(score)
	s.Equal("75", score.String())
}
