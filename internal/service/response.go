package service

import (
	"context"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/auditflow/auditflow/internal/types"
)

// ResponseService upserts respondent answers and computes completion counts.
// It is also where the completion gate lives: the set of required question
// ids must be a subset of the answered set before an audit may complete.
type ResponseService interface {
	SaveResponse(ctx context.Context, req dto.SaveResponseRequest) (*dto.AnswerResponse, error)
	GetResponse(ctx context.Context, questionID, userID string) (*dto.AnswerResponse, error)
	GetRequiredQuestions(ctx context.Context, auditID string) ([]*dto.QuestionResponse, error)
	GetCompletionStats(ctx context.Context, auditID, userID string) (*dto.CompletionStatsResponse, error)
	// MissingRequired returns the ids of required questions the user has not
	// answered; empty means the completion gate passes.
	MissingRequired(ctx context.Context, auditID, userID string) ([]string, error)
}

type responseService struct {
	client         postgres.IClient
	auditRepo      audit.Repository
	questionRepo   question.Repository
	responseRepo   response.Repository
	scoringService ScoringService
	logger         *logger.Logger
}

func NewResponseService(
	client postgres.IClient,
	auditRepo audit.Repository,
	questionRepo question.Repository,
	responseRepo response.Repository,
	scoringService ScoringService,
	logger *logger.Logger,
) ResponseService {
	return &responseService{
		client:         client,
		auditRepo:      auditRepo,
		questionRepo:   questionRepo,
		responseRepo:   responseRepo,
		scoringService: scoringService,
		logger:         logger,
	}
}

func (s *responseService) SaveResponse(ctx context.Context, req dto.SaveResponseRequest) (*dto.AnswerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, ierr.NewError("no user in caller context").
			WithHint("A respondent user is required to save a response").
			Mark(ierr.ErrValidation)
	}

	a, err := s.auditRepo.Get(ctx, req.AuditID)
	if err != nil {
		return nil, err
	}
	if err := requireRespondable(a); err != nil {
		return nil, err
	}

	q, err := s.questionRepo.Get(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	// The question must belong to the audit being answered
	auditQuestions, err := s.questionRepo.ListByAudit(ctx, req.AuditID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, aq := range auditQuestions {
		if aq.ID == q.ID {
			found = true
			break
		}
	}
	if !found {
		return nil, ierr.NewError("question does not belong to audit").
			WithHint("The question is not part of this audit").
			WithReportableDetails(map[string]any{
				"audit_id":    req.AuditID,
				"question_id": req.QuestionID,
			}).
			Mark(ierr.ErrValidation)
	}

	if err := q.Type.ValidateAnswer(req.Value); err != nil {
		return nil, err
	}

	now := nowUTC()
	resp := &response.Response{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RESPONSE),
		AuditID:    req.AuditID,
		QuestionID: req.QuestionID,
		UserID:     userID,
		Value:      req.Value,
		Comments:   req.Comments,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// The first answer moves a draft audit into in_progress; the upsert and
	// the status flip commit together.
	err = s.client.WithTx(ctx, func(ctx context.Context) error {
		if err := s.responseRepo.Upsert(ctx, resp); err != nil {
			return err
		}

		if a.Status == types.AuditStatusDraft {
			a.Status = types.AuditStatusInProgress
			a.UpdatedAt = now
			a.UpdatedBy = userID
			if err := s.auditRepo.Update(ctx, a); err != nil {
				return err
			}
			s.logger.Infow("audit moved to in_progress on first response",
				"audit_id", a.ID,
				"user_id", userID,
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.AnswerResponse{Response: resp}, nil
}

func (s *responseService) GetResponse(ctx context.Context, questionID, userID string) (*dto.AnswerResponse, error) {
	resp, err := s.responseRepo.Get(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.AnswerResponse{Response: resp}, nil
}

func (s *responseService) GetRequiredQuestions(ctx context.Context, auditID string) ([]*dto.QuestionResponse, error) {
	if _, err := s.auditRepo.Get(ctx, auditID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	required := make([]*dto.QuestionResponse, 0)
	for _, q := range questions {
		if q.Required {
			required = append(required, &dto.QuestionResponse{Question: q})
		}
	}
	return required, nil
}

func (s *responseService) MissingRequired(ctx context.Context, auditID, userID string) ([]string, error) {
	questions, err := s.questionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responseRepo.ListByAudit(ctx, auditID, userID)
	if err != nil {
		return nil, err
	}
	answered := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		if r.Value != "" {
			answered[r.QuestionID] = struct{}{}
		}
	}

	missing := make([]string, 0)
	for _, q := range questions {
		if !q.Required {
			continue
		}
		if _, ok := answered[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing, nil
}

// GetCompletionStats recomputes counts and the weighted score on every call;
// callers always see a fresh value. An empty userID resolves to the audit's
// canonical respondent.
func (s *responseService) GetCompletionStats(ctx context.Context, auditID, userID string) (*dto.CompletionStatsResponse, error) {
	a, err := s.auditRepo.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = a.RespondentID()
	}

	questions, err := s.questionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responseRepo.ListByAudit(ctx, auditID, userID)
	if err != nil {
		return nil, err
	}
	answered := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		if r.Value != "" {
			answered[r.QuestionID] = struct{}{}
		}
	}

	stats := &dto.CompletionStatsResponse{
		AuditID:        auditID,
		TotalQuestions: len(questions),
	}
	for _, q := range questions {
		_, isAnswered := answered[q.ID]
		if isAnswered {
			stats.AnsweredCount++
		}
		if q.Required {
			stats.RequiredTotal++
			if isAnswered {
				stats.RequiredAnswered++
			}
		}
	}

	score, err := s.scoringService.ComputeScore(ctx, auditID, userID)
	if err != nil {
		return nil, err
	}
	stats.ScorePercentage = score
	if score != nil {
		band := types.ScoreBandFor(*score)
		stats.ScoreBand = &band
	}

	return stats, nil
}
