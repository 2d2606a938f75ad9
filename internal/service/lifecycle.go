package service

import (
	"context"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/audit"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/auditflow/auditflow/internal/types"
)

// LifecycleService enforces the audit status state machine
// (draft → in_progress → completed → archived) and the completion gate.
type LifecycleService interface {
	// StartAudit moves a draft audit to in_progress. Called when a
	// respondent first opens the response form; idempotent when the audit
	// is already in progress.
	StartAudit(ctx context.Context, auditID string) (*dto.AuditResponse, error)
	// CompleteAudit closes an in_progress audit once every required
	// question is answered, stamping the completion date and the final score.
	CompleteAudit(ctx context.Context, auditID string) (*dto.CompleteAuditResponse, error)
	// ArchiveAudit force-closes an audit from any state; terminal.
	ArchiveAudit(ctx context.Context, auditID string) (*dto.AuditResponse, error)
}

type lifecycleService struct {
	client          postgres.IClient
	auditRepo       audit.Repository
	responseService ResponseService
	scoringService  ScoringService
	logger          *logger.Logger
}

func NewLifecycleService(
	client postgres.IClient,
	auditRepo audit.Repository,
	responseService ResponseService,
	scoringService ScoringService,
	logger *logger.Logger,
) LifecycleService {
	return &lifecycleService{
		client:          client,
		auditRepo:       auditRepo,
		responseService: responseService,
		scoringService:  scoringService,
		logger:          logger,
	}
}

func (s *lifecycleService) StartAudit(ctx context.Context, auditID string) (*dto.AuditResponse, error) {
	a, err := s.auditRepo.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := requireLifecycle(a); err != nil {
		return nil, err
	}

	if a.Status == types.AuditStatusInProgress {
		return &dto.AuditResponse{Audit: a}, nil
	}

	if !a.Status.CanTransitionTo(types.AuditStatusInProgress) {
		return nil, transitionError(a, types.AuditStatusInProgress)
	}

	a.Status = types.AuditStatusInProgress
	a.UpdatedAt = nowUTC()
	a.UpdatedBy = types.GetUserID(ctx)
	if err := s.auditRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Infow("audit started", "audit_id", a.ID)
	return &dto.AuditResponse{Audit: a}, nil
}

func (s *lifecycleService) CompleteAudit(ctx context.Context, auditID string) (*dto.CompleteAuditResponse, error) {
	a, err := s.auditRepo.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := requireLifecycle(a); err != nil {
		return nil, err
	}

	if !a.Status.CanTransitionTo(types.AuditStatusCompleted) {
		return nil, transitionError(a, types.AuditStatusCompleted)
	}

	respondent := a.RespondentID()
	missing, err := s.responseService.MissingRequired(ctx, auditID, respondent)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, ierr.NewError("required questions unanswered").
			WithHintf("%d required questions are still unanswered", len(missing)).
			WithReportableDetails(map[string]any{
				"missing_count":        len(missing),
				"missing_question_ids": missing,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	// The final score is computed once here and attached to the transition;
	// later reads recompute from the stored answers.
	stats, err := s.responseService.GetCompletionStats(ctx, auditID, respondent)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	a.Status = types.AuditStatusCompleted
	if a.CompletionDate == nil {
		a.CompletionDate = &now
	}
	a.UpdatedAt = now
	a.UpdatedBy = types.GetUserID(ctx)

	if err := s.auditRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Infow("audit completed",
		"audit_id", a.ID,
		"score", stats.ScorePercentage,
		"answered", stats.AnsweredCount,
		"total", stats.TotalQuestions,
	)

	return &dto.CompleteAuditResponse{
		Audit: a,
		Stats: stats,
	}, nil
}

func (s *lifecycleService) ArchiveAudit(ctx context.Context, auditID string) (*dto.AuditResponse, error) {
	a, err := s.auditRepo.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := requireLifecycle(a); err != nil {
		return nil, err
	}

	if !a.Status.CanTransitionTo(types.AuditStatusArchived) {
		return nil, transitionError(a, types.AuditStatusArchived)
	}

	a.Status = types.AuditStatusArchived
	a.UpdatedAt = nowUTC()
	a.UpdatedBy = types.GetUserID(ctx)
	if err := s.auditRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Infow("audit archived", "audit_id", a.ID)
	return &dto.AuditResponse{Audit: a}, nil
}

func transitionError(a *audit.Audit, target types.AuditStatus) error {
	return ierr.NewError("invalid status transition").
		WithHintf("Audit cannot move from %s to %s", a.Status, target).
		WithReportableDetails(map[string]any{
			"audit_id": a.ID,
			"from":     a.Status,
			"to":       target,
		}).
		Mark(ierr.ErrStateConflict)
}
