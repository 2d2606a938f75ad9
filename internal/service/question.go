package service

import (
	"context"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/domain/section"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

// QuestionService manages questions within a section; ordering and cascade
// rules mirror the section level.
type QuestionService interface {
	CreateQuestion(ctx context.Context, sectionID string, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id string, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id string) error
	ReorderQuestions(ctx context.Context, sectionID string, req dto.ReorderQuestionsRequest) error
}

type questionService struct {
	client       postgres.IClient
	auditRepo    audit.Repository
	sectionRepo  section.Repository
	questionRepo question.Repository
	responseRepo response.Repository
	logger       *logger.Logger
}

func NewQuestionService(
	client postgres.IClient,
	auditRepo audit.Repository,
	sectionRepo section.Repository,
	questionRepo question.Repository,
	responseRepo response.Repository,
	logger *logger.Logger,
) QuestionService {
	return &questionService{
		client:       client,
		auditRepo:    auditRepo,
		sectionRepo:  sectionRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		logger:       logger,
	}
}

// guardSection resolves the owning audit of a section and checks it still
// accepts structural edits
func (s *questionService) guardSection(ctx context.Context, sectionID string) (*section.Section, error) {
	sec, err := s.sectionRepo.Get(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	a, err := s.auditRepo.Get(ctx, sec.AuditID)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(a); err != nil {
		return nil, err
	}

	return sec, nil
}

func (s *questionService) CreateQuestion(ctx context.Context, sectionID string, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.guardSection(ctx, sectionID); err != nil {
		return nil, err
	}

	q := req.ToQuestion(ctx, sectionID)

	maxPos, err := s.questionRepo.MaxPosition(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	q.Position = maxPos + 1

	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, err
	}

	return &dto.QuestionResponse{Question: q}, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	q, err := s.questionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionResponse{Question: q}, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, id string, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	q, err := s.questionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.guardSection(ctx, q.SectionID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.HelpText != nil {
		q.HelpText = req.HelpText
	}
	if req.Required != nil {
		q.Required = *req.Required
	}
	if req.Options != nil {
		q.Options = pq.StringArray(req.Options)
	}
	if req.Weight != nil {
		q.Weight = *req.Weight
	}
	q.UpdatedAt = nowUTC()
	q.UpdatedBy = types.GetUserID(ctx)

	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, err
	}

	return &dto.QuestionResponse{Question: q}, nil
}

// DeleteQuestion removes the question and its responses in one transaction
func (s *questionService) DeleteQuestion(ctx context.Context, id string) error {
	q, err := s.questionRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.guardSection(ctx, q.SectionID); err != nil {
		return err
	}

	return s.client.WithTx(ctx, func(ctx context.Context) error {
		if err := s.responseRepo.DeleteByQuestionIDs(ctx, []string{id}); err != nil {
			return err
		}
		return s.questionRepo.Delete(ctx, id)
	})
}

func (s *questionService) ReorderQuestions(ctx context.Context, sectionID string, req dto.ReorderQuestionsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.guardSection(ctx, sectionID); err != nil {
		return err
	}

	existing, err := s.questionRepo.ListBySection(ctx, sectionID)
	if err != nil {
		return err
	}
	existingIDs := lo.Map(existing, func(q *question.Question, _ int) string {
		return q.ID
	})

	left, right := lo.Difference(existingIDs, req.QuestionIDs)
	if len(left) > 0 || len(right) > 0 || len(existingIDs) != len(req.QuestionIDs) {
		return ierr.NewError("question id set does not match section").
			WithHint("Reorder must list every question of the section exactly once").
			WithReportableDetails(map[string]any{
				"missing":    left,
				"unexpected": right,
			}).
			Mark(ierr.ErrValidation)
	}

	return s.client.WithTx(ctx, func(ctx context.Context) error {
		return s.questionRepo.UpdatePositions(ctx, sectionID, req.QuestionIDs)
	})
}
