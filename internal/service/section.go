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
	"github.com/samber/lo"
)

// SectionTreeService maintains the ordered section/question hierarchy and
// produces the nested read model.
type SectionTreeService interface {
	CreateSection(ctx context.Context, auditID string, req dto.CreateSectionRequest) (*dto.SectionResponse, error)
	UpdateSection(ctx context.Context, id string, req dto.UpdateSectionRequest) (*dto.SectionResponse, error)
	DeleteSection(ctx context.Context, id string) error
	ReorderSections(ctx context.Context, auditID string, req dto.ReorderSectionsRequest) error
	GetStructure(ctx context.Context, auditID string) (*dto.StructureResponse, error)
	GetStructureWithResponses(ctx context.Context, auditID, userID string) (*dto.StructureResponse, error)
}

type sectionTreeService struct {
	client       postgres.IClient
	auditRepo    audit.Repository
	sectionRepo  section.Repository
	questionRepo question.Repository
	responseRepo response.Repository
	logger       *logger.Logger
}

func NewSectionTreeService(
	client postgres.IClient,
	auditRepo audit.Repository,
	sectionRepo section.Repository,
	questionRepo question.Repository,
	responseRepo response.Repository,
	logger *logger.Logger,
) SectionTreeService {
	return &sectionTreeService{
		client:       client,
		auditRepo:    auditRepo,
		sectionRepo:  sectionRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		logger:       logger,
	}
}

func (s *sectionTreeService) CreateSection(ctx context.Context, auditID string, req dto.CreateSectionRequest) (*dto.SectionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.auditRepo.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(a); err != nil {
		return nil, err
	}

	sec := req.ToSection(ctx, auditID)

	maxPos, err := s.sectionRepo.MaxPosition(ctx, auditID)
	if err != nil {
		return nil, err
	}
	sec.Position = maxPos + 1

	if err := s.sectionRepo.Create(ctx, sec); err != nil {
		return nil, err
	}

	return &dto.SectionResponse{Section: sec}, nil
}

func (s *sectionTreeService) UpdateSection(ctx context.Context, id string, req dto.UpdateSectionRequest) (*dto.SectionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sec, err := s.sectionRepo.Get(ctx, id)
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

	if req.Title != nil {
		sec.Title = *req.Title
	}
	if req.Description != nil {
		sec.Description = *req.Description
	}
	if req.Weight != nil {
		sec.Weight = *req.Weight
	}
	sec.UpdatedAt = nowUTC()
	sec.UpdatedBy = types.GetUserID(ctx)

	if err := s.sectionRepo.Update(ctx, sec); err != nil {
		return nil, err
	}

	return &dto.SectionResponse{Section: sec}, nil
}

// DeleteSection removes the section, its questions and their responses in
// one transaction; no orphan rows survive a partial failure.
func (s *sectionTreeService) DeleteSection(ctx context.Context, id string) error {
	sec, err := s.sectionRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	a, err := s.auditRepo.Get(ctx, sec.AuditID)
	if err != nil {
		return err
	}
	if err := requireEditable(a); err != nil {
		return err
	}

	return s.client.WithTx(ctx, func(ctx context.Context) error {
		questions, err := s.questionRepo.ListBySection(ctx, id)
		if err != nil {
			return err
		}

		questionIDs := lo.Map(questions, func(q *question.Question, _ int) string {
			return q.ID
		})
		if err := s.responseRepo.DeleteByQuestionIDs(ctx, questionIDs); err != nil {
			return err
		}

		if err := s.questionRepo.DeleteBySection(ctx, id); err != nil {
			return err
		}

		if err := s.sectionRepo.Delete(ctx, id); err != nil {
			return err
		}

		s.logger.Infow("deleted section cascade",
			"section_id", id,
			"audit_id", sec.AuditID,
			"questions", len(questionIDs),
		)
		return nil
	})
}

// ReorderSections rewrites positions for exactly the given id set. The id
// set must be a permutation of the audit's sections; otherwise nothing is
// written.
func (s *sectionTreeService) ReorderSections(ctx context.Context, auditID string, req dto.ReorderSectionsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	a, err := s.auditRepo.Get(ctx, auditID)
	if err != nil {
		return err
	}
	if err := requireEditable(a); err != nil {
		return err
	}

	existing, err := s.sectionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return err
	}
	existingIDs := lo.Map(existing, func(sec *section.Section, _ int) string {
		return sec.ID
	})

	left, right := lo.Difference(existingIDs, req.SectionIDs)
	if len(left) > 0 || len(right) > 0 || len(existingIDs) != len(req.SectionIDs) {
		return ierr.NewError("section id set does not match audit").
			WithHint("Reorder must list every section of the audit exactly once").
			WithReportableDetails(map[string]any{
				"missing":    left,
				"unexpected": right,
			}).
			Mark(ierr.ErrValidation)
	}

	return s.client.WithTx(ctx, func(ctx context.Context) error {
		return s.sectionRepo.UpdatePositions(ctx, auditID, req.SectionIDs)
	})
}

func (s *sectionTreeService) GetStructure(ctx context.Context, auditID string) (*dto.StructureResponse, error) {
	return s.buildStructure(ctx, auditID, "")
}

func (s *sectionTreeService) GetStructureWithResponses(ctx context.Context, auditID, userID string) (*dto.StructureResponse, error) {
	a, err := s.auditRepo.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = a.RespondentID()
	}
	return s.buildStructure(ctx, auditID, userID)
}

// buildStructure assembles the nested read model; when userID is non-empty
// each question is annotated with that user's current response.
func (s *sectionTreeService) buildStructure(ctx context.Context, auditID, userID string) (*dto.StructureResponse, error) {
	if _, err := s.auditRepo.Get(ctx, auditID); err != nil {
		return nil, err
	}

	sections, err := s.sectionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	questionsBySection := lo.GroupBy(questions, func(q *question.Question) string {
		return q.SectionID
	})

	var answers map[string]*response.Response
	if userID != "" {
		responses, err := s.responseRepo.ListByAudit(ctx, auditID, userID)
		if err != nil {
			return nil, err
		}
		answers = make(map[string]*response.Response, len(responses))
		for _, r := range responses {
			answers[r.QuestionID] = r
		}
	}

	out := &dto.StructureResponse{
		AuditID:  auditID,
		Sections: make([]*dto.SectionResponse, 0, len(sections)),
	}
	for _, sec := range sections {
		secResp := &dto.SectionResponse{
			Section:   sec,
			Questions: make([]*dto.QuestionResponse, 0, len(questionsBySection[sec.ID])),
		}
		for _, q := range questionsBySection[sec.ID] {
			qResp := &dto.QuestionResponse{Question: q}
			if r, ok := answers[q.ID]; ok {
				qResp.Response = &dto.AnswerResponse{Response: r}
			}
			secResp.Questions = append(secResp.Questions, qResp)
		}
		out.Sections = append(out.Sections, secResp)
	}

	return out, nil
}
