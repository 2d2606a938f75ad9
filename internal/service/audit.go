package service

import (
	"context"

	"github.com/auditflow/auditflow/internal/api/dto"
	"github.com/auditflow/auditflow/internal/domain/attachment"
	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/domain/section"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/auditflow/auditflow/internal/storage"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/samber/lo"
)

type AuditService interface {
	CreateAudit(ctx context.Context, req dto.CreateAuditRequest) (*dto.AuditResponse, error)
	GetAudit(ctx context.Context, id string) (*dto.AuditResponse, error)
	ListAudits(ctx context.Context, filter *types.AuditFilter) (*dto.ListAuditsResponse, error)
	UpdateAudit(ctx context.Context, id string, req dto.UpdateAuditRequest) (*dto.AuditResponse, error)
	DeleteAudit(ctx context.Context, id string) error
	// InstantiateFromTemplate clones a template's sections and questions
	// into a fresh draft audit
	InstantiateFromTemplate(ctx context.Context, templateID string, req dto.InstantiateTemplateRequest) (*dto.AuditResponse, error)
}

type auditService struct {
	client         postgres.IClient
	auditRepo      audit.Repository
	sectionRepo    section.Repository
	questionRepo   question.Repository
	responseRepo   response.Repository
	attachmentRepo attachment.Repository
	fileStore      storage.FileStore
	logger         *logger.Logger
}

func NewAuditService(
	client postgres.IClient,
	auditRepo audit.Repository,
	sectionRepo section.Repository,
	questionRepo question.Repository,
	responseRepo response.Repository,
	attachmentRepo attachment.Repository,
	fileStore storage.FileStore,
	logger *logger.Logger,
) AuditService {
	return &auditService{
		client:         client,
		auditRepo:      auditRepo,
		sectionRepo:    sectionRepo,
		questionRepo:   questionRepo,
		responseRepo:   responseRepo,
		attachmentRepo: attachmentRepo,
		fileStore:      fileStore,
		logger:         logger,
	}
}

func (s *auditService) CreateAudit(ctx context.Context, req dto.CreateAuditRequest) (*dto.AuditResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := req.ToAudit(ctx)
	if err := s.auditRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Infow("created audit",
		"audit_id", a.ID,
		"is_template", a.IsTemplate,
	)
	return &dto.AuditResponse{Audit: a}, nil
}

func (s *auditService) GetAudit(ctx context.Context, id string) (*dto.AuditResponse, error) {
	if id == "" {
		return nil, ierr.NewError("audit ID is required").
			WithHint("Please provide a valid audit ID").
			Mark(ierr.ErrValidation)
	}

	a, err := s.auditRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.AuditResponse{Audit: a}, nil
}

func (s *auditService) ListAudits(ctx context.Context, filter *types.AuditFilter) (*dto.ListAuditsResponse, error) {
	if filter == nil {
		filter = types.NewAuditFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	audits, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(audits, func(a *audit.Audit, _ int) *dto.AuditResponse {
		return &dto.AuditResponse{Audit: a}
	})

	return &dto.ListAuditsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *auditService) UpdateAudit(ctx context.Context, id string, req dto.UpdateAuditRequest) (*dto.AuditResponse, error) {
	a, err := s.auditRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(a); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, ierr.NewError("title must not be empty").
				WithHint("Please provide a non-empty title").
				Mark(ierr.ErrValidation)
		}
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.AssignedTo != nil {
		a.AssignedTo = req.AssignedTo
	}
	if req.DueDate != nil {
		a.DueDate = req.DueDate
	}
	if req.Comments != nil {
		a.Comments = req.Comments
	}
	a.UpdatedAt = nowUTC()
	a.UpdatedBy = types.GetUserID(ctx)

	if err := s.auditRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return &dto.AuditResponse{Audit: a}, nil
}

// DeleteAudit removes the audit and everything it owns in one transaction.
// Attachment files are removed after the commit; a failed file removal is
// logged as an accepted inconsistency, never rolled back.
func (s *auditService) DeleteAudit(ctx context.Context, id string) error {
	a, err := s.auditRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	attachments, err := s.attachmentRepo.ListByAudit(ctx, id)
	if err != nil {
		return err
	}

	err = s.client.WithTx(ctx, func(ctx context.Context) error {
		if err := s.responseRepo.DeleteByAudit(ctx, id); err != nil {
			return err
		}

		sections, err := s.sectionRepo.ListByAudit(ctx, id)
		if err != nil {
			return err
		}
		for _, sec := range sections {
			if err := s.questionRepo.DeleteBySection(ctx, sec.ID); err != nil {
				return err
			}
			if err := s.sectionRepo.Delete(ctx, sec.ID); err != nil {
				return err
			}
		}

		for _, att := range attachments {
			if err := s.attachmentRepo.Delete(ctx, att.ID); err != nil {
				return err
			}
		}

		return s.auditRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, att := range attachments {
		if err := s.fileStore.Delete(ctx, att.FilePath); err != nil {
			s.logger.Warnw("attachment file left behind after audit delete",
				"attachment_id", att.ID,
				"path", att.FilePath,
				"error", err,
			)
		}
	}

	s.logger.Infow("deleted audit", "audit_id", a.ID)
	return nil
}

func (s *auditService) InstantiateFromTemplate(ctx context.Context, templateID string, req dto.InstantiateTemplateRequest) (*dto.AuditResponse, error) {
	tmpl, err := s.auditRepo.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsTemplate {
		return nil, ierr.NewError("audit is not a template").
			WithHint("Only templates can be instantiated").
			WithReportableDetails(map[string]any{
				"audit_id": templateID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	title := req.Title
	if title == "" {
		title = tmpl.Title
	}

	a := &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         title,
		Description:   tmpl.Description,
		Status:        types.AuditStatusDraft,
		IsTemplate:    false,
		AssignedTo:    req.AssignedTo,
		DueDate:       req.DueDate,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}

	sections, err := s.sectionRepo.ListByAudit(ctx, templateID)
	if err != nil {
		return nil, err
	}

	err = s.client.WithTx(ctx, func(ctx context.Context) error {
		if err := s.auditRepo.Create(ctx, a); err != nil {
			return err
		}

		for _, tmplSec := range sections {
			sec := &section.Section{
				ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
				AuditID:     a.ID,
				Title:       tmplSec.Title,
				Description: tmplSec.Description,
				Weight:      tmplSec.Weight,
				Position:    tmplSec.Position,
				BaseModel:   types.GetDefaultBaseModel(ctx),
			}
			if err := s.sectionRepo.Create(ctx, sec); err != nil {
				return err
			}

			questions, err := s.questionRepo.ListBySection(ctx, tmplSec.ID)
			if err != nil {
				return err
			}
			for _, tmplQ := range questions {
				q := &question.Question{
					ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
					SectionID: sec.ID,
					Text:      tmplQ.Text,
					HelpText:  tmplQ.HelpText,
					Type:      tmplQ.Type,
					Required:  tmplQ.Required,
					Options:   tmplQ.Options,
					Weight:    tmplQ.Weight,
					Position:  tmplQ.Position,
					BaseModel: types.GetDefaultBaseModel(ctx),
				}
				if err := s.questionRepo.Create(ctx, q); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("instantiated audit from template",
		"template_id", templateID,
		"audit_id", a.ID,
	)
	return &dto.AuditResponse{Audit: a}, nil
}
