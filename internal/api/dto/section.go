package dto

import (
	"context"

	"github.com/auditflow/auditflow/internal/domain/section"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/auditflow/auditflow/internal/validator"
)

type CreateSectionRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Weight      *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

func (r *CreateSectionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Weight != nil && *r.Weight < 0 {
		return ierr.NewError("weight must not be negative").
			WithHint("Section weight must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToSection builds the domain section; position is assigned by the service.
// A missing weight defaults to 1 so a plain section contributes normally.
func (r *CreateSectionRequest) ToSection(ctx context.Context, auditID string) *section.Section {
	weight := 1.0
	if r.Weight != nil {
		weight = *r.Weight
	}
	return &section.Section{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SECTION),
		AuditID:     auditID,
		Title:       r.Title,
		Description: r.Description,
		Weight:      weight,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

type UpdateSectionRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Weight      *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateSectionRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return ierr.NewError("title must not be empty").
			WithHint("Please provide a non-empty title").
			Mark(ierr.ErrValidation)
	}
	if r.Weight != nil && *r.Weight < 0 {
		return ierr.NewError("weight must not be negative").
			WithHint("Section weight must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids" validate:"required,min=1"`
}

func (r *ReorderSectionsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SectionResponse struct {
	*section.Section
	Questions []*QuestionResponse `json:"questions,omitempty"`
}

// StructureResponse is the nested read model: sections ordered by position,
// each carrying its questions ordered by position.
type StructureResponse struct {
	AuditID  string             `json:"audit_id"`
	Sections []*SectionResponse `json:"sections"`
}
