package dto

import (
	"context"
	"time"

	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/auditflow/auditflow/internal/validator"
)

type CreateAuditRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	IsTemplate  bool       `json:"is_template"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Comments    *string    `json:"comments,omitempty"`
}

func (r *CreateAuditRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateAuditRequest) ToAudit(ctx context.Context) *audit.Audit {
	return &audit.Audit{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT),
		ReferenceCode: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_AUDIT),
		Title:         r.Title,
		Description:   r.Description,
		Status:        types.AuditStatusDraft,
		IsTemplate:    r.IsTemplate,
		AssignedTo:    r.AssignedTo,
		DueDate:       r.DueDate,
		Comments:      r.Comments,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

type UpdateAuditRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Comments    *string    `json:"comments,omitempty"`
}

// InstantiateTemplateRequest creates a fresh draft audit from a template's
// structure. Title defaults to the template title when omitted.
type InstantiateTemplateRequest struct {
	Title      string     `json:"title"`
	AssignedTo *string    `json:"assigned_to,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

type AuditResponse struct {
	*audit.Audit
}

// ListAuditsResponse represents the response for listing audits
type ListAuditsResponse = types.ListResponse[*AuditResponse]

// CompleteAuditResponse carries the completed audit together with the final
// completion stats attached to the transition
type CompleteAuditResponse struct {
	Audit *audit.Audit             `json:"audit"`
	Stats *CompletionStatsResponse `json:"stats"`
}
