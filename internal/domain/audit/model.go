package audit

import (
	"time"

	"github.com/auditflow/auditflow/internal/types"
)

// Audit is a structured assessment instance composed of weighted sections
// and questions. An audit flagged as template is a blueprint only: it never
// carries responses and never leaves draft.
type Audit struct {
	ID             string            `db:"id" json:"id"`
	ReferenceCode  string            `db:"reference_code" json:"reference_code"`
	Title          string            `db:"title" json:"title"`
	Description    string            `db:"description" json:"description"`
	Status         types.AuditStatus `db:"status" json:"status"`
	IsTemplate     bool              `db:"is_template" json:"is_template"`
	AssignedTo     *string           `db:"assigned_to" json:"assigned_to,omitempty"`
	DueDate        *time.Time        `db:"due_date" json:"due_date,omitempty"`
	Comments       *string           `db:"comments" json:"comments,omitempty"`
	CompletionDate *time.Time        `db:"completion_date" json:"completion_date,omitempty"`
	types.BaseModel
}

// RespondentID resolves the canonical respondent context for completion and
// scoring reads: the assignee when set, otherwise the audit creator.
func (a *Audit) RespondentID() string {
	if a.AssignedTo != nil && *a.AssignedTo != "" {
		return *a.AssignedTo
	}
	return a.CreatedBy
}
