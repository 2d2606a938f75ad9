package section

import (
	"github.com/auditflow/auditflow/internal/types"
)

// Section is a weighted grouping of questions within an audit. Position is
// a dense ordering within the owning audit.
type Section struct {
	ID          string  `db:"id" json:"id"`
	AuditID     string  `db:"audit_id" json:"audit_id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	Weight      float64 `db:"weight" json:"weight"`
	Position    int     `db:"position" json:"position"`
	types.BaseModel
}
