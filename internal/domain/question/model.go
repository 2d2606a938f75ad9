package question

import (
	"github.com/auditflow/auditflow/internal/types"
	"github.com/lib/pq"
)

// Question is a single prompt within a section. Weight only matters for
// scorable types; text questions count toward completion, never the score.
type Question struct {
	ID        string             `db:"id" json:"id"`
	SectionID string             `db:"section_id" json:"section_id"`
	Text      string             `db:"text" json:"text"`
	HelpText  *string            `db:"help_text" json:"help_text,omitempty"`
	Type      types.QuestionType `db:"type" json:"type"`
	Required  bool               `db:"required" json:"required"`
	Options   pq.StringArray     `db:"options" json:"options,omitempty"`
	Weight    float64            `db:"weight" json:"weight"`
	Position  int                `db:"position" json:"position"`
	types.BaseModel
}
