package response

import (
	"time"
)

// Response is a respondent's current answer to one question in one audit.
// At most one logically-current response exists per (audit, question, user);
// new submissions overwrite rather than accumulate.
type Response struct {
	ID         string    `db:"id" json:"id"`
	AuditID    string    `db:"audit_id" json:"audit_id"`
	QuestionID string    `db:"question_id" json:"question_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Value      string    `db:"value" json:"value"`
	Comments   *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
