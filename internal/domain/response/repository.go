package response

import (
	"context"
)

// Repository defines the interface for response persistence
type Repository interface {
	// Upsert creates the response or overwrites the existing one for the
	// same (audit, question, user) triple
	Upsert(ctx context.Context, response *Response) error
	Get(ctx context.Context, questionID, userID string) (*Response, error)
	// ListByAudit returns the user's current responses across the audit
	ListByAudit(ctx context.Context, auditID, userID string) ([]*Response, error)
	// DeleteByQuestionIDs removes all responses to the given questions; used
	// by cascading deletes inside a transaction
	DeleteByQuestionIDs(ctx context.Context, questionIDs []string) error
	DeleteByAudit(ctx context.Context, auditID string) error
}
