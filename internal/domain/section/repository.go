package section

import (
	"context"
)

// Repository defines the interface for section persistence
type Repository interface {
	Create(ctx context.Context, section *Section) error
	Get(ctx context.Context, id string) (*Section, error)
	// ListByAudit returns the audit's sections ordered by position
	ListByAudit(ctx context.Context, auditID string) ([]*Section, error)
	Update(ctx context.Context, section *Section) error
	// Delete removes the section row only; cascading to questions and
	// responses is orchestrated by the service inside a transaction
	Delete(ctx context.Context, id string) error
	// UpdatePositions rewrites positions so that orderedIDs[i] gets position i+1
	UpdatePositions(ctx context.Context, auditID string, orderedIDs []string) error
	// MaxPosition returns the highest position within the audit, 0 when empty
	MaxPosition(ctx context.Context, auditID string) (int, error)
}
