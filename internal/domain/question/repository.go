package question

import (
	"context"
)

// Repository defines the interface for question persistence
type Repository interface {
	Create(ctx context.Context, question *Question) error
	Get(ctx context.Context, id string) (*Question, error)
	// ListBySection returns the section's questions ordered by position
	ListBySection(ctx context.Context, sectionID string) ([]*Question, error)
	// ListByAudit returns every question of the audit, ordered by section
	// position then question position
	ListByAudit(ctx context.Context, auditID string) ([]*Question, error)
	Update(ctx context.Context, question *Question) error
	Delete(ctx context.Context, id string) error
	// DeleteBySection removes all questions of a section; used by the
	// cascading section delete inside a transaction
	DeleteBySection(ctx context.Context, sectionID string) error
	// UpdatePositions rewrites positions so that orderedIDs[i] gets position i+1
	UpdatePositions(ctx context.Context, sectionID string, orderedIDs []string) error
	// MaxPosition returns the highest position within the section, 0 when empty
	MaxPosition(ctx context.Context, sectionID string) (int, error)
}
