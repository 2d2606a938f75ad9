package attachment

import (
	"context"
)

// Repository defines the interface for attachment persistence
type Repository interface {
	Create(ctx context.Context, attachment *Attachment) error
	Get(ctx context.Context, id string) (*Attachment, error)
	ListByAudit(ctx context.Context, auditID string) ([]*Attachment, error)
	Delete(ctx context.Context, id string) error
}
