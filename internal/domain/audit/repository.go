package audit

import (
	"context"

	"github.com/auditflow/auditflow/internal/types"
)

// Repository defines the interface for audit persistence
type Repository interface {
	Create(ctx context.Context, audit *Audit) error
	Get(ctx context.Context, id string) (*Audit, error)
	List(ctx context.Context, filter *types.AuditFilter) ([]*Audit, error)
	Count(ctx context.Context, filter *types.AuditFilter) (int, error)
	Update(ctx context.Context, audit *Audit) error
	Delete(ctx context.Context, id string) error
}
