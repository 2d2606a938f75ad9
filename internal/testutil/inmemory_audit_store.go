package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/auditflow/auditflow/internal/domain/audit"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/types"
)

// InMemoryAuditStore implements audit.Repository
type InMemoryAuditStore struct {
	*InMemoryStore[*audit.Audit]
}

// NewInMemoryAuditStore creates a new in-memory audit store
func NewInMemoryAuditStore() *InMemoryAuditStore {
	return &InMemoryAuditStore{
		InMemoryStore: NewInMemoryStore[*audit.Audit](),
	}
}

func copyAudit(a *audit.Audit) *audit.Audit {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// auditFilterFn implements filtering logic for audits
func auditFilterFn(ctx context.Context, a *audit.Audit, filter interface{}) bool {
	if a == nil {
		return false
	}

	f, ok := filter.(*types.AuditFilter)
	if !ok || f == nil {
		return true
	}

	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.IsTemplate != nil && a.IsTemplate != *f.IsTemplate {
		return false
	}
	if f.CreatedBy != nil && a.CreatedBy != *f.CreatedBy {
		return false
	}
	if f.AssignedTo != nil {
		if a.AssignedTo == nil || *a.AssignedTo != *f.AssignedTo {
			return false
		}
	}

	return true
}

// auditSortFn orders newest first, matching the repository default
func auditSortFn(i, j *audit.Audit) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryAuditStore) Create(ctx context.Context, a *audit.Audit) error {
	if a == nil {
		return fmt.Errorf("audit cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, a.ID, copyAudit(a))
}

func (s *InMemoryAuditStore) Get(ctx context.Context, id string) (*audit.Audit, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("audit not found").
			WithHintf("Audit with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyAudit(a), nil
}

func (s *InMemoryAuditStore) List(ctx context.Context, filter *types.AuditFilter) ([]*audit.Audit, error) {
	audits, err := s.InMemoryStore.List(ctx, filter, auditFilterFn, nil)
	if err != nil {
		return nil, err
	}

	sort.Slice(audits, func(i, j int) bool { return auditSortFn(audits[i], audits[j]) })

	if filter != nil && filter.QueryFilter != nil {
		start := filter.GetOffset()
		if start >= len(audits) {
			return []*audit.Audit{}, nil
		}
		end := start + filter.GetLimit()
		if end > len(audits) {
			end = len(audits)
		}
		audits = audits[start:end]
	}

	result := make([]*audit.Audit, len(audits))
	for i, a := range audits {
		result[i] = copyAudit(a)
	}
	return result, nil
}

func (s *InMemoryAuditStore) Count(ctx context.Context, filter *types.AuditFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, auditFilterFn)
}

func (s *InMemoryAuditStore) Update(ctx context.Context, a *audit.Audit) error {
	if a == nil {
		return fmt.Errorf("audit cannot be nil")
	}
	if err := s.InMemoryStore.Update(ctx, a.ID, copyAudit(a)); err != nil {
		return ierr.NewError("audit not found").
			WithHintf("Audit with ID %s was not found", a.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryAuditStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("audit not found").
			WithHintf("Audit with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
