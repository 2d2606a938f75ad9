package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/auditflow/auditflow/internal/domain/section"
	ierr "github.com/auditflow/auditflow/internal/errors"
)

// InMemorySectionStore implements section.Repository
type InMemorySectionStore struct {
	*InMemoryStore[*section.Section]
}

// NewInMemorySectionStore creates a new in-memory section store
func NewInMemorySectionStore() *InMemorySectionStore {
	return &InMemorySectionStore{
		InMemoryStore: NewInMemoryStore[*section.Section](),
	}
}

func copySection(sec *section.Section) *section.Section {
	if sec == nil {
		return nil
	}
	c := *sec
	return &c
}

func (s *InMemorySectionStore) Create(ctx context.Context, sec *section.Section) error {
	if sec == nil {
		return fmt.Errorf("section cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, sec.ID, copySection(sec))
}

func (s *InMemorySectionStore) Get(ctx context.Context, id string) (*section.Section, error) {
	sec, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("section not found").
			WithHintf("Section with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copySection(sec), nil
}

func (s *InMemorySectionStore) ListByAudit(ctx context.Context, auditID string) ([]*section.Section, error) {
	sections, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, sec *section.Section, _ interface{}) bool {
		return sec != nil && sec.AuditID == auditID
	}, nil)
	if err != nil {
		return nil, err
	}

	sort.Slice(sections, func(i, j int) bool { return sections[i].Position < sections[j].Position })

	result := make([]*section.Section, len(sections))
	for i, sec := range sections {
		result[i] = copySection(sec)
	}
	return result, nil
}

func (s *InMemorySectionStore) Update(ctx context.Context, sec *section.Section) error {
	if sec == nil {
		return fmt.Errorf("section cannot be nil")
	}
	if err := s.InMemoryStore.Update(ctx, sec.ID, copySection(sec)); err != nil {
		return ierr.NewError("section not found").
			WithHintf("Section with ID %s was not found", sec.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemorySectionStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("section not found").
			WithHintf("Section with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemorySectionStore) UpdatePositions(ctx context.Context, auditID string, orderedIDs []string) error {
	for i, id := range orderedIDs {
		sec, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if sec.AuditID != auditID {
			return ierr.NewError("section not found").
				WithHintf("Section with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		sec.Position = i + 1
		if err := s.Update(ctx, sec); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemorySectionStore) MaxPosition(ctx context.Context, auditID string) (int, error) {
	sections, err := s.ListByAudit(ctx, auditID)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, sec := range sections {
		if sec.Position > max {
			max = sec.Position
		}
	}
	return max, nil
}
