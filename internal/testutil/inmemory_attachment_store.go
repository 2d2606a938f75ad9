package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/auditflow/auditflow/internal/domain/attachment"
	ierr "github.com/auditflow/auditflow/internal/errors"
)

// InMemoryAttachmentStore implements attachment.Repository
type InMemoryAttachmentStore struct {
	*InMemoryStore[*attachment.Attachment]
}

// NewInMemoryAttachmentStore creates a new in-memory attachment store
func NewInMemoryAttachmentStore() *InMemoryAttachmentStore {
	return &InMemoryAttachmentStore{
		InMemoryStore: NewInMemoryStore[*attachment.Attachment](),
	}
}

func copyAttachment(att *attachment.Attachment) *attachment.Attachment {
	if att == nil {
		return nil
	}
	c := *att
	return &c
}

func (s *InMemoryAttachmentStore) Create(ctx context.Context, att *attachment.Attachment) error {
	if att == nil {
		return fmt.Errorf("attachment cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, att.ID, copyAttachment(att))
}

func (s *InMemoryAttachmentStore) Get(ctx context.Context, id string) (*attachment.Attachment, error) {
	att, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("attachment not found").
			WithHintf("Attachment with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyAttachment(att), nil
}

func (s *InMemoryAttachmentStore) ListByAudit(ctx context.Context, auditID string) ([]*attachment.Attachment, error) {
	attachments, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, att *attachment.Attachment, _ interface{}) bool {
		return att != nil && att.AuditID == auditID
	}, nil)
	if err != nil {
		return nil, err
	}

	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].CreatedAt.Before(attachments[j].CreatedAt)
	})

	result := make([]*attachment.Attachment, len(attachments))
	for i, att := range attachments {
		result[i] = copyAttachment(att)
	}
	return result, nil
}

func (s *InMemoryAttachmentStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("attachment not found").
			WithHintf("Attachment with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
