package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/auditflow/auditflow/internal/domain/response"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/samber/lo"
)

// InMemoryResponseStore implements response.Repository. Items are keyed by
// the (question, user) pair so an upsert overwrites the current answer the
// same way the unique index does in postgres.
type InMemoryResponseStore struct {
	*InMemoryStore[*response.Response]
}

// NewInMemoryResponseStore creates a new in-memory response store
func NewInMemoryResponseStore() *InMemoryResponseStore {
	return &InMemoryResponseStore{
		InMemoryStore: NewInMemoryStore[*response.Response](),
	}
}

func responseKey(questionID, userID string) string {
	return questionID + ":" + userID
}

func copyResponse(r *response.Response) *response.Response {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func (s *InMemoryResponseStore) Upsert(ctx context.Context, r *response.Response) error {
	if r == nil {
		return fmt.Errorf("response cannot be nil")
	}

	key := responseKey(r.QuestionID, r.UserID)
	if existing, err := s.InMemoryStore.Get(ctx, key); err == nil {
		// Overwrites keep the original row identity and creation time
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	}
	return s.InMemoryStore.Upsert(ctx, key, copyResponse(r))
}

func (s *InMemoryResponseStore) Get(ctx context.Context, questionID, userID string) (*response.Response, error) {
	r, err := s.InMemoryStore.Get(ctx, responseKey(questionID, userID))
	if err != nil {
		return nil, ierr.NewError("response not found").
			WithHintf("No response was found for question %s", questionID).
			Mark(ierr.ErrNotFound)
	}
	return copyResponse(r), nil
}

func (s *InMemoryResponseStore) ListByAudit(ctx context.Context, auditID, userID string) ([]*response.Response, error) {
	responses, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, r *response.Response, _ interface{}) bool {
		return r != nil && r.AuditID == auditID && r.UserID == userID
	}, nil)
	if err != nil {
		return nil, err
	}

	sort.Slice(responses, func(i, j int) bool { return responses[i].UpdatedAt.Before(responses[j].UpdatedAt) })

	result := make([]*response.Response, len(responses))
	for i, r := range responses {
		result[i] = copyResponse(r)
	}
	return result, nil
}

func (s *InMemoryResponseStore) DeleteByQuestionIDs(ctx context.Context, questionIDs []string) error {
	s.InMemoryStore.DeleteWhere(ctx, func(r *response.Response) bool {
		return r != nil && lo.Contains(questionIDs, r.QuestionID)
	})
	return nil
}

func (s *InMemoryResponseStore) DeleteByAudit(ctx context.Context, auditID string) error {
	s.InMemoryStore.DeleteWhere(ctx, func(r *response.Response) bool {
		return r != nil && r.AuditID == auditID
	})
	return nil
}
