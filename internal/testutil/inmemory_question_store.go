package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/auditflow/auditflow/internal/domain/question"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/lib/pq"
)

// InMemoryQuestionStore implements question.Repository. ListByAudit needs
// the section ordering, so the store holds a reference to the section store.
type InMemoryQuestionStore struct {
	*InMemoryStore[*question.Question]
	sections *InMemorySectionStore
}

// NewInMemoryQuestionStore creates a new in-memory question store
func NewInMemoryQuestionStore(sections *InMemorySectionStore) *InMemoryQuestionStore {
	return &InMemoryQuestionStore{
		InMemoryStore: NewInMemoryStore[*question.Question](),
		sections:      sections,
	}
}

func copyQuestion(q *question.Question) *question.Question {
	if q == nil {
		return nil
	}
	c := *q
	if q.Options != nil {
		c.Options = append(pq.StringArray{}, q.Options...)
	}
	return &c
}

func (s *InMemoryQuestionStore) Create(ctx context.Context, q *question.Question) error {
	if q == nil {
		return fmt.Errorf("question cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, q.ID, copyQuestion(q))
}

func (s *InMemoryQuestionStore) Get(ctx context.Context, id string) (*question.Question, error) {
	q, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("question not found").
			WithHintf("Question with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyQuestion(q), nil
}

func (s *InMemoryQuestionStore) ListBySection(ctx context.Context, sectionID string) ([]*question.Question, error) {
	questions, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, q *question.Question, _ interface{}) bool {
		return q != nil && q.SectionID == sectionID
	}, nil)
	if err != nil {
		return nil, err
	}

	sort.Slice(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })

	result := make([]*question.Question, len(questions))
	for i, q := range questions {
		result[i] = copyQuestion(q)
	}
	return result, nil
}

func (s *InMemoryQuestionStore) ListByAudit(ctx context.Context, auditID string) ([]*question.Question, error) {
	sections, err := s.sections.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	var result []*question.Question
	for _, sec := range sections {
		questions, err := s.ListBySection(ctx, sec.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, questions...)
	}
	return result, nil
}

func (s *InMemoryQuestionStore) Update(ctx context.Context, q *question.Question) error {
	if q == nil {
		return fmt.Errorf("question cannot be nil")
	}
	if err := s.InMemoryStore.Update(ctx, q.ID, copyQuestion(q)); err != nil {
		return ierr.NewError("question not found").
			WithHintf("Question with ID %s was not found", q.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryQuestionStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("question not found").
			WithHintf("Question with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryQuestionStore) DeleteBySection(ctx context.Context, sectionID string) error {
	s.InMemoryStore.DeleteWhere(ctx, func(q *question.Question) bool {
		return q != nil && q.SectionID == sectionID
	})
	return nil
}

func (s *InMemoryQuestionStore) UpdatePositions(ctx context.Context, sectionID string, orderedIDs []string) error {
	for i, id := range orderedIDs {
		q, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if q.SectionID != sectionID {
			return ierr.NewError("question not found").
				WithHintf("Question with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		q.Position = i + 1
		if err := s.Update(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryQuestionStore) MaxPosition(ctx context.Context, sectionID string) (int, error) {
	questions, err := s.ListBySection(ctx, sectionID)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, q := range questions {
		if q.Position > max {
			max = q.Position
		}
	}
	return max, nil
}
