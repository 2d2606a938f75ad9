package postgres

import (
	"context"
	"database/sql"

	"github.com/auditflow/auditflow/internal/domain/question"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
)

type questionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewQuestionRepository(db *postgres.DB, logger *logger.Logger) question.Repository {
	return &questionRepository{db: db, logger: logger}
}

func (r *questionRepository) Create(ctx context.Context, q *question.Question) error {
	query := `
		INSERT INTO questions (
			id,
			section_id,
			text,
			help_text,
			type,
			required,
			options,
			weight,
			position,
			created_at,
			updated_at,
			created_by,
			updated_by
		)
		VALUES (
			:id,
			:section_id,
			:text,
			:help_text,
			:type,
			:required,
			:options,
			:weight,
			:position,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating question",
		"question_id", q.ID,
		"section_id", q.SectionID,
		"type", q.Type,
	)

	if _, err := r.db.NamedExecContext(ctx, query, q); err != nil {
		r.logger.Errorw("failed to create question", "error", err, "question_id", q.ID)
		return ierr.WithError(err).
			WithHint("Failed to create question").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *questionRepository) Get(ctx context.Context, id string) (*question.Question, error) {
	var q question.Question
	querier := r.db.GetQuerier(ctx)
	if err := querier.GetContext(ctx, &q, `SELECT * FROM questions WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("question not found").
				WithHintf("Question with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"question_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get question").
			Mark(ierr.ErrDatabase)
	}

	return &q, nil
}

func (r *questionRepository) ListBySection(ctx context.Context, sectionID string) ([]*question.Question, error) {
	var questions []*question.Question
	querier := r.db.GetQuerier(ctx)
	err := querier.SelectContext(ctx, &questions,
		`SELECT * FROM questions WHERE section_id = $1 ORDER BY position ASC`, sectionID)
	if err != nil {
		r.logger.Errorw("failed to list questions", "error", err, "section_id", sectionID)
		return nil, ierr.WithError(err).
			WithHint("Failed to list questions").
			Mark(ierr.ErrDatabase)
	}

	return questions, nil
}

func (r *questionRepository) ListByAudit(ctx context.Context, auditID string) ([]*question.Question, error) {
	query := `
		SELECT q.* FROM questions q
		JOIN sections s ON s.id = q.section_id
		WHERE s.audit_id = $1
		ORDER BY s.position ASC, q.position ASC
	`

	var questions []*question.Question
	querier := r.db.GetQuerier(ctx)
	if err := querier.SelectContext(ctx, &questions, query, auditID); err != nil {
		r.logger.Errorw("failed to list audit questions", "error", err, "audit_id", auditID)
		return nil, ierr.WithError(err).
			WithHint("Failed to list questions").
			Mark(ierr.ErrDatabase)
	}

	return questions, nil
}

func (r *questionRepository) Update(ctx context.Context, q *question.Question) error {
	query := `
		UPDATE questions SET
			text = :text,
			help_text = :help_text,
			type = :type,
			required = :required,
			options = :options,
			weight = :weight,
			position = :position,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, q)
	if err != nil {
		r.logger.Errorw("failed to update question", "error", err, "question_id", q.ID)
		return ierr.WithError(err).
			WithHint("Failed to update question").
			Mark(ierr.ErrDatabase)
	}

	return requireRowAffected(result, "question", q.ID)
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	querier := r.db.GetQuerier(ctx)
	result, err := querier.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorw("failed to delete question", "error", err, "question_id", id)
		return ierr.WithError(err).
			WithHint("Failed to delete question").
			Mark(ierr.ErrDatabase)
	}

	return requireRowAffected(result, "question", id)
}

func (r *questionRepository) DeleteBySection(ctx context.Context, sectionID string) error {
	querier := r.db.GetQuerier(ctx)
	if _, err := querier.ExecContext(ctx, `DELETE FROM questions WHERE section_id = $1`, sectionID); err != nil {
		r.logger.Errorw("failed to delete section questions", "error", err, "section_id", sectionID)
		return ierr.WithError(err).
			WithHint("Failed to delete questions").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *questionRepository) UpdatePositions(ctx context.Context, sectionID string, orderedIDs []string) error {
	querier := r.db.GetQuerier(ctx)
	for i, id := range orderedIDs {
		result, err := querier.ExecContext(ctx,
			`UPDATE questions SET position = $1, updated_at = NOW() WHERE id = $2 AND section_id = $3`,
			i+1, id, sectionID)
		if err != nil {
			r.logger.Errorw("failed to update question position",
				"error", err,
				"question_id", id,
				"section_id", sectionID,
			)
			return ierr.WithError(err).
				WithHint("Failed to reorder questions").
				Mark(ierr.ErrDatabase)
		}
		if err := requireRowAffected(result, "question", id); err != nil {
			return err
		}
	}

	return nil
}

func (r *questionRepository) MaxPosition(ctx context.Context, sectionID string) (int, error) {
	var max int
	querier := r.db.GetQuerier(ctx)
	err := querier.GetContext(ctx, &max,
		`SELECT COALESCE(MAX(position), 0) FROM questions WHERE section_id = $1`, sectionID)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to read question positions").
			Mark(ierr.ErrDatabase)
	}

	return max, nil
}
