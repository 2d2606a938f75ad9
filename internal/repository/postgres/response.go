package postgres

import (
	"context"
	"database/sql"

	"github.com/auditflow/auditflow/internal/domain/response"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/lib/pq"
)

type responseRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewResponseRepository(db *postgres.DB, logger *logger.Logger) response.Repository {
	return &responseRepository{db: db, logger: logger}
}

func (r *responseRepository) Upsert(ctx context.Context, resp *response.Response) error {
	// The unique index on (audit_id, question_id, user_id) backs the
	// one-current-response invariant; conflicting saves overwrite in place.
	query := `
		INSERT INTO responses (
			id,
			audit_id,
			question_id,
			user_id,
			value,
			comments,
			created_at,
			updated_at
		)
		VALUES (
			:id,
			:audit_id,
			:question_id,
			:user_id,
			:value,
			:comments,
			:created_at,
			:updated_at
		)
		ON CONFLICT (audit_id, question_id, user_id)
		DO UPDATE SET
			value = EXCLUDED.value,
			comments = EXCLUDED.comments,
			updated_at = EXCLUDED.updated_at
	`

	r.logger.Debugw("upserting response",
		"audit_id", resp.AuditID,
		"question_id", resp.QuestionID,
		"user_id", resp.UserID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, resp); err != nil {
		r.logger.Errorw("failed to upsert response", "error", err, "question_id", resp.QuestionID)
		return ierr.WithError(err).
			WithHint("Failed to save response").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *responseRepository) Get(ctx context.Context, questionID, userID string) (*response.Response, error) {
	var resp response.Response
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &resp,
		`SELECT * FROM responses WHERE question_id = $1 AND user_id = $2`, questionID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("response not found").
				WithHint("No response recorded for this question").
				WithReportableDetails(map[string]any{
					"question_id": questionID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get response").
			Mark(ierr.ErrDatabase)
	}

	return &resp, nil
}

func (r *responseRepository) ListByAudit(ctx context.Context, auditID, userID string) ([]*response.Response, error) {
	var responses []*response.Response
	q := r.db.GetQuerier(ctx)
	err := q.SelectContext(ctx, &responses,
		`SELECT * FROM responses WHERE audit_id = $1 AND user_id = $2`, auditID, userID)
	if err != nil {
		r.logger.Errorw("failed to list responses", "error", err, "audit_id", auditID)
		return nil, ierr.WithError(err).
			WithHint("Failed to list responses").
			Mark(ierr.ErrDatabase)
	}

	return responses, nil
}

func (r *responseRepository) DeleteByQuestionIDs(ctx context.Context, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}

	q := r.db.GetQuerier(ctx)
	if _, err := q.ExecContext(ctx,
		`DELETE FROM responses WHERE question_id = ANY($1)`, pq.Array(questionIDs)); err != nil {
		r.logger.Errorw("failed to delete responses", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to delete responses").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *responseRepository) DeleteByAudit(ctx context.Context, auditID string) error {
	q := r.db.GetQuerier(ctx)
	if _, err := q.ExecContext(ctx, `DELETE FROM responses WHERE audit_id = $1`, auditID); err != nil {
		r.logger.Errorw("failed to delete audit responses", "error", err, "audit_id", auditID)
		return ierr.WithError(err).
			WithHint("Failed to delete responses").
			Mark(ierr.ErrDatabase)
	}

	return nil
}
