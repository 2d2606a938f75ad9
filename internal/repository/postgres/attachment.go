package postgres

import (
	"context"
	"database/sql"

	"github.com/auditflow/auditflow/internal/domain/attachment"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
)

type attachmentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAttachmentRepository(db *postgres.DB, logger *logger.Logger) attachment.Repository {
	return &attachmentRepository{db: db, logger: logger}
}

func (r *attachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	query := `
		INSERT INTO attachments (
			id,
			audit_id,
			user_id,
			file_name,
			file_path,
			file_type,
			file_size,
			comments,
			created_at
		)
		VALUES (
			:id,
			:audit_id,
			:user_id,
			:file_name,
			:file_path,
			:file_type,
			:file_size,
			:comments,
			:created_at
		)
	`

	r.logger.Debugw("creating attachment",
		"attachment_id", a.ID,
		"audit_id", a.AuditID,
		"file_name", a.FileName,
	)

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		r.logger.Errorw("failed to create attachment", "error", err, "attachment_id", a.ID)
		return ierr.WithError(err).
			WithHint("Failed to create attachment").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *attachmentRepository) Get(ctx context.Context, id string) (*attachment.Attachment, error) {
	var a attachment.Attachment
	q := r.db.GetQuerier(ctx)
	if err := q.GetContext(ctx, &a, `SELECT * FROM attachments WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("attachment not found").
				WithHintf("Attachment with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"attachment_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get attachment").
			Mark(ierr.ErrDatabase)
	}

	return &a, nil
}

func (r *attachmentRepository) ListByAudit(ctx context.Context, auditID string) ([]*attachment.Attachment, error) {
	var attachments []*attachment.Attachment
	q := r.db.GetQuerier(ctx)
	err := q.SelectContext(ctx, &attachments,
		`SELECT * FROM attachments WHERE audit_id = $1 ORDER BY created_at DESC`, auditID)
	if err != nil {
		r.logger.Errorw("failed to list attachments", "error", err, "audit_id", auditID)
		return nil, ierr.WithError(err).
			WithHint("Failed to list attachments").
			Mark(ierr.ErrDatabase)
	}

	return attachments, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)
	result, err := q.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorw("failed to delete attachment", "error", err, "attachment_id", id)
		return ierr.WithError(err).
			WithHint("Failed to delete attachment").
			Mark(ierr.ErrDatabase)
	}

	return requireRowAffected(result, "attachment", id)
}
