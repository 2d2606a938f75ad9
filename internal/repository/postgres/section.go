package postgres

import (
	"context"
	"database/sql"

	"github.com/auditflow/auditflow/internal/domain/section"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
)

type sectionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSectionRepository(db *postgres.DB, logger *logger.Logger) section.Repository {
	return &sectionRepository{db: db, logger: logger}
}

func (r *sectionRepository) Create(ctx context.Context, s *section.Section) error {
	query := `
		INSERT INTO sections (
			id,
			audit_id,
			title,
			description,
			weight,
			position,
			created_at,
			updated_at,
			created_by,
			updated_by
		)
		VALUES (
			:id,
			:audit_id,
			:title,
			:description,
			:weight,
			:position,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating section",
		"section_id", s.ID,
		"audit_id", s.AuditID,
		"position", s.Position,
	)

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		r.logger.Errorw("failed to create section", "error", err, "section_id", s.ID)
		return ierr.WithError(err).
			WithHint("Failed to create section").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *sectionRepository) Get(ctx context.Context, id string) (*section.Section, error) {
	var s section.Section
	q := r.db.GetQuerier(ctx)
	if err := q.GetContext(ctx, &s, `SELECT * FROM sections WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("section not found").
				WithHintf("Section with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"section_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get section").
			Mark(ierr.ErrDatabase)
	}

	return &s, nil
}

func (r *sectionRepository) ListByAudit(ctx context.Context, auditID string) ([]*section.Section, error) {
	var sections []*section.Section
	q := r.db.GetQuerier(ctx)
	err := q.SelectContext(ctx, &sections,
		`SELECT * FROM sections WHERE audit_id = $1 ORDER BY position ASC`, auditID)
	if err != nil {
		r.logger.Errorw("failed to list sections", "error", err, "audit_id", auditID)
		return nil, ierr.WithError(err).
			WithHint("Failed to list sections").
			Mark(ierr.ErrDatabase)
	}

	return sections, nil
}

func (r *sectionRepository) Update(ctx context.Context, s *section.Section) error {
	query := `
		UPDATE sections SET
			title = :title,
			description = :description,
			weight = :weight,
			position = :position,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		r.logger.Errorw("failed to update section", "error", err, "section_id", s.ID)
		return ierr.WithError(err).
			WithHint("Failed to update section").
			Mark(ierr.ErrDatabase)
	}

	return requireRowAffected(result, "section", s.ID)
}

func (r *sectionRepository) Delete(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)
	result, err := q.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorw("failed to delete section", "error", err, "section_id", id)
		return ierr.WithError(err).
			WithHint("Failed to delete section").
			Mark(ierr.ErrDatabase)
	}

	return requireRowAffected(result, "section", id)
}

func (r *sectionRepository) UpdatePositions(ctx context.Context, auditID string, orderedIDs []string) error {
	q := r.db.GetQuerier(ctx)
	for i, id := range orderedIDs {
		result, err := q.ExecContext(ctx,
			`UPDATE sections SET position = $1, updated_at = NOW() WHERE id = $2 AND audit_id = $3`,
			i+1, id, auditID)
		if err != nil {
			r.logger.Errorw("failed to update section position",
				"error", err,
				"section_id", id,
				"audit_id", auditID,
			)
			return ierr.WithError(err).
				WithHint("Failed to reorder sections").
				Mark(ierr.ErrDatabase)
		}
		if err := requireRowAffected(result, "section", id); err != nil {
			return err
		}
	}

	return nil
}

func (r *sectionRepository) MaxPosition(ctx context.Context, auditID string) (int, error) {
	var max int
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &max,
		`SELECT COALESCE(MAX(position), 0) FROM sections WHERE audit_id = $1`, auditID)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to read section positions").
			Mark(ierr.ErrDatabase)
	}

	return max, nil
}
