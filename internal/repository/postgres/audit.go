package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/auditflow/auditflow/internal/domain/audit"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/auditflow/auditflow/internal/types"
)

type auditRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAuditRepository(db *postgres.DB, logger *logger.Logger) audit.Repository {
	return &auditRepository{db: db, logger: logger}
}

func (r *auditRepository) Create(ctx context.Context, a *audit.Audit) error {
	query := `
		INSERT INTO audits (
			id,
			reference_code,
			title,
			description,
			status,
			is_template,
			assigned_to,
			due_date,
			comments,
			completion_date,
			created_at,
			updated_at,
			created_by,
			updated_by
		)
		VALUES (
			:id,
			:reference_code,
			:title,
			:description,
			:status,
			:is_template,
			:assigned_to,
			:due_date,
			:comments,
			:completion_date,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating audit",
		"audit_id", a.ID,
		"is_template", a.IsTemplate,
	)

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		r.logger.Errorw("failed to create audit", "error", err, "audit_id", a.ID)
		return ierr.WithError(err).
			WithHint("Failed to create audit").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *auditRepository) Get(ctx context.Context, id string) (*audit.Audit, error) {
	query := `SELECT * FROM audits WHERE id = $1`

	var a audit.Audit
	q := r.db.GetQuerier(ctx)
	if err := q.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("audit not found").
				WithHintf("Audit with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"audit_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		r.logger.Errorw("failed to get audit", "error", err, "audit_id", id)
		return nil, ierr.WithError(err).
			WithHint("Failed to get audit").
			Mark(ierr.ErrDatabase)
	}

	return &a, nil
}

func (r *auditRepository) List(ctx context.Context, filter *types.AuditFilter) ([]*audit.Audit, error) {
	where, args := buildAuditWhere(filter)

	query := `SELECT * FROM audits` + where + `
		ORDER BY created_at ` + orderKeyword(filter) + `
		LIMIT :limit OFFSET :offset
	`
	args["limit"] = filter.GetLimit()
	args["offset"] = filter.GetOffset()

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		r.logger.Errorw("failed to list audits", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list audits").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var audits []*audit.Audit
	for rows.Next() {
		var a audit.Audit
		if err := rows.StructScan(&a); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to read audit row").
				Mark(ierr.ErrDatabase)
		}
		audits = append(audits, &a)
	}

	return audits, nil
}

func (r *auditRepository) Count(ctx context.Context, filter *types.AuditFilter) (int, error) {
	where, args := buildAuditWhere(filter)

	rows, err := r.db.NamedQueryContext(ctx, `SELECT COUNT(*) FROM audits`+where, args)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count audits").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to count audits").
				Mark(ierr.ErrDatabase)
		}
	}
	return count, nil
}

func (r *auditRepository) Update(ctx context.Context, a *audit.Audit) error {
	query := `
		UPDATE audits SET
			title = :title,
			description = :description,
			status = :status,
			assigned_to = :assigned_to,
			due_date = :due_date,
			comments = :comments,
			completion_date = :completion_date,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		r.logger.Errorw("failed to update audit", "error", err, "audit_id", a.ID)
		return ierr.WithError(err).
			WithHint("Failed to update audit").
			Mark(ierr.ErrDatabase)
	}

	return requireRowAffected(result, "audit", a.ID)
}

func (r *auditRepository) Delete(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)
	result, err := q.ExecContext(ctx, `DELETE FROM audits WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorw("failed to delete audit", "error", err, "audit_id", id)
		return ierr.WithError(err).
			WithHint("Failed to delete audit").
			Mark(ierr.ErrDatabase)
	}

	return requireRowAffected(result, "audit", id)
}

func buildAuditWhere(filter *types.AuditFilter) (string, map[string]interface{}) {
	conditions := []string{}
	args := map[string]interface{}{}

	if filter == nil {
		return "", args
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = :status")
		args["status"] = *filter.Status
	}
	if filter.IsTemplate != nil {
		conditions = append(conditions, "is_template = :is_template")
		args["is_template"] = *filter.IsTemplate
	}
	if filter.CreatedBy != nil {
		conditions = append(conditions, "created_by = :created_by")
		args["created_by"] = *filter.CreatedBy
	}
	if filter.AssignedTo != nil {
		conditions = append(conditions, "assigned_to = :assigned_to")
		args["assigned_to"] = *filter.AssignedTo
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderKeyword(filter *types.AuditFilter) string {
	if filter != nil && filter.QueryFilter != nil && filter.GetOrder() == types.OrderAsc {
		return "ASC"
	}
	return "DESC"
}
