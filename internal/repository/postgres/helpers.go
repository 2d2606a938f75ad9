package postgres

import (
	"database/sql"

	ierr "github.com/auditflow/auditflow/internal/errors"
)

// requireRowAffected turns a zero-row write into a NotFound error so update
// and delete paths surface missing ids instead of silently succeeding.
func requireRowAffected(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read affected rows").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError(entity + " not found").
			WithHintf("%s with ID %s was not found", entity, id).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
