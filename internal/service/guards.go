package service

import (
	"time"

	"github.com/auditflow/auditflow/internal/domain/audit"
	ierr "github.com/auditflow/auditflow/internal/errors"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// requireEditable rejects structural edits on audits whose lifecycle has
// closed. Templates stay in draft and remain editable indefinitely.
func requireEditable(a *audit.Audit) error {
	if !a.Status.IsMutable() {
		return ierr.NewError("audit can no longer be edited").
			WithHintf("Audit is %s and does not accept changes", a.Status).
			WithReportableDetails(map[string]any{
				"audit_id": a.ID,
				"status":   a.Status,
			}).
			Mark(ierr.ErrStateConflict)
	}
	return nil
}

// requireRespondable rejects response mutations on templates and on audits
// whose lifecycle has closed.
func requireRespondable(a *audit.Audit) error {
	if a.IsTemplate {
		return ierr.NewError("templates do not accept responses").
			WithHint("Instantiate the template into an audit before responding").
			WithReportableDetails(map[string]any{
				"audit_id": a.ID,
			}).
			Mark(ierr.ErrStateConflict)
	}
	return requireEditable(a)
}

// requireLifecycle rejects status mutations on templates, which never leave
// draft.
func requireLifecycle(a *audit.Audit) error {
	if a.IsTemplate {
		return ierr.NewError("templates have no lifecycle").
			WithHint("Templates stay in draft and cannot change status").
			WithReportableDetails(map[string]any{
				"audit_id": a.ID,
			}).
			Mark(ierr.ErrStateConflict)
	}
	return nil
}
