package types

// Permission names resolved once per request by the request middleware.
// The engine assumes checks already ran before its operations are invoked;
// the HTTP layer enforces them via middleware.
const (
	PermissionAuditView    = "audits.view"
	PermissionAuditEdit    = "audits.edit"
	PermissionAuditRespond = "audits.respond"
	PermissionAuditDelete  = "audits.delete"
	PermissionAuditArchive = "audits.archive"
)
