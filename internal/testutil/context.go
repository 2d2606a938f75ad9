package testutil

import (
	"context"

	"github.com/auditflow/auditflow/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = context.WithValue(ctx, types.CtxPermissions, []string{
		types.PermissionAuditView,
		types.PermissionAuditEdit,
		types.PermissionAuditRespond,
		types.PermissionAuditDelete,
		types.PermissionAuditArchive,
	})
	return ctx
}
