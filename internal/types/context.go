package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID   ContextKey = "ctx_request_id"
	CtxUserID      ContextKey = "ctx_user_id"
	CtxPermissions ContextKey = "ctx_permissions"

	// DefaultUserID is used when no authenticated user is present in the context
	DefaultUserID = "00000000-0000-0000-0000-000000000000"

	// Caller context headers; the gateway in front of the engine resolves the
	// user and their permission set and forwards them per request
	HeaderRequestID   = "X-Request-ID"
	HeaderUserID      = "X-User-ID"
	HeaderPermissions = "X-Permissions"
)

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetPermissions returns the permission set resolved for the caller.
// The set is resolved once per request by the request middleware; the
// engine never re-resolves it mid-request.
func GetPermissions(ctx context.Context) []string {
	if perms, ok := ctx.Value(CtxPermissions).([]string); ok {
		return perms
	}
	return []string{}
}

// HasPermission checks whether the caller context carries the given permission
func HasPermission(ctx context.Context, name string) bool {
	for _, p := range GetPermissions(ctx) {
		if p == name {
			return true
		}
	}
	return false
}

// SetUserID sets the user ID in the context
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

// SetPermissions sets the caller's resolved permission set in the context
func SetPermissions(ctx context.Context, perms []string) context.Context {
	return context.WithValue(ctx, CtxPermissions, perms)
}
