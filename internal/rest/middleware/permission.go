package middleware

import (
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/gin-gonic/gin"
)

// PermissionMiddleware gates routes on the caller's resolved permission set
type PermissionMiddleware struct {
	logger *logger.Logger
}

// NewPermissionMiddleware creates a new permission middleware instance
func NewPermissionMiddleware(logger *logger.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		logger: logger,
	}
}

// RequirePermission returns a middleware that checks for a named permission.
// This is called explicitly in route definitions.
func (pm *PermissionMiddleware) RequirePermission(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if !types.HasPermission(ctx, name) {
			pm.logger.Infow("permission denied",
				"user_id", types.GetUserID(ctx),
				"permission", name,
				"path", c.Request.URL.Path,
			)

			c.Abort()
			_ = c.Error(ierr.NewError("permission denied").
				WithHintf("You do not have the %s permission", name).
				Mark(ierr.ErrPermissionDenied))
			return
		}

		c.Next()
	}
}
