package middleware

import (
	"context"
	"strings"

	"github.com/auditflow/auditflow/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// CallerContextMiddleware installs the caller identity and the permission
// set resolved by the upstream gateway. The engine never re-resolves
// permissions mid-request; what arrives here is what every layer sees.
func CallerContextMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.GetHeader(types.HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}
	ctx = context.WithValue(ctx, types.CtxUserID, userID)

	perms := []string{}
	if raw := c.GetHeader(types.HeaderPermissions); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				perms = append(perms, p)
			}
		}
	}
	ctx = context.WithValue(ctx, types.CtxPermissions, perms)

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
