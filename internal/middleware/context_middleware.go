package middleware

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped zap logger carrying the request id
// and the acting principal (admin user or device) to the request context.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = c.GetHeader("X-Request-ID")
			if rid == "" {
				rid = uuid.New().String()
			}
			c.Header("X-Request-ID", rid)
		}

		actor := c.GetString("user_id")
		if actor == "" {
			actor = c.GetString("device_id")
		}

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("actor_id", actor),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithActorID(ctx, actor)
		ctx = contextutil.WithLogger(ctx, reqLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
