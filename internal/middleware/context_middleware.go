package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrflow/internal/shared/contextutil"
)

// ContextLogger attaches a request-scoped logger carrying the request id
// and caller identity, so service and repo layers can log without knowing
// about Gin. Must run after RequestID and Authenticate.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLogger := logger.With(
			zap.String("request_id", c.GetString("request_id")),
			zap.String("employee_id", c.GetString(KeyEmployeeID)),
		)

		ctx := contextutil.WithLogger(c.Request.Context(), reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
