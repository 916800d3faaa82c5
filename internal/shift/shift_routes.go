package shift

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hrflow/internal/middleware"
	"hrflow/internal/rbac"
	"hrflow/internal/token"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	tokens token.Service,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
) {
	shifts := r.Group("/shifts")
	shifts.Use(middleware.Authenticate(tokens))
	{
		shifts.POST("/assign/:managerId/:employeeId",
			rbac.Authorize(enforcer, "shift", "assign"),
			middleware.RequireSelf("managerId"),
			middleware.Idempotency(rdb),
			handler.Assign,
		)
		shifts.POST("/requests/:employeeId",
			rbac.Authorize(enforcer, "shift", "request"),
			middleware.RequireSelf("employeeId"),
			middleware.Idempotency(rdb),
			handler.RequestChange,
		)
		shifts.PATCH("/requests/:managerId/:employeeId",
			rbac.Authorize(enforcer, "shift", "resolve"),
			middleware.RequireSelf("managerId"),
			handler.Resolve,
		)
		shifts.GET("/manager/:managerId",
			rbac.Authorize(enforcer, "shift", "read"),
			middleware.RequireSelf("managerId"),
			handler.ListForManager,
		)
		shifts.GET("/history/:employeeId",
			rbac.Authorize(enforcer, "shift", "read"),
			middleware.RequireSelf("employeeId"),
			handler.History,
		)
		shifts.GET("/history/manager/:managerId",
			rbac.Authorize(enforcer, "shift", "resolve"),
			middleware.RequireSelf("managerId"),
			handler.HistoryForManager,
		)
		shifts.GET("/range",
			rbac.Authorize(enforcer, "shift", "resolve"),
			handler.AssignmentsInDateRange,
		)
	}
}
