package leaverequest

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
	requests := r.Group("/leave-requests")
	requests.Use(middleware.Authenticate(tokens))
	{
		requests.POST("/:employeeId",
			rbac.Authorize(enforcer, "leave", "submit"),
			middleware.RequireSelf("employeeId"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.PATCH("/:employeeId/status",
			rbac.Authorize(enforcer, "leave", "approve"),
			handler.Resolve,
		)
		requests.DELETE("/:employeeId/:requestId",
			rbac.Authorize(enforcer, "leave", "submit"),
			middleware.RequireSelf("employeeId"),
			handler.Cancel,
		)
		requests.GET("/employee/:employeeId",
			rbac.Authorize(enforcer, "leave", "read"),
			middleware.RequireSelf("employeeId"),
			handler.ListForEmployee,
		)
		requests.GET("/manager/:managerId",
			rbac.Authorize(enforcer, "leave", "approve"),
			middleware.RequireSelf("managerId"),
			handler.ListForManager,
		)
		requests.GET("/range",
			rbac.Authorize(enforcer, "leave", "approve"),
			handler.ListInDateRange,
		)
	}
}
