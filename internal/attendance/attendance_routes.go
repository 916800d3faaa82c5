package attendance

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"hrflow/internal/middleware"
	"hrflow/internal/rbac"
	"hrflow/internal/token"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	tokens token.Service,
	enforcer *casbin.Enforcer,
) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.Authenticate(tokens))
	{
		attendances.POST("/:employeeId/clock-in",
			rbac.Authorize(enforcer, "attendance", "write"),
			middleware.RequireSelf("employeeId"),
			handler.ClockIn,
		)
		attendances.POST("/:employeeId/clock-out",
			rbac.Authorize(enforcer, "attendance", "write"),
			middleware.RequireSelf("employeeId"),
			handler.ClockOut,
		)
		attendances.GET("/:employeeId",
			rbac.Authorize(enforcer, "attendance", "read"),
			middleware.RequireSelf("employeeId"),
			handler.ListForEmployee,
		)
	}
}
