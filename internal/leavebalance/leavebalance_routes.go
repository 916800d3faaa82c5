package leavebalance

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
	balances := r.Group("/leave-balances")
	balances.Use(middleware.Authenticate(tokens))
	{
		balances.GET("/employee/:employeeId",
			rbac.Authorize(enforcer, "balance", "read"),
			middleware.RequireSelf("employeeId"),
			handler.GetAll)
		balances.GET("/employee/:employeeId/type/:type",
			rbac.Authorize(enforcer, "balance", "read"),
			middleware.RequireSelf("employeeId"),
			handler.GetByType)
		balances.GET("/manager/:managerId",
			rbac.Authorize(enforcer, "balance", "read_team"),
			middleware.RequireSelf("managerId"),
			handler.TeamBalances)
	}
}
