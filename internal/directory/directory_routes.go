package directory

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
	employees := r.Group("/employees")
	employees.Use(middleware.Authenticate(tokens))
	{
		employees.POST("", rbac.Authorize(enforcer, "directory", "write"), handler.Create)
		employees.GET("/:id", handler.GetByID)
		employees.GET("/:id/manager", handler.ManagerOf)
		employees.GET("/under-manager/:managerId", middleware.RequireSelf("managerId"), handler.EmployeesUnderManager)
		employees.GET("/ids", handler.AllEmployeeIDs)
	}
}
