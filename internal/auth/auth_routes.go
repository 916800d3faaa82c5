package auth

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
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/register",
			middleware.Authenticate(tokens),
			rbac.Authorize(enforcer, "directory", "write"),
			handler.Register,
		)
	}
}
