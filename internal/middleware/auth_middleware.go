package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hrflow/internal/shared/apperror"
	"hrflow/internal/shared/contextutil"
	"hrflow/internal/shared/response"
	"hrflow/internal/token"
	tokenerrors "hrflow/internal/token/errors"
)

const (
	KeyEmployeeID = "employee_id"
	KeyRole       = "role"
	KeyEmail      = "email"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return ""
	}
	return tokenString
}

func bindIdentity(c *gin.Context, tokens token.Service, tokenString string) error {
	if !tokens.Validate(tokenString) {
		return tokenerrors.ErrMalformedToken
	}

	employeeID, err := tokens.Extract(tokenString, token.ClaimEmployeeID)
	if err != nil {
		return err
	}
	role, err := tokens.Extract(tokenString, token.ClaimRole)
	if err != nil {
		return err
	}
	email, err := tokens.Extract(tokenString, token.ClaimEmail)
	if err != nil {
		return err
	}

	c.Set(KeyEmployeeID, employeeID)
	c.Set(KeyRole, role)
	c.Set(KeyEmail, email)

	ctx := contextutil.WithIdentity(c.Request.Context(), contextutil.Identity{
		EmployeeID: employeeID,
		Role:       role,
		Email:      email,
	})
	c.Request = c.Request.WithContext(ctx)
	return nil
}

// Authenticate is the identity gate for protected routes: it requires a
// valid bearer token and binds the caller identity to the request context.
func Authenticate(tokens token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found", nil)
			c.Abort()
			return
		}

		if err := bindIdentity(c, tokens, tokenString); err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuthenticate binds identity when a valid token is present but
// lets anonymous requests through. Used on public routes.
func OptionalAuthenticate(tokens token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if err := bindIdentity(c, tokens, tokenString); err != nil {
				httpErr := apperror.ToHTTP(err)
				response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// RequireSelf rejects callers whose authenticated employee id differs from
// the id named by the given path parameter. 401 when identity is absent,
// 403 on mismatch; both are terminal for the request.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetString(KeyEmployeeID)
		if callerID == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, apperror.ErrUnauthorized.Message, nil)
			c.Abort()
			return
		}
		if callerID != c.Param(param) {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, apperror.ErrForbidden.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
