package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/auth"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
)

const (
	ContextEmployeeID   = "employeeID"
	ContextEmployeeName = "employeeName"
	ContextUserRole     = "userRole"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Faça login para continuar.")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(secret, raw)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Sessão inválida ou expirada.")
			c.Abort()
			return
		}

		c.Set(ContextEmployeeID, claims.Subject)
		c.Set(ContextEmployeeName, claims.Name)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// bearerToken reads the Authorization header, or the token query parameter
// for WebSocket upgrades where browsers cannot set headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return c.Query("token")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireRole lets through employees whose role covers role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasPermission(c.GetString(ContextUserRole), role) {
			httperr.Forbidden(c, "forbidden", "Você não tem permissão para esta ação.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func EmployeeID(c *gin.Context) string {
	return c.GetString(ContextEmployeeID)
}
