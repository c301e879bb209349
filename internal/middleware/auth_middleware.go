package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/variant-reservation/internal/errors"
	"github.com/ikkim/variant-reservation/pkg/util"
)

// Context keys for the authenticated operator
const (
	OperatorKey     = "operator"
	OperatorRoleKey = "operator_role"
)

// Roles allowed on the stock ingress routes.
const (
	RoleStockWriter = "stock_writer"
	RoleAdmin       = "admin"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the bearer token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(OperatorKey, claims.Subject)
		c.Set(OperatorRoleKey, claims.Role)

		log.Debug("Operator authenticated", map[string]interface{}{
			"operator": claims.Subject,
			"role":     claims.Role,
		})

		c.Next()
	}
}

// RequireRole lets the request through only for one of roles.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role := c.GetString(OperatorRoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		operator, _ := GetOperator(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"operator":       operator,
			"role":           role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.Forbidden(c, "Not allowed to change stock")
		c.Abort()
	}
}

// GetOperator returns the subject of the validated token.
func GetOperator(c *gin.Context) (string, bool) {
	operator := c.GetString(OperatorKey)
	return operator, operator != ""
}
