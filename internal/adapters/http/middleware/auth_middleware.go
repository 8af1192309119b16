package middleware

import (
	"errors"
	"strings"

	"rentvideo/internal/config"
	"rentvideo/internal/core/domain"
	"rentvideo/internal/pkg/jwt"
	"rentvideo/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Try to get token from cookie first
		accessToken := c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set caller info in context
		c.Locals("userID", claims.UserID)
		c.Locals("principal", &domain.Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
			Roles:    claims.Roles,
		})

		return c.Next()
	}
}

// RequireRoles creates role-based authorization middleware. The request
// passes when the token carries at least one of the given roles.
func RequireRoles(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedRoles {
			if principal.HasRole(allowed) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RequireRoles(domain.RoleAdmin)
}

// GetPrincipal extracts the authenticated caller from the context
func GetPrincipal(c *fiber.Ctx) (*domain.Principal, bool) {
	principal, ok := c.Locals("principal").(*domain.Principal)
	return principal, ok
}

// GetUserID extracts the authenticated user's ID from the context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	principal, ok := GetPrincipal(c)
	if !ok {
		return 0, false
	}
	return principal.UserID, true
}

// IsAdmin reports whether the authenticated user carries the ADMIN role
func IsAdmin(c *fiber.Ctx) bool {
	principal, ok := GetPrincipal(c)
	return ok && principal.IsAdmin()
}
