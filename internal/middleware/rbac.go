package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"online-voting/internal/domain"
)

// RoleResolver looks up the role record of a signed-in user.
type RoleResolver interface {
	GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}

// LoadRole resolves the current user's role once per request. Users without
// a role record are voters.
func LoadRole(resolver RoleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetCurrentUserID(c)
		if userID == uuid.Nil {
			return Unauthorized("User not found")
		}
		role, err := resolver.GetRole(c.UserContext(), userID)
		if err != nil {
			return err
		}
		c.Locals(RoleContextKey, role)
		return c.Next()
	}
}

func RequireRole(requiredRole domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(RoleContextKey).(domain.Role)
		if !ok {
			return Unauthorized("User not found")
		}
		if role != requiredRole {
			return Forbidden("Insufficient permissions for this operation")
		}
		return c.Next()
	}
}

func GetCurrentRole(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals(RoleContextKey).(domain.Role)
	return role
}

func IsAdmin(c *fiber.Ctx) bool {
	return GetCurrentRole(c) == domain.RoleAdmin
}
