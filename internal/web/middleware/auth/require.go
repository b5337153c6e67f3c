package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/routes"
)

// RequireUser rejects requests without a signed in user with 401.
// The middleware forwards unsafe methods, handlers of such routes
// guard themselves with RequireUser or RequirePermission.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			log.Warn().Str("path", c.Path()).Str("method", c.Method()).Msg("no signed in user")

			return fiber.ErrUnauthorized
		}

		return c.Next()
	}
}

// RequirePermission rejects requests of users holding none of perms
// with 403. super_admin always passes.
func RequirePermission(perms ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			log.Warn().Str("path", c.Path()).Str("method", c.Method()).Msg("no signed in user")

			return fiber.ErrUnauthorized
		}

		if u.Role == routes.RoleSuperAdmin || u.HasAny(perms...) {
			return c.Next()
		}

		log.Warn().Str("user_id", u.ID).Strs("permissions", perms).Str("path", c.Path()).
			Msg("user lacks required permission")

		return fiber.ErrForbidden
	}
}

// RequireAllPermissions is RequirePermission with AND semantics.
func RequireAllPermissions(perms ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}

		if u.Role == routes.RoleSuperAdmin || u.HasAll(perms...) {
			return c.Next()
		}

		log.Warn().Str("user_id", u.ID).Strs("permissions", perms).Str("path", c.Path()).
			Msg("user lacks required permissions")

		return fiber.ErrForbidden
	}
}
