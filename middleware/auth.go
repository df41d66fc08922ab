// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const AdminRole = "admin"

// UserContextMiddleware extracts the identity and roles the Gateway resolved
// into X-User-ID / X-User-Roles. Routes under /user/ and /admin/ require an
// identity; /admin/ additionally requires the admin role, which handlers pick
// up from the "is_admin" local as an explicit capability.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		path := c.Path()
		isSecured := strings.HasPrefix(path, "/user/") || strings.HasPrefix(path, "/admin/")
		// The SSE stream authenticates via query token instead (see sse_auth.go).
		if path == "/user/events/stream" {
			isSecured = false
		}
		if isSecured && userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		isAdmin := false
		for _, r := range strings.Split(rolesStr, ",") {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			roles = append(roles, r)
			if r == AdminRole {
				isAdmin = true
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)
		c.Locals("is_admin", isAdmin)

		return c.Next()
	}
}
