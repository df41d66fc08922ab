// handlers/reputation_routes.go
package handlers

import (
	"reputation-badge-system/middleware"
	"reputation-badge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReputationRoutes(app *fiber.App, engine *services.RewardEngine, eventService *services.EventService, authClient *services.AuthServiceClient) {
	// 🔐 Secured routes — require user context from the gateway
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/checkin", func(c *fiber.Ctx) error {
		account := c.Locals("user_id").(string)
		rep, err := engine.CheckIn(account)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"points":      rep.Points,
			"level":       rep.Level,
			"streak_days": rep.StreakDays,
		})
	})

	securedGroup.Post("/user/action", func(c *fiber.Ctx) error {
		account := c.Locals("user_id").(string)
		var req struct {
			Label string `json:"label"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		rep, err := engine.PerformAction(account, req.Label)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"points": rep.Points,
			"level":  rep.Level,
		})
	})

	securedGroup.Post("/user/endorse", func(c *fiber.Ctx) error {
		account := c.Locals("user_id").(string)
		var req struct {
			Target string `json:"target"`
		}
		if err := c.BodyParser(&req); err != nil || req.Target == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target is required"})
		}
		if err := engine.EndorseUser(account, req.Target); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"endorsed": req.Target})
	})

	securedGroup.Get("/user/profile", func(c *fiber.Ctx) error {
		account := c.Locals("user_id").(string)
		profile, err := engine.GetUserProfile(account)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(profile)
	})

	securedGroup.Get("/user/events", func(c *fiber.Ctx) error {
		account := c.Locals("user_id").(string)
		events, err := eventService.RecentEvents(account, c.QueryInt("limit", 50))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(events)
	})

	// Live event stream — query-token auth, EventSource can't send headers
	app.Get("/user/events/stream", middleware.SSEAuthMiddleware(authClient), eventService.StreamUserEventsSSE)

	// Public read of any account's profile
	app.Get("/users/:account/profile", func(c *fiber.Ctx) error {
		profile, err := engine.GetUserProfile(c.Params("account"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(profile)
	})
}
