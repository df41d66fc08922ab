// handlers/community_routes.go
package handlers

import (
	"reputation-badge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCommunityRoutes(app *fiber.App, accounts *services.AccountService, leaderboard *services.LeaderboardService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		entries, err := leaderboard.Top(c.QueryInt("limit", 100))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(entries)
	})

	app.Get("/users/search", accounts.SearchAccounts)
}
