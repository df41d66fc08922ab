// handlers/badge_routes.go
package handlers

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"reputation-badge-system/middleware"
	"reputation-badge-system/services"
	"reputation-badge-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupBadgeRoutes(app *fiber.App, catalog *services.CatalogService) {
	// Public catalog reads
	app.Get("/badges", func(c *fiber.Ctx) error {
		badges, err := catalog.ListBadges()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(badges)
	})

	app.Get("/badges/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge index"})
		}
		badge, err := catalog.GetBadgeInfo(index)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(badge)
	})

	// Admin catalog mutations — capability comes from the gateway role header
	adminGroup := app.Group("/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/badges", func(c *fiber.Ctx) error {
		actor := actorFromCtx(c)

		name := c.FormValue("name")
		description := c.FormValue("description")
		metadataRef := c.FormValue("metadata_ref")
		requiredPoints, err := strconv.ParseInt(c.FormValue("required_points", "0"), 10, 64)
		if err != nil || requiredPoints < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid required_points"})
		}
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}

		// Optional artwork upload: the stored URL becomes the metadata ref.
		if icon, err := c.FormFile("icon"); err == nil {
			key := fmt.Sprintf("badges/%s%s", uuid.NewString(), filepath.Ext(icon.Filename))
			url, upErr := utils.StoreArtwork(icon, key)
			if upErr != nil {
				log.Printf("Artwork upload failed: %v", upErr)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store badge artwork"})
			}
			metadataRef = url
		}

		index, err := catalog.CreateBadge(actor, name, description, requiredPoints, metadataRef)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"badge_index": index})
	})

	adminGroup.Patch("/badges/:index/uri", func(c *fiber.Ctx) error {
		actor := actorFromCtx(c)

		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge index"})
		}
		var req struct {
			MetadataRef string `json:"metadata_ref"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := catalog.UpdateMetadataRef(actor, index, req.MetadataRef); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"badge_index": index, "metadata_ref": req.MetadataRef})
	})
}

func actorFromCtx(c *fiber.Ctx) services.Actor {
	account, _ := c.Locals("user_id").(string)
	isAdmin, _ := c.Locals("is_admin").(bool)
	return services.Actor{Account: account, Admin: isAdmin}
}
