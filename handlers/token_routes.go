// handlers/token_routes.go
package handlers

import (
	"strconv"

	"reputation-badge-system/middleware"
	"reputation-badge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTokenRoutes(app *fiber.App, mint *services.MintService) {
	// 🔐 Minting requires the caller's identity
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/badges/:index/mint", func(c *fiber.Ctx) error {
		account := c.Locals("user_id").(string)
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge index"})
		}
		tokenID, err := mint.Mint(account, index)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token_id": tokenID})
	})

	// Public token reads
	app.Get("/tokens/:id", func(c *fiber.Ctx) error {
		tokenID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid token id"})
		}
		ref, err := mint.TokenMetadataRef(tokenID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"token_id": tokenID, "metadata_ref": ref})
	})

	app.Get("/tokens/:id/owner", func(c *fiber.Ctx) error {
		tokenID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid token id"})
		}
		owner, err := mint.OwnerOf(tokenID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"token_id": tokenID, "owner": owner})
	})

	// Tokens are soulbound: there is no transfer path in the service layer.
	// This route exists only to make the policy explicit to API clients.
	app.Post("/tokens/:id/transfer", func(c *fiber.Ctx) error {
		return fail(c, services.ErrNonTransferable)
	})

	app.Get("/users/:account/tokens", func(c *fiber.Ctx) error {
		ids, err := mint.TokensOfOwner(c.Params("account"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"account": c.Params("account"), "token_ids": ids})
	})

	app.Get("/users/:account/balance", func(c *fiber.Ctx) error {
		balance, err := mint.BalanceOf(c.Params("account"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"account": c.Params("account"), "balance": balance})
	})

	app.Get("/users/:account/badges/:index/unlocked", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge index"})
		}
		unlocked, err := mint.HasUnlockedBadge(c.Params("account"), index)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"unlocked": unlocked})
	})

	app.Get("/users/:account/badges/:index/minted", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge index"})
		}
		minted, err := mint.HasMintedBadge(c.Params("account"), index)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"minted": minted})
	})
}
