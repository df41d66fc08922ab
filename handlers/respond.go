package handlers

import (
	"errors"

	"reputation-badge-system/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyActionLabel):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInsufficientReputation),
		errors.Is(err, services.ErrBadgeLocked),
		errors.Is(err, services.ErrNonTransferable),
		errors.Is(err, services.ErrSelfEndorsement):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrAlreadyCheckedIn),
		errors.Is(err, services.ErrDuplicateEndorsement),
		errors.Is(err, services.ErrAlreadyMinted):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrBadgeNotFound),
		errors.Is(err, services.ErrTokenNotFound),
		errors.Is(err, services.ErrBadgeOutOfRange):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}
