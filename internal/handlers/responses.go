package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	backoffice "github.com/bohemiyan/backoffice"
)

// fail maps service errors to the JSON error envelope.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, backoffice.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, backoffice.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
