package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

// respondStatus picks the HTTP status for a domain error: validation 400,
// missing entities 404, everything else (including upstream failures) 500.
func respondStatus(err error) int {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return fiber.StatusNotFound
	}

	return fiber.StatusInternalServerError
}

// respondError converts a domain error into the JSON error body. Messages of
// validation and not-found errors pass through; unexpected errors are logged
// and masked.
func respondError(c *fiber.Ctx, err error) error {
	status := respondStatus(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("[HANDLER] %s %s failed: %v", c.Method(), c.Path(), err)

		var externalErr *domain.ExternalServiceError
		if errors.As(err, &externalErr) {
			message = "Upstream service unavailable"
		} else {
			message = "Internal server error"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
