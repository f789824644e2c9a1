package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

func TestRespondStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, respondStatus(domain.NewValidationError("bad input")))
	assert.Equal(t, fiber.StatusNotFound, respondStatus(domain.NewNotFoundError("Tenant not found")))
	assert.Equal(t, fiber.StatusInternalServerError, respondStatus(domain.NewExternalServiceError("identity", errors.New("down"))))
	assert.Equal(t, fiber.StatusInternalServerError, respondStatus(errors.New("anything else")))
}

func TestRespondStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("step reconcile: %w", domain.NewNotFoundError("User not found"))
	assert.Equal(t, fiber.StatusNotFound, respondStatus(wrapped))
}
