package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/internal/service"
)

type VisitorHandler struct {
	tenantService *service.TenantService
}

func NewVisitorHandler(tenantService *service.TenantService) *VisitorHandler {
	return &VisitorHandler{tenantService: tenantService}
}

// Record logs a site visit from the chat widget and bumps the tenant's
// visitor counter; the body is optional
// POST /api/v1/visitors/:tenantID
func (h *VisitorHandler) Record(c *fiber.Ctx) error {
	var entry domain.VisitorLog
	// An empty or malformed body still counts the visit.
	_ = c.BodyParser(&entry)
	if entry.UserAgent == "" {
		entry.UserAgent = c.Get("User-Agent")
	}

	if err := h.tenantService.RecordVisitor(c.Context(), c.Params("tenantID"), &entry); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"recorded": true,
	})
}

// Stats returns the tenant's visitor counter and recent events
// GET /api/v1/tenants/:id/visitors?limit=50
func (h *VisitorHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.tenantService.VisitorStats(c.Context(), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
