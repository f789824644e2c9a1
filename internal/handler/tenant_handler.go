package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biz-admin-carlo/bizchat-server/internal/service"
	"github.com/biz-admin-carlo/bizchat-server/pkg/validator"
)

type TenantHandler struct {
	provisioning  *service.ProvisioningService
	tenantService *service.TenantService
	validator     *validator.Validator
}

func NewTenantHandler(
	provisioning *service.ProvisioningService,
	tenantService *service.TenantService,
	validator *validator.Validator,
) *TenantHandler {
	return &TenantHandler{
		provisioning:  provisioning,
		tenantService: tenantService,
		validator:     validator,
	}
}

// CreateTenant registers a company together with its admin account
// POST /api/v1/tenants
func (h *TenantHandler) CreateTenant(c *fiber.Ctx) error {
	var req service.RegisterTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	result, err := h.provisioning.RegisterTenant(c.Context(), req)
	if err != nil {
		status := statusForRegistrationError(err)
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"id":       result.TenantID,
		"adminUid": result.AdminUID,
	})
}

// GetTenant returns a tenant profile with its subscription
// GET /api/v1/tenants/:id
func (h *TenantHandler) GetTenant(c *fiber.Ctx) error {
	overview, err := h.tenantService.GetTenant(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(overview)
}

// ListMembers returns the users belonging to a tenant
// GET /api/v1/tenants/:id/members
func (h *TenantHandler) ListMembers(c *fiber.Ctx) error {
	members, err := h.tenantService.ListMembers(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"members": members,
		"total":   len(members),
	})
}

// ListConversations returns a tenant's newest chat threads
// GET /api/v1/tenants/:id/conversations?limit=50
func (h *TenantHandler) ListConversations(c *fiber.Ctx) error {
	conversations, err := h.tenantService.ListConversations(c.Context(), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

// ListTickets returns a tenant's newest support tickets
// GET /api/v1/tenants/:id/tickets?limit=50
func (h *TenantHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.tenantService.ListTickets(c.Context(), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"tickets": tickets,
		"total":   len(tickets),
	})
}

// statusForRegistrationError keeps the create-tenant endpoint's historical
// {success:false} body while still picking a sensible status code.
func statusForRegistrationError(err error) int {
	switch respondStatus(err) {
	case fiber.StatusBadRequest:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
