package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/internal/service"
	"github.com/biz-admin-carlo/bizchat-server/pkg/validator"
)

type BillingHandler struct {
	paymentService *service.PaymentService
	validator      *validator.Validator
}

func NewBillingHandler(paymentService *service.PaymentService, validator *validator.Validator) *BillingHandler {
	return &BillingHandler{
		paymentService: paymentService,
		validator:      validator,
	}
}

// ReconcileRequest is the redirect-path reconciliation payload. Field names
// match what the payment-success page sends.
type ReconcileRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	TenantID  string `json:"tenantId" validate:"required"`
	Tier      string `json:"tier" validate:"omitempty,oneof=base white-label"`
}

// CheckoutRequest opens a hosted checkout for a tenant and paid tier.
type CheckoutRequest struct {
	TenantID string `json:"tenantId" validate:"required"`
	Tier     string `json:"tier" validate:"required,oneof=base white-label"`
}

// SyncPayments pulls recent payments from the billing provider and verifies
// them against known users; the self-healing sweep
// GET /api/v1/billing/payments/sync
func (h *BillingHandler) SyncPayments(c *fiber.Ctx) error {
	payments, summary, err := h.paymentService.SyncPayments(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"payments": payments,
		"summary":  summary,
	})
}

// Reconcile marks a tenant's admin and the tenant itself as paid
// POST /api/v1/billing/reconcile
func (h *BillingHandler) Reconcile(c *fiber.Ctx) error {
	var req ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	result, err := h.paymentService.ReconcileByTenant(c.Context(), req.PaymentID, req.TenantID, domain.Tier(req.Tier))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}

// TierComparison returns the user's and their tenant's stored tiers
// GET /api/v1/billing/tier-comparison?email=
func (h *BillingHandler) TierComparison(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "email query parameter is required",
		})
	}

	comparison, err := h.paymentService.CompareTiers(c.Context(), email)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comparison)
}

// Checkout creates a hosted checkout session
// POST /api/v1/billing/checkout
func (h *BillingHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	session, err := h.paymentService.CreateCheckout(c.Context(), req.TenantID, domain.Tier(req.Tier))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// Webhook receives billing provider events; completed checkouts activate the
// purchased tier
// POST /api/v1/billing/webhook
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	completed, err := h.paymentService.ParseWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid webhook payload",
		})
	}

	if err := h.paymentService.HandleCheckoutCompleted(c.Context(), completed); err != nil {
		// Non-2xx makes the provider retry the delivery, which is safe
		// because reconciliation is idempotent.
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"received": true,
	})
}
