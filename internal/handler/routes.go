package handler

import (
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	tenantHandler *TenantHandler,
	billingHandler *BillingHandler,
	visitorHandler *VisitorHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
) {
	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// API v1
	api := app.Group("/api/v1")

	// Public surface: registration, checkout handoff, provider webhook,
	// visitor tracking from customer sites
	api.Post("/tenants", tenantHandler.CreateTenant)
	api.Post("/billing/checkout", billingHandler.Checkout)
	api.Post("/billing/webhook", billingHandler.Webhook)
	api.Post("/billing/reconcile", billingHandler.Reconcile)
	api.Post("/visitors/:tenantID", visitorHandler.Record)

	// Dashboard surface (requires a verified ID token)
	tenants := api.Group("/tenants", authMiddleware)
	tenants.Get("/:id", tenantHandler.GetTenant)
	tenants.Get("/:id/members", tenantHandler.ListMembers)
	tenants.Get("/:id/conversations", tenantHandler.ListConversations)
	tenants.Get("/:id/tickets", tenantHandler.ListTickets)
	tenants.Get("/:id/visitors", visitorHandler.Stats)

	billing := api.Group("/billing", authMiddleware)
	billing.Get("/payments/sync", billingHandler.SyncPayments)
	billing.Get("/tier-comparison", billingHandler.TierComparison)
}
