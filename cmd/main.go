package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/biz-admin-carlo/bizchat-server/internal/config"
	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/internal/handler"
	"github.com/biz-admin-carlo/bizchat-server/internal/handler/middleware"
	fsrepo "github.com/biz-admin-carlo/bizchat-server/internal/repository/firestore"
	"github.com/biz-admin-carlo/bizchat-server/internal/service"
	"github.com/biz-admin-carlo/bizchat-server/pkg/billing"
	"github.com/biz-admin-carlo/bizchat-server/pkg/email"
	"github.com/biz-admin-carlo/bizchat-server/pkg/identity"
	"github.com/biz-admin-carlo/bizchat-server/pkg/ledger"
	"github.com/biz-admin-carlo/bizchat-server/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize Firebase clients (identity + document store)
	authClient, firestoreClient, err := initFirebase(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer func() {
		if err := firestoreClient.Close(); err != nil {
			log.Printf("Error closing Firestore client: %v", err)
		}
	}()
	log.Println("✓ Firebase clients initialized")

	// Initialize Redis client
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()
	log.Println("✓ Redis connection established")

	// Initialize Stripe provider
	billingProvider, err := billing.NewStripeProvider(billing.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Stripe: %v", err)
	}
	log.Println("✓ Stripe client initialized")

	// Initialize validator
	validate := validator.NewValidator()

	// Initialize repositories
	tenantRepo := fsrepo.NewTenantRepository(firestoreClient)
	userRepo := fsrepo.NewUserRepository(firestoreClient)

	// Initialize identity service
	identityService := identity.NewFirebaseService(authClient)

	// Initialize reconciliation ledger
	paymentLedger := ledger.NewPaymentLedger(redisClient)

	// Initialize email service
	var emailService email.EmailService
	if cfg.Email.Enabled {
		emailService, err = email.NewResendEmailService(&email.EmailConfig{
			APIKey:       cfg.Email.APIKey,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
			DashboardURL: cfg.Email.DashboardURL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize email service: %v", err)
			log.Println("Email functionality will be disabled")
			emailService = nil
		} else {
			log.Println("✓ Email service initialized (Resend)")
		}
	} else {
		log.Println("ℹ Email service disabled (set EMAIL_ENABLED=true to enable)")
	}

	// Initialize services
	provisioningService := service.NewProvisioningService(tenantRepo, userRepo, identityService, emailService)
	paymentService := service.NewPaymentService(
		userRepo,
		tenantRepo,
		billingProvider,
		paymentLedger,
		emailService,
		map[domain.Tier]string{
			domain.TierBase:       cfg.Stripe.BasePriceID,
			domain.TierWhiteLabel: cfg.Stripe.WhiteLabelPriceID,
		},
		cfg.Stripe.SyncLimit,
	)
	tenantService := service.NewTenantService(tenantRepo, userRepo)

	// Initialize handlers
	tenantHandler := handler.NewTenantHandler(provisioningService, tenantService, validate)
	billingHandler := handler.NewBillingHandler(paymentService, validate)
	visitorHandler := handler.NewVisitorHandler(tenantService)
	healthHandler := handler.NewHealthHandler()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BizChat Server v1.0",
		ErrorHandler: customErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Setup global middlewares
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CORSMiddleware(cfg))

	// Setup routes
	authMiddleware := middleware.AuthMiddleware(identityService)
	handler.SetupRoutes(
		app,
		tenantHandler,
		billingHandler,
		visitorHandler,
		healthHandler,
		authMiddleware,
	)

	// Graceful shutdown
	shutdownSignal, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := app.Listen(addr); err != nil {
			log.Printf("❌ Server failed to start: %v", err)
			stop()
		}
	}()

	// Wait for interrupt signal
	<-shutdownSignal.Done()
	log.Println("⏳ Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server stopped")
}

// initFirebase builds the shared Firebase app and returns the Auth and
// Firestore clients
func initFirebase(ctx context.Context, cfg *config.Config) (*auth.Client, *firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return authClient, firestoreClient, nil
}

// initRedis initializes Redis client and verifies connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Printf("Error closing Redis after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// customErrorHandler handles Fiber errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error handling request [%s %s]: %v", c.Method(), c.Path(), err)

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
