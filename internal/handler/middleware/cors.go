package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/biz-admin-carlo/bizchat-server/internal/config"
)

// CORSMiddleware configures CORS for the marketing site and dashboard
// origins. The visitor endpoint is hit from customer sites, so development
// environments allow everything.
func CORSMiddleware(cfg *config.Config) fiber.Handler {
	allowOrigins := strings.Join(cfg.CORS.AllowedOrigins, ",")
	if cfg.Server.Environment == "development" {
		allowOrigins = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	})
}
