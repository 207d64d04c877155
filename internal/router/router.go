package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/admisia-go-api/internal/config"
	"github.com/noah-isme/admisia-go-api/internal/handler"
	"github.com/noah-isme/admisia-go-api/internal/middleware"
	"github.com/noah-isme/admisia-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ApplicationHandler *handler.ApplicationHandler
	AdmissionHandler   *handler.AdmissionHandler
	PaymentHandler     *handler.PaymentHandler
	AdminHandler       *handler.AdminHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	staffOnly := middleware.RequireRole("staff", "admin")

	// Applicant self-service: ownership is enforced in the service layer, so
	// staff can read through the same routes.
	if deps.ApplicationHandler != nil {
		applications := app.Group("/api/v1/applications", jwtMiddleware)
		deps.ApplicationHandler.Register(applications)
	}

	// Staff console transitions and offer issuance.
	if deps.AdmissionHandler != nil {
		staff := app.Group("/api/v1/applications", jwtMiddleware, staffOnly)
		deps.AdmissionHandler.Register(staff)
	}

	if deps.PaymentHandler != nil {
		// The gateway webhook authenticates like any caller; manual
		// reconciliation is staff-only.
		payments := app.Group("/api/v1/payments", jwtMiddleware, middleware.RateLimit("payments", 60, time.Minute))
		deps.PaymentHandler.Register(payments)

		manual := app.Group("/api/v1/payments", jwtMiddleware, staffOnly)
		deps.PaymentHandler.RegisterManual(manual)

		offers := app.Group("/api/v1/offers", jwtMiddleware, staffOnly)
		deps.PaymentHandler.RegisterOfferPayments(offers)
	}

	if deps.AdminHandler != nil {
		admin := app.Group("/api/v1/admin", jwtMiddleware, staffOnly)
		deps.AdminHandler.Register(admin)
	}
}
