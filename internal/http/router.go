package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/config"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/handlers"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/middleware"
	"go.uber.org/zap"
)

// Handlers groups everything SetupRouter mounts.
type Handlers struct {
	Auth                 *handlers.AuthHandler
	Campaigns            *handlers.CampaignHandler
	CampaignApplications *handlers.CampaignApplicationHandler
	Templates            *handlers.TemplateHandler
	Applications         *handlers.ApplicationHandler
	Meta                 *handlers.MetaHandler
	WSHub                *handlers.WSHub // optional
}

// NewApp builds the fiber app with the envelope error handler. Routing is
// non-strict, so every route answers with and without a trailing slash.
func NewApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "ugc-marketplace",
		BodyLimit:    cfg.MaxRequestBodySize,
		ErrorHandler: handlers.ErrorHandler(log),
	})
}

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	m *metrics.Registry,
	authn middleware.Authenticator,
	h Handlers,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", m.Handler())
	app.Static(cfg.MediaURL, cfg.MediaRoot)

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Meta (public)
	api.Get("/meta/categories", h.Meta.GetCategories)
	api.Get("/meta/content-types", h.Meta.GetContentTypes)
	api.Get("/meta/visibilities", h.Meta.GetVisibilities)
	api.Get("/meta/application-statuses", h.Meta.GetApplicationStatuses)

	// Auth (public)
	api.Post("/auth/register", h.Auth.Register)
	api.Post("/auth/login", h.Auth.Login)
	api.Post("/auth/token/refresh", h.Auth.Refresh)
	api.Post("/auth/password/reset", h.Auth.PasswordReset)
	api.Post("/auth/password/reset/confirm", h.Auth.PasswordResetConfirm)

	protected := api.Group("", middleware.AuthMiddleware(authn, log))

	// Account
	protected.Post("/auth/logout", h.Auth.Logout)
	protected.Get("/auth/me", h.Auth.Me)
	protected.Patch("/auth/me", h.Auth.UpdateMe)
	protected.Put("/auth/me", h.Auth.UpdateMe)
	protected.Post("/auth/role", h.Auth.AssignRole)
	protected.Post("/auth/password/change", h.Auth.PasswordChange)
	protected.Delete("/auth/delete", h.Auth.DeleteAccount)

	// Campaigns
	protected.Get("/campaigns", h.Campaigns.ListCampaigns)
	protected.Post("/campaigns", h.Campaigns.CreateCampaign)
	protected.Get("/campaigns/:id", h.Campaigns.GetCampaign)
	protected.Patch("/campaigns/:id", h.Campaigns.UpdateCampaign)
	protected.Put("/campaigns/:id", h.Campaigns.UpdateCampaign)
	protected.Delete("/campaigns/:id", h.Campaigns.DeleteCampaign)
	protected.Post("/campaigns/:id/upload_file", h.Campaigns.UploadFile)

	// Campaign applications
	protected.Get("/campaign-applications", h.CampaignApplications.ListApplications)
	protected.Post("/campaign-applications", h.CampaignApplications.Apply)
	protected.Get("/campaign-applications/:id", h.CampaignApplications.GetApplication)
	protected.Patch("/campaign-applications/:id/status", h.CampaignApplications.UpdateStatus)

	// Template catalog
	protected.Get("/templates", h.Templates.ListTemplates)
	protected.Get("/templates/:id", h.Templates.GetTemplate)
	protected.Get("/templates/:id/validate_parameters", h.Templates.ValidateParameters)

	// Provisioned applications
	protected.Get("/applications", h.Applications.ListApplications)
	protected.Post("/applications", h.Applications.CreateApplication)
	protected.Get("/applications/:id", h.Applications.GetApplication)
	protected.Patch("/applications/:id", h.Applications.UpdateApplication)
	protected.Put("/applications/:id", h.Applications.UpdateApplication)
	protected.Delete("/applications/:id", h.Applications.DeleteApplication)
	protected.Get("/applications/:id/catalog_view", h.Applications.CatalogView)

	// WebSocket
	if h.WSHub != nil {
		app.Use("/ws", handlers.WSUpgradeMiddleware())
		app.Get("/ws", websocket.New(h.WSHub.HandleWS))
	}
}
