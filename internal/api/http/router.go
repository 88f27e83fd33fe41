package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/spec-kit/catalog-service/internal/api/http/handlers"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/observability"
	"github.com/spec-kit/catalog-service/internal/storage"
)

// RouteConfig bundles dependencies for route registration. Guards run in
// order before every mutating route.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Products  *handlers.ProductsHandler
	Images    *handlers.ImagesHandler
	Metrics   *observability.Metrics
	AssetRoot string
	Guards    []fiber.Handler
}

// RegisterCORS allows browser clients from the configured origins.
func RegisterCORS(app *fiber.App, cfg config.CORSConfig) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.JSON(cfg.Metrics.Snapshot())
	})

	app.Get("/products/:id", cfg.Products.Get)

	guarded := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, cfg.Guards...), h)
	}
	app.Post("/upload-image", guarded(cfg.Images.Upload)...)
	app.Delete("/delete-image/:filename", guarded(cfg.Images.Delete)...)
	app.Delete("/delete-product/:id", guarded(cfg.Products.Delete)...)
	app.Put("/update-product/:id", guarded(cfg.Products.Update)...)

	if cfg.AssetRoot != "" {
		app.Static(storage.URLPrefix, cfg.AssetRoot)
	}
}

// AuthGuards returns the handlers protecting mutating routes. JWT mode
// verifies the bearer token and then requires the admin role; basic mode
// only checks the static credentials.
func AuthGuards(cfg config.AuthConfig, tokens auth.TokenVerifier, credentials auth.CredentialVerifier, admins *auth.AdminAuthorizer) []fiber.Handler {
	if cfg.Mode == config.AuthModeBasic {
		return []fiber.Handler{auth.BasicMiddleware(credentials, cfg.BasicRealm)}
	}
	return []fiber.Handler{auth.BearerMiddleware(tokens), auth.RequireAdmin(admins)}
}
