package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/observability"
)

// ServerOptions collects what NewApp needs besides the routes.
type ServerOptions struct {
	Name           string
	BodyLimit      int
	RequestTimeout time.Duration
	CORS           config.CORSConfig
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewApp builds the fiber app with global middlewares and routes attached.
func NewApp(opts ServerOptions, routes RouteConfig) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics()
	}
	if routes.Metrics == nil {
		routes.Metrics = opts.Metrics
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(opts.Logger),
	})

	if opts.CORS.AllowOrigins != "" {
		RegisterCORS(app, opts.CORS)
	}
	RegisterMiddlewares(app, opts.Logger, opts.Metrics, opts.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}
