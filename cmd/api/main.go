package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/catalog-service/internal/api/http"
	"github.com/spec-kit/catalog-service/internal/api/http/handlers"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/observability"
	"github.com/spec-kit/catalog-service/internal/persistence"
	"github.com/spec-kit/catalog-service/internal/postgrest"
	"github.com/spec-kit/catalog-service/internal/repository"
	"github.com/spec-kit/catalog-service/internal/service"
	"github.com/spec-kit/catalog-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	products, profiles, dbCheck := catalogBackend(cfg, pg, logger)

	assets, err := storage.NewAssetStore(cfg.Assets.Root, cfg.Assets.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to prepare asset root", zap.String("root", cfg.Assets.Root), zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, redis, logger, cfg.Events).RegisterHandlers()
	catalog := service.NewCatalogService(products, assets, dispatcher, logger)

	var keys *auth.KeySetCache
	if url := cfg.Supabase.KeySetURL(); url != "" {
		keys = auth.NewKeySetCache(auth.NewHTTPKeySetFetcher(url, cfg.Auth.KeySetTimeout()))
	}
	guards := httptransport.AuthGuards(cfg.Auth,
		auth.NewJWTVerifier(cfg.Supabase.JWTSecret, cfg.Auth.JWTAudience, keys, logger),
		auth.NewBasicVerifier(cfg.Auth.BasicUsername, cfg.Auth.BasicPassword, cfg.Auth.BasicPasswordHash),
		auth.NewAdminAuthorizer(profiles, cfg.Auth.AdminRole, logger),
	)

	redisCheck := handlers.DependencyCheck{Name: "redis"}
	if redis.Enabled() {
		redisCheck.Ping = redis.Ping
	}

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(httptransport.ServerOptions{
		Name:           cfg.App.Name,
		BodyLimit:      cfg.Assets.MaxUploadBytes,
		RequestTimeout: cfg.App.RequestTimeout(),
		CORS:           cfg.CORS,
		Logger:         logger,
		Metrics:        metrics,
	}, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dbCheck, redisCheck),
		Products:  handlers.NewProductsHandler(catalog),
		Images:    handlers.NewImagesHandler(catalog),
		Metrics:   metrics,
		AssetRoot: assets.Root(),
		Guards:    guards,
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("auth_mode", string(cfg.Auth.Mode)),
			zap.String("asset_root", assets.Root()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// catalogBackend picks the product and profile store: a direct Postgres pool
// when one is configured, otherwise the REST gateway, otherwise a store that
// fails every call so the process still starts.
func catalogBackend(cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) (repository.ProductRepository, repository.ProfileRepository, handlers.DependencyCheck) {
	check := handlers.DependencyCheck{Name: "database"}

	switch {
	case pg.Enabled():
		logger.Info("catalog backend: postgres")
		check.Ping = pg.Ping
		pool := pg.PoolHandle()
		return repository.NewProductRepository(pool), repository.NewProfileRepository(pool), check
	case cfg.Supabase.RestURL() != "" && cfg.Supabase.AnonKey != "":
		logger.Info("catalog backend: rest gateway", zap.String("url", cfg.Supabase.RestURL()))
		client := postgrest.NewClient(cfg.Supabase.RestURL(), cfg.Supabase.AnonKey, cfg.App.RequestTimeout())
		check.Ping = func(ctx context.Context) error { return client.Ping(ctx, "products") }
		return postgrest.NewProductRepository(client), postgrest.NewProfileRepository(client), check
	default:
		logger.Warn("no catalog backend configured; product and admin operations will fail")
		unavailable := repository.Unavailable{}
		return unavailable, unavailable.Profiles(), check
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
