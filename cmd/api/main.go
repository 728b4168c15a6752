package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/application/webhook_handlers"
	"bundle-discount-layer/internal/config"
	"bundle-discount-layer/internal/domain"
	apiinfra "bundle-discount-layer/internal/infrastructure/api"
	"bundle-discount-layer/internal/infrastructure/cache"
	"bundle-discount-layer/internal/infrastructure/metrics"
	"bundle-discount-layer/internal/infrastructure/pubsub"
	"bundle-discount-layer/internal/infrastructure/repository"
	shopifyinfra "bundle-discount-layer/internal/infrastructure/shopify"
	"bundle-discount-layer/internal/ports"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	shutdownTimeout  = 15 * time.Second
	webhookQueueSize = 256
	shopifyBurst     = 40
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	// Initialize repositories
	repo := repository.NewMongoRepository(db)
	bundleRepo := repository.NewMongoBundleRepository(db)
	for _, r := range []any{repo, bundleRepo} {
		if i, ok := r.(indexer); ok {
			if err := i.EnsureIndexes(ctx); err != nil {
				logger.Fatal().Err(err).Msg("Failed to create MongoDB indexes")
			}
		}
	}

	// Product cache is optional
	var productCache ports.ProductCache
	if cfg.RedisAddr != "" {
		redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()

		redisCache := cache.NewRedisProductCache(redisClient, cfg.ProductCacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, product cache disabled")
		} else {
			productCache = redisCache
		}
	}

	appMetrics := metrics.NewPrometheus()

	// Initialize rate limiter and retry config for Shopify API
	rateLimiter := shopifyinfra.NewRateLimiterWithLimit(cfg.ShopifyRateLimit, shopifyBurst, logger)
	shopifyClient := shopifyinfra.NewClientWithOptions(
		cfg.ShopifyAPIKey,
		cfg.ShopifyAPISecret,
		cfg.ShopifyAPIVersion,
		rateLimiter,
		shopifyinfra.DefaultRetryConfig(),
		logger,
	)

	// Initialize application services
	shopifyService := application.NewShopifyService(repo, shopifyClient, logger)
	bundleService := application.NewBundleService(
		bundleRepo,
		shopifyService,
		appMetrics,
		application.MetafieldLocation{Namespace: cfg.MetafieldNamespace, Key: cfg.MetafieldKey},
		logger,
	)
	catalogService := application.NewCatalogService(bundleRepo, shopifyService, productCache, appMetrics, logger)
	analyticsService := application.NewAnalyticsService(repo, appMetrics, logger)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(repo, appMetrics, logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductHandler(catalogService, bundleService, logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, bundleService, shopifyService))

	// Webhooks are acknowledged immediately and handled from the bus
	webhookBus := pubsub.NewWebhookBus(webhookQueueSize, logger)
	sub := webhookBus.Subscribe(ctx, pubsub.Filter{Topics: []string{
		domain.TopicProductsUpdate,
		domain.TopicProductsDelete,
		domain.TopicAppUninstalled,
	}})
	go webhookDispatcher.Consume(ctx, sub.Events)

	server, err := apiinfra.NewServer(apiinfra.Options{
		Bundles:        bundleService,
		Catalog:        catalogService,
		Analytics:      analyticsService,
		Shopify:        shopifyService,
		Dispatcher:     webhookDispatcher,
		Publisher:      webhookBus,
		Verifier:       shopifyinfra.NewVerifier(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret),
		VerifyAppProxy: cfg.VerifyAppProxy,
		Metrics:        appMetrics,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize API server")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Starting API server")
		logger.Info().Msg("Swagger documentation available at " + cfg.AppURL + "/swagger/index.html")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down server gracefully")
	}

	stats := webhookBus.Stats()
	logger.Info().
		Int64("published", stats.Published).
		Int64("dropped", stats.Dropped).
		Msg("Webhook bus stopped")
}
