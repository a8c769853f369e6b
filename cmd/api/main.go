package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/adapter/catalogservice"
	"github.com/user/brand-ingest/internal/adapter/chromedp_fetcher"
	"github.com/user/brand-ingest/internal/adapter/contactdiscovery"
	mongo_adapter "github.com/user/brand-ingest/internal/adapter/mongo"
	"github.com/user/brand-ingest/internal/adapter/postgres"
	redis_adapter "github.com/user/brand-ingest/internal/adapter/redis"
	"github.com/user/brand-ingest/internal/adapter/rod_fetcher"
	"github.com/user/brand-ingest/internal/delivery/http/handler"
	"github.com/user/brand-ingest/internal/delivery/http/router"
	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/internal/session"
	"github.com/user/brand-ingest/internal/usecase"
	"github.com/user/brand-ingest/pkg/config"
	"github.com/user/brand-ingest/pkg/logger"
	"github.com/user/brand-ingest/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer log.Sync()

	// --- Metrics ---
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connections ---
	dbpool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal("unable to connect to postgres", zap.Error(err))
	}
	defer dbpool.Close()
	if err := postgres.Migrate(ctx, dbpool); err != nil {
		log.Fatal("unable to apply schema", zap.Error(err))
	}
	log.Info("postgres connection pool established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("unable to connect to redis", zap.Error(err))
	}
	log.Info("redis connection established")

	checks := map[string]handler.HealthCheck{
		"postgres": dbpool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	// --- Repositories ---
	var store repository.RecordStore
	switch cfg.DocumentStore {
	case config.StoreMongo:
		client, err := mongo_adapter.Connect(ctx, cfg.MongoURI, 10*time.Second)
		if err != nil {
			log.Fatal("unable to connect to mongo", zap.Error(err))
		}
		defer client.Disconnect(context.Background())
		store = mongo_adapter.NewRecordStore(client, cfg.MongoDatabase)
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	default:
		store = postgres.NewRecordStore(dbpool)
	}
	log.Info("document store selected", zap.String("store", cfg.DocumentStore))

	fetcher, closeFetcher, err := newFetcher(cfg, log)
	if err != nil {
		log.Fatal("unable to start browser", zap.Error(err))
	}
	defer closeFetcher()

	visitedRepo := redis_adapter.NewVisitedRepo(rdb)
	queueRepo := redis_adapter.NewQueueRepo(rdb)
	enrichment := redis_adapter.NewEnrichmentCache(rdb)
	indexRepo := postgres.NewIndexRepo(dbpool)
	discovery := contactdiscovery.New(contactdiscovery.Options{
		BaseURL:           cfg.ContactDiscoveryURL,
		APIKey:            cfg.ContactDiscoveryAPIKey,
		RequestsPerSecond: cfg.ContactDiscoveryRate,
	})

	var catalogs repository.CatalogService = unconfiguredCatalogService{}
	if cfg.CatalogServiceURL != "" {
		client, err := catalogservice.New(catalogservice.Options{BaseURL: cfg.CatalogServiceURL, Token: cfg.CatalogServiceToken})
		if err != nil {
			log.Fatal("invalid catalog service configuration", zap.Error(err))
		}
		catalogs = client
	}

	// --- Session stores ---
	brandSessions := session.NewBrandSessions(session.Options{TTL: cfg.BrandSessionTTL(), Capacity: cfg.BrandSessionCapacity})
	productSessions := session.NewProductSessions(session.Options{TTL: cfg.ProductSessionTTL(), Capacity: cfg.ProductSessionCapacity})
	payloads := session.NewDeferredPayloads(session.Options{TTL: cfg.DeferredPayloadTTL(), Capacity: cfg.DeferredPayloadCapacity})

	// --- Use Cases ---
	brandScraper := usecase.NewBrandScraper(fetcher, brandSessions, enrichment, discovery,
		usecase.BrandScrapeOptions{EnrichmentTTL: cfg.EnrichmentCacheTTL()}, log)
	services := handler.Services{
		IndexManager:   usecase.NewIndexManager(visitedRepo, queueRepo, indexRepo, cfg.DeduplicationWindow(), log),
		BrandScraper:   brandScraper,
		BrandSaver:     usecase.NewBrandSaver(brandSessions, payloads, store, indexRepo, enrichment, log),
		CatalogCreator: usecase.NewCatalogCreator(payloads, catalogs, store, indexRepo, log),
		BrandRecords:   usecase.NewBrandRecords(store),
		ProductScraper: usecase.NewProductScraper(fetcher, productSessions, log),
	}
	worker := usecase.NewScrapeWorker(queueRepo, indexRepo, brandScraper, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(services, checks, log)
	requestTimeout := cfg.PageLoadTimeout() + 30*time.Second
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, log, requestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go worker.Run(ctx, cfg.WorkerInterval())

	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}

func newFetcher(cfg *config.Config, log *zap.Logger) (repository.PageFetcher, func(), error) {
	if cfg.FetchEngine == config.EngineRod {
		f, err := rod_fetcher.NewRodFetcher(cfg.MaxConcurrency, cfg.PageLoadTimeout(), log)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	f, err := chromedp_fetcher.NewChromedpFetcher(cfg.MaxConcurrency, cfg.PageLoadTimeout(), log)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// unconfiguredCatalogService keeps payloads cached when no downstream URL is set.
type unconfiguredCatalogService struct{}

func (unconfiguredCatalogService) CreateCatalog(context.Context, entity.DeferredCreatePayload) (string, error) {
	return "", eris.Wrap(repository.ErrCatalogServiceRejected, "CATALOG_SERVICE_URL is not configured")
}
