// ABOUTME: Dependency wiring for the news-optimizer service
// ABOUTME: Builds drivers, repositories, services and handlers from config
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"news-optimizer/cache"
	"news-optimizer/config"
	"news-optimizer/driver"
	"news-optimizer/handler"
	"news-optimizer/repository"
	"news-optimizer/retry"
	"news-optimizer/service"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config *config.Config
	DBPool *pgxpool.Pool
	Logger *slog.Logger

	HealthHandler  *handler.HealthHandler
	AdminHandler   *handler.AdminHandler
	IngestHandler  *handler.IngestHandler
	ArticleHandler *handler.ArticleHandler
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, func(), error) {
	dbPool, err := driver.Init(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// Drivers
	translatorClient := driver.NewTranslatorAPIClient(&cfg.Translator, log)
	generatorClient := driver.NewGeneratorAPIClient(&cfg.Generator, log)
	mediaClient := driver.NewMediaStorageClient(&cfg.Storage, log)
	feedClient := driver.NewFeedClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, log)
	pageClient := driver.NewPageClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, log)
	imageClient := driver.NewImageClient(cfg.Ingest.MediaTimeout, cfg.Ingest.MaxImageBytes, cfg.HTTP.UserAgent, log)

	// Repositories
	articleRepo := repository.NewArticleRepository(dbPool, log)
	siteRepo := repository.NewSiteRepository(dbPool, cfg.Ingest.SiteID, log)

	// Advisory dedup cache, off by default
	dedup, closeCache, err := buildDedupCache(ctx, &cfg.Cache, log)
	if err != nil {
		dbPool.Close()
		return nil, nil, err
	}

	feedRetrier := retry.NewRetrier(retry.Config{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
		MaxDelay:      cfg.Retry.MaxDelay,
		BackoffFactor: cfg.Retry.BackoffFactor,
		JitterFactor:  cfg.Retry.JitterFactor,
	}, retry.IsTransientNetworkError, log)

	// Services
	ingestor := service.NewFeedIngestor(
		articleRepo, siteRepo, feedClient, pageClient, imageClient,
		mediaClient, dedup, feedRetrier, cfg.Ingest, log,
	)
	translation := service.NewTranslationStage(articleRepo, siteRepo, translatorClient, log)
	enrichment := service.NewEnrichmentStage(articleRepo, siteRepo, generatorClient, log)
	batch := service.NewBatchRunner(articleRepo, translation, enrichment, log)

	// Handlers
	deps := &Dependencies{
		Config:         cfg,
		DBPool:         dbPool,
		Logger:         log,
		HealthHandler:  handler.NewHealthHandler(dbPool, log),
		AdminHandler:   handler.NewAdminHandler(siteRepo, log),
		IngestHandler:  handler.NewIngestHandler(ingestor, log),
		ArticleHandler: handler.NewArticleHandler(articleRepo, translation, enrichment, batch, log),
	}

	cleanup := func() {
		closeCache()
		dbPool.Close()
	}
	return deps, cleanup, nil
}

func buildDedupCache(ctx context.Context, cfg *config.CacheConfig, log *slog.Logger) (repository.DedupCache, func(), error) {
	if !cfg.Enabled {
		return cache.NoopDedupCache{}, func() {}, nil
	}

	redisCache, err := cache.NewRedisDedupCache(ctx, cfg.RedisURL, cfg.TTL, log)
	if err != nil {
		return nil, nil, err
	}

	log.Info("dedup cache enabled", "ttl", cfg.TTL)
	closeCache := func() {
		if err := redisCache.Close(); err != nil {
			log.Error("failed to close dedup cache", "error", err)
		}
	}
	return redisCache, closeCache, nil
}
