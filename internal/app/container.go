package app

import (
	"context"
	"fmt"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/api"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/cache"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/config"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/enrich"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	"go.uber.org/zap"
)

// Container holds the services shared by the batch CLI and the HTTP server.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Fetcher enrich.Fetcher
	// Archive is nil when DB_PATH is unset or unreachable.
	Archive *models.Database

	closers []func()
}

// Build wires the YouTube client, the optional Redis cache and the optional
// run archive. Only a failure to create the YouTube client is an error; the
// cache and archive are skipped with a warning when they cannot connect.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	c := &Container{Config: cfg, Logger: logger}

	if err := cfg.Validate(); err != nil {
		logger.Warn("Continuing without an API key; every lookup will fail", zap.Error(err))
	}

	client, err := api.NewYouTubeClient(ctx, cfg.YouTube.APIKey)
	if err != nil {
		return nil, err
	}
	var fetcher enrich.Fetcher = api.NewStatsFetcher(client, logger, api.FetcherOptions{
		ByHandle: cfg.YouTube.LookupMode == config.LookupByHandle,
		Timeout:  cfg.YouTube.FetchTimeout,
	})

	cached := false
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Stats cache disabled", zap.Error(err))
		} else {
			c.closers = append(c.closers, func() { _ = client.Close() })
			fetcher = cache.NewCachedFetcher(fetcher, client, cfg.Redis.TTL, logger)
			cached = true
		}
	}
	c.Fetcher = fetcher

	if cfg.DBPath != "" {
		db, err := models.NewDatabase(cfg.DBPath, logger)
		if err != nil {
			logger.Warn("Run archive disabled", zap.Error(err))
		} else {
			c.closers = append(c.closers, func() { _ = db.Close() })
			c.Archive = db
		}
	}

	logger.Info("Services ready",
		zap.String("lookupMode", cfg.YouTube.LookupMode),
		zap.Bool("cache", cached),
		zap.Bool("archive", c.Archive != nil))

	return c, nil
}

// Archiver returns the archive as an enrich.Archiver, or nil when disabled.
func (c *Container) Archiver() enrich.Archiver {
	if c.Archive == nil {
		return nil
	}
	return c.Archive
}

// ServerArchive returns the archive for the HTTP server, or nil when disabled.
func (c *Container) ServerArchive() api.Archive {
	if c.Archive == nil {
		return nil
	}
	return c.Archive
}

// Close releases cache and database connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
