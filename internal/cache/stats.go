package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/config"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/enrich"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "channel_stats:"

// store is the subset of redis commands the cache needs.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// NewRedisClient connects and pings the configured server.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB))
	return client, nil
}

// CachedFetcher serves found channels from Redis and falls through to the
// wrapped fetcher on a miss. Only found records are cached, so unknown or
// failing channels are retried on the next run.
type CachedFetcher struct {
	next   enrich.Fetcher
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedFetcher(next enrich.Fetcher, client store, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		store:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, channelID string) models.FetchResult {
	key := keyPrefix + channelID

	raw, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var record models.StatsRecord
		if err := json.Unmarshal(raw, &record); err == nil {
			c.logger.Debug("Cache hit", zap.String("key", key))
			return models.FetchResult{
				ChannelID: channelID,
				Status:    models.FetchStatusFound,
				Record:    record,
			}
		}
		c.logger.Warn("Discarding unreadable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
	}

	result := c.next.Fetch(ctx, channelID)
	if result.Status != models.FetchStatusFound {
		return result
	}

	data, err := json.Marshal(result.Record)
	if err != nil {
		c.logger.Warn("Cache marshal failed", zap.String("key", key), zap.Error(err))
		return result
	}
	if err := c.store.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
	}
	return result
}
