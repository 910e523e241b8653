package database

import (
	"context"
	"fmt"
	"time"

	"aqarna-listings/internal/common/config"
	"aqarna-listings/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisClient owns the connection pool behind the redis session store.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{Client: redis.NewClient(Options(cfg))}
}

// Options maps the redis section of the config onto client options.
func Options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Health pings the server and publishes the pool state. It backs /healthz.
func (c *RedisClient) Health(ctx context.Context) error {
	err := c.Ping(ctx)
	stats := c.Client.PoolStats()
	metrics.SessionStorePool.WithLabelValues("total").Set(float64(stats.TotalConns))
	metrics.SessionStorePool.WithLabelValues("idle").Set(float64(stats.IdleConns))
	metrics.SessionStorePool.WithLabelValues("stale").Set(float64(stats.StaleConns))
	return err
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
