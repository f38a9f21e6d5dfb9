package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects the document store backend. Pool size and
// timeouts from the environment override whatever REDIS_URL carries; the
// read timeout bounds each increment script run and each SCAN batch.
func NewRedisClient(ctx context.Context, cfg *Config) (redis.UniversalClient, error) {
	opt, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, opt.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opt.Addr, err)
	}

	return client, nil
}

func RedisOptions(cfg *Config) (*redis.Options, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.RedisPoolSize > 0 {
		opt.PoolSize = cfg.RedisPoolSize
	}
	if cfg.RedisDialTimeout > 0 {
		opt.DialTimeout = cfg.RedisDialTimeout
	}
	if cfg.RedisReadTimeout > 0 {
		opt.ReadTimeout = cfg.RedisReadTimeout
		opt.WriteTimeout = cfg.RedisReadTimeout
	}
	return opt, nil
}
