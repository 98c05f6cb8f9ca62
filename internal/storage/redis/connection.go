package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Sohammathur/Chat-Application--AI/config"
)

// NewClient connects and pings Redis. It returns nil, nil when Redis is not
// configured so callers can fall back to in-process behaviour.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*goredis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
