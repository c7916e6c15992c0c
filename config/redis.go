package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis connects to REDIS_ADDR. It returns nil, nil when Redis is not configured.
func InitRedis(ctx context.Context) (*redis.Client, error) {
	addr := Getenv("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: Getenv("REDIS_PASSWORD", ""),
		DB:       GetenvInt("REDIS_DB", 0),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	Log.Info("redis connected", zap.String("addr", addr))
	return rdb, nil
}
