package database

import (
	"context"
	"fmt"
	"time"

	"school_hub_backend/internal/config"
	"school_hub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis 连接失败时返回 nil，调用方降级为直接查库
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("redis unavailable, caching disabled", zap.Error(err))
		return nil
	}
	return rdb
}
