package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis اتصال به Redis را راه‌اندازی می‌کند
func InitRedis(ctx context.Context, cfg *Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,     // آدرس Redis
		Password: cfg.RedisPassword, // رمز عبور
		DB:       cfg.RedisDB,       // شماره دیتابیس
	})

	// بررسی اتصال به Redis
	s, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	logger.Info("✅ Connected to Redis", zap.String("ping", s), zap.String("addr", cfg.RedisAddr))
	return client, nil
}
