// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/infrastructure/llm"
	"story-weaver-api/internal/infrastructure/persistence/redis"
	"story-weaver-api/internal/interfaces/http/middleware"
	"story-weaver-api/internal/workflow/port"
	"story-weaver-api/pkg/logger"
)

// ProvideTextGenerator 提供唯一的生成服务客户端
func ProvideTextGenerator(ctx context.Context, cfg *config.Config) (port.TextGenerator, error) {
	return llm.NewProvider(ctx, cfg)
}

// ProvideRedisClientOptional 提供 Redis 客户端，未启用时返回 nil
// 启用限流时 Redis 不可用属于启动错误
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		if cfg.Security.RateLimit.Enabled {
			return nil, nil, err
		}
		logger.Warn(ctx, "redis not available, rate limiting disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 提供限流器，Redis 未启用时返回 nil
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}
