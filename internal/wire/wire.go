//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"story-weaver-api/internal/application/story"
	"story-weaver-api/internal/config"
	"story-weaver-api/internal/interfaces/http/handler"
	"story-weaver-api/internal/interfaces/http/router"
)

// InitializeApp 组装 HTTP 服务
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		InfraSet,
		RouterSet,
	)
	return nil, nil, nil
}

var InfraSet = wire.NewSet(
	ProvideTextGenerator,
	ProvideRedisClientOptional,
	ProvideRateLimiter,
)

var RouterSet = wire.NewSet(
	story.NewGenerator,
	handler.NewGenerateHandler,
	handler.NewHealthHandler,
	router.New,
)
