// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"story-weaver-api/internal/interfaces/http/handler"
)

// RegisterSystemRoutes 注册健康检查与指标端点
func RegisterSystemRoutes(engine *gin.Engine, health *handler.HealthHandler, metricsPath string) {
	engine.GET("/health", health.Health)
	engine.GET("/ready", health.Ready)
	engine.GET("/live", health.Live)

	if metricsPath != "" {
		engine.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}
}

// RegisterGenerateRoutes 注册生成接口，只接受 POST
func RegisterGenerateRoutes(engine *gin.Engine, generate *handler.GenerateHandler, mw ...gin.HandlerFunc) {
	engine.NoMethod(handler.MethodNotAllowed)

	handlers := append(append([]gin.HandlerFunc{}, mw...), generate.Generate)
	engine.POST(GeneratePath, handlers...)
}
