// Package router 提供 HTTP 路由配置
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/interfaces/http/handler"
	"story-weaver-api/internal/interfaces/http/middleware"
)

// GeneratePath 生成接口路径
const GeneratePath = "/api/generate"

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	generate *handler.GenerateHandler
	health   *handler.HealthHandler
	limiter  middleware.RateLimiter
}

// New 创建新的路由器，limiter 为 nil 时不限流
func New(cfg *config.Config, generate *handler.GenerateHandler, health *handler.HealthHandler, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// 非 POST 访问生成接口时返回 405 而非 404
	engine.HandleMethodNotAllowed = true

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		generate: generate,
		health:   health,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Handler 返回 http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Audit(middleware.AuditConfig{
		Enabled:   true,
		SkipPaths: append(middleware.DefaultAuditSkipPaths, r.cfg.Observability.Metrics.Path),
	}))
}

func (r *Router) setupRoutes() {
	metricsPath := ""
	if r.cfg.Observability.Metrics.Enabled {
		metricsPath = r.cfg.Observability.Metrics.Path
	}
	RegisterSystemRoutes(r.engine, r.health, metricsPath)

	rl := r.cfg.Security.RateLimit
	RegisterGenerateRoutes(r.engine, r.generate,
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           rl.Enabled,
			RequestsPerWindow: rl.RequestsPerWindow,
			Window:            rl.Window,
			KeyPrefix:         rl.KeyPrefix,
		}, r.limiter),
	)
}
