package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/infrastructure/persistence/redis"
	"story-weaver-api/internal/workflow/port"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	provider port.TextGenerator
	redis    *redis.Client
	version  string
}

// NewHealthHandler 创建健康检查处理器，redisClient 可为 nil
func NewHealthHandler(cfg *config.Config, provider port.TextGenerator, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		provider: provider,
		redis:    redisClient,
		version:  cfg.App.Version,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
// 不调用生成服务，避免消耗配额
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"llm":   {Status: "ok"},
		"redis": {Status: "disabled"},
	}
	ready := true

	if h.provider == nil {
		checks["llm"] = &readinessCheck{Status: "missing", Error: "llm provider not configured"}
		ready = false
	}

	// Redis 仅用于限流，故障不影响就绪态
	if h.redis != nil {
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"] = &readinessCheck{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		}
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
