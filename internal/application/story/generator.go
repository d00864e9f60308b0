// Package story 提供故事生成应用服务
package story

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/domain/entity"
	"story-weaver-api/internal/domain/service"
	"story-weaver-api/internal/workflow/port"
	apperrors "story-weaver-api/pkg/errors"
	"story-weaver-api/pkg/logger"
	"story-weaver-api/pkg/metrics"
	"story-weaver-api/pkg/tracer"
)

// GenerateOutput 一次成功生成的结果
type GenerateOutput struct {
	Text string
	Meta entity.GenerationMetadata
}

// Generator 将提示词转发给生成服务提供商
// 每个请求只调用一次提供商，不重试、不缓存
type Generator struct {
	provider port.TextGenerator
	timeout  time.Duration
}

// NewGenerator 创建故事生成服务
func NewGenerator(provider port.TextGenerator, cfg *config.Config) *Generator {
	return &Generator{
		provider: provider,
		timeout:  cfg.LLM.Timeout,
	}
}

// Generate 生成故事文本
//
// 空提示词返回 ErrInvalidParam；提供商失败返回 ErrLLMCallFailed，Cause() 为提供商错误信息。
func (g *Generator) Generate(ctx context.Context, prompt string) (*GenerateOutput, error) {
	if prompt == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("prompt is required")
	}
	if g == nil || g.provider == nil {
		return nil, apperrors.ErrServiceUnavailable.WithDetail("llm provider not configured")
	}

	ctx = service.WithWorkflowProvider(ctx, service.WorkflowStoryGenerate, g.provider.Provider())
	ctx, span := tracer.Start(ctx, "story.generate")
	defer span.End()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	metrics.StoryPromptLength.Observe(float64(len(prompt)))
	start := time.Now()

	out, err := g.provider.Generate(ctx, prompt)
	elapsed := time.Since(start)
	metrics.StoryGenerationDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.StoryGenerationTotal.WithLabelValues(string(entity.GenerationStatusFailed)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn(ctx, "story generation timed out", "timeout", g.timeout.String())
		}
		logger.Error(ctx, "story generation failed", err,
			"provider", g.provider.Provider(),
			"model", g.provider.Model(),
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, apperrors.ErrLLMCallFailed.WithError(err)
	}

	metrics.StoryGenerationTotal.WithLabelValues(string(entity.GenerationStatusSucceeded)).Inc()
	result := &GenerateOutput{
		Text: out.Text,
		Meta: entity.GenerationMetadata{
			Provider:         g.provider.Provider(),
			Model:            g.provider.Model(),
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			Duration:         elapsed,
			GeneratedAt:      time.Now().UTC(),
		},
	}
	words := entity.NewSucceededResult(prompt, out.Text, result.Meta).WordCount()
	metrics.StoryWordCount.Observe(float64(words))

	logger.Info(ctx, "story generated",
		"provider", result.Meta.Provider,
		"model", result.Meta.Model,
		"words", words,
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}
