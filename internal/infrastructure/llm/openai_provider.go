package llm

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/domain/service"
	"story-weaver-api/internal/workflow/port"
	"story-weaver-api/pkg/metrics"
)

// OpenAIProvider 直接使用 openai-go SDK 的生成客户端
// 不经过 Eino 回调，自行上报 LLM 指标
type OpenAIProvider struct {
	client      openai.Client
	provider    string
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAIProvider 创建客户端，禁用 SDK 自带重试
func NewOpenAIProvider(cfg *config.LLMConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIProvider{
		client:      openai.NewClient(opts...),
		provider:    providerLabel(cfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (p *OpenAIProvider) Provider() string { return p.provider }

func (p *OpenAIProvider) Model() string { return p.model }

// Generate 发送单条用户消息并返回补全文本
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (*port.Completion, error) {
	workflow := service.WorkflowFromContext(ctx)
	start := time.Now()

	ctx, span := otel.Tracer("llm").Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("eino.workflow", workflow),
		attribute.String("llm.provider", p.provider),
		attribute.String("llm.model", p.model),
	))
	defer span.End()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}
	if p.temperature > 0 {
		params.Temperature = openai.Float(p.temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err == nil && len(resp.Choices) == 0 {
		err = ErrEmptyCompletion
	}
	var text string
	if err == nil {
		text, err = completionText(resp.Choices[0].Message.Content)
	}

	elapsed := time.Since(start).Seconds()
	metrics.LLMCallDuration.WithLabelValues(workflow, p.provider, p.model).Observe(elapsed)
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(workflow, p.provider, p.model, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	metrics.LLMCallTotal.WithLabelValues(workflow, p.provider, p.model, "success").Inc()

	usage := port.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}
	metrics.LLMTokensUsed.WithLabelValues(workflow, p.provider, p.model, "prompt").Add(float64(usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(workflow, p.provider, p.model, "completion").Add(float64(usage.CompletionTokens))
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", usage.PromptTokens),
		attribute.Int("llm.completion_tokens", usage.CompletionTokens),
	)

	return &port.Completion{Text: text, Usage: usage}, nil
}
