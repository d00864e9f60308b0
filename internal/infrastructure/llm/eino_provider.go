package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/workflow/port"
)

// EinoProvider 基于 Eino ChatModel 的生成客户端
// 调用会经过 Eino 全局 callbacks，指标与追踪由回调统一上报
type EinoProvider struct {
	chat     model.BaseChatModel
	provider string
	model    string
}

// NewEinoProvider 使用 Eino 的 OpenAI 适配器创建客户端
func NewEinoProvider(ctx context.Context, cfg *config.LLMConfig) (*EinoProvider, error) {
	mc := &openai.ChatModelConfig{
		APIKey: cfg.APIKey,
		// 底层客户端直接拼接 "/chat/completions"
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}
	if cfg.MaxTokens > 0 {
		mc.MaxTokens = ptrInt(cfg.MaxTokens)
	}
	if cfg.Temperature > 0 {
		mc.Temperature = ptrFloat32(float32(cfg.Temperature))
	}

	chatModel, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	return NewEinoProviderWithModel(chatModel, providerLabel(cfg), cfg.Model), nil
}

// NewEinoProviderWithModel 包装已有的 ChatModel
func NewEinoProviderWithModel(chat model.BaseChatModel, provider, modelName string) *EinoProvider {
	return &EinoProvider{chat: chat, provider: provider, model: modelName}
}

func (p *EinoProvider) Provider() string { return p.provider }

func (p *EinoProvider) Model() string { return p.model }

// Generate 发送单条用户消息并返回补全文本
func (p *EinoProvider) Generate(ctx context.Context, prompt string) (*port.Completion, error) {
	if p == nil || p.chat == nil {
		return nil, errors.New("eino chat model is not initialized")
	}

	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      "story_generator",
		Type:      p.provider,
		Component: components.ComponentOfChatModel,
	})

	out, err := p.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrEmptyCompletion
	}

	text, err := completionText(out.Content)
	if err != nil {
		return nil, err
	}

	c := &port.Completion{Text: text}
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		c.Usage = port.Usage{
			PromptTokens:     out.ResponseMeta.Usage.PromptTokens,
			CompletionTokens: out.ResponseMeta.Usage.CompletionTokens,
		}
	}
	return c, nil
}

func ptrInt(i int) *int {
	return &i
}

func ptrFloat32(f float32) *float32 {
	return &f
}
