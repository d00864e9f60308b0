// Package llm 提供生成服务提供商的客户端实现
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/workflow/port"
)

const (
	// DriverEino 使用 Eino OpenAI 兼容 ChatModel
	DriverEino = "eino"
	// DriverOpenAI 直接使用 openai-go SDK
	DriverOpenAI = "openai"
)

// ErrEmptyCompletion 提供商返回了空文本
var ErrEmptyCompletion = errors.New("provider returned an empty completion")

// NewProvider 按配置创建唯一的生成客户端，进程启动时调用一次
func NewProvider(ctx context.Context, cfg *config.Config) (port.TextGenerator, error) {
	llmCfg := cfg.LLM
	switch strings.ToLower(strings.TrimSpace(llmCfg.Driver)) {
	case "", DriverEino:
		return NewEinoProvider(ctx, &llmCfg)
	case DriverOpenAI:
		return NewOpenAIProvider(&llmCfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm driver: %s", llmCfg.Driver)
	}
}

func providerLabel(cfg *config.LLMConfig) string {
	if p := strings.TrimSpace(cfg.Provider); p != "" {
		return p
	}
	return "unknown"
}

// completionText 校验补全文本，空白文本视为失败
func completionText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
