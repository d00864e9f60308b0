// Package port 定义生成流程对外部 LLM 的最小依赖
package port

import "context"

// Usage Token 用量，供应商未返回时为零
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Completion 一次补全的结果
type Completion struct {
	Text  string
	Usage Usage
}

// TextGenerator 单轮文本生成
//
// 实现方只发起一次调用，不重试；Text 为空视为失败。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (*Completion, error)
	Provider() string
	Model() string
}
