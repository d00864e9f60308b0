// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// StoryRequest 用户填写的叙事参数，所有字段可选
// 只存在于客户端状态中，不做持久化
type StoryRequest struct {
	Genre      string `json:"genre,omitempty"`
	Setting    string `json:"setting,omitempty"`
	Characters string `json:"characters,omitempty"`
	PlotPoints string `json:"plot_points,omitempty"`
}

// IsEmpty 所有字段均未填写
func (r StoryRequest) IsEmpty() bool {
	return r.Genre == "" && r.Setting == "" && r.Characters == "" && r.PlotPoints == ""
}

// GenerationStatus 一次生成尝试的结果状态
type GenerationStatus string

const (
	GenerationStatusSucceeded GenerationStatus = "succeeded"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerationMetadata 生成元数据
type GenerationMetadata struct {
	Provider         string        `json:"provider,omitempty"`
	Model            string        `json:"model,omitempty"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Duration         time.Duration `json:"duration,omitempty"`
	GeneratedAt      time.Time     `json:"generated_at,omitempty"`
}

// GenerationResult 一次生成的结果，成功时携带 Text，失败时携带 ErrorMessage
// 下一次生成会整体覆盖
type GenerationResult struct {
	Status       GenerationStatus   `json:"status"`
	Prompt       string             `json:"prompt,omitempty"`
	Text         string             `json:"text,omitempty"`
	ErrorMessage string             `json:"error_message,omitempty"`
	Meta         GenerationMetadata `json:"meta,omitempty"`
}

// NewSucceededResult 创建成功结果
func NewSucceededResult(prompt, text string, meta GenerationMetadata) *GenerationResult {
	return &GenerationResult{
		Status: GenerationStatusSucceeded,
		Prompt: prompt,
		Text:   text,
		Meta:   meta,
	}
}

// NewFailedResult 创建失败结果
func NewFailedResult(prompt, message string) *GenerationResult {
	return &GenerationResult{
		Status:       GenerationStatusFailed,
		Prompt:       prompt,
		ErrorMessage: message,
	}
}

// Succeeded 是否生成成功
func (r *GenerationResult) Succeeded() bool {
	return r != nil && r.Status == GenerationStatusSucceeded
}

// WordCount 生成文本的词数
func (r *GenerationResult) WordCount() int {
	if r == nil {
		return 0
	}
	return len(strings.Fields(r.Text))
}
