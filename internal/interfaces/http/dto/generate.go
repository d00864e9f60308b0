package dto

// 生成接口固定的响应文案
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgInvalidRequest   = "Invalid request, prompt is required."
	MsgGenerateFailed   = "Failed to generate content"
)

// GenerateRequest 生成请求，prompt 必须是非空字符串
type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// GenerateResponse 生成成功响应
type GenerateResponse struct {
	Response string `json:"response"`
}
