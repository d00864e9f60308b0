// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse 仅包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}

// FailureResponse 生成失败响应，Error 为提供商返回的错误信息
type FailureResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Message 返回仅含提示信息的响应
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

// AbortWithMessage 中止处理链并返回提示信息
func AbortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, MessageResponse{Message: message})
}

// Failure 返回携带底层错误信息的失败响应
func Failure(c *gin.Context, status int, message, cause string) {
	c.JSON(status, FailureResponse{Message: message, Error: cause})
}
