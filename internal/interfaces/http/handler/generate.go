// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"story-weaver-api/internal/application/story"
	"story-weaver-api/internal/interfaces/http/dto"
	"story-weaver-api/pkg/errors"
	"story-weaver-api/pkg/logger"
)

// StoryGenerator 生成接口依赖的应用服务
type StoryGenerator interface {
	Generate(ctx context.Context, prompt string) (*story.GenerateOutput, error)
}

// GenerateHandler 故事生成处理器
type GenerateHandler struct {
	generator StoryGenerator
}

// NewGenerateHandler 创建故事生成处理器
func NewGenerateHandler(generator *story.Generator) *GenerateHandler {
	return &GenerateHandler{generator: generator}
}

// Generate 生成故事
// @Summary 生成故事
// @Description 将提示词转发给生成服务，返回生成文本
// @Tags Story
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "提示词"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 405 {object} dto.MessageResponse
// @Failure 500 {object} dto.FailureResponse
// @Router /api/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug(ctx, "invalid generate request", "error", err.Error())
		dto.Message(c, http.StatusBadRequest, dto.MsgInvalidRequest)
		return
	}

	out, err := h.generator.Generate(ctx, req.Prompt)
	if err != nil {
		appErr := errors.AsAppError(err)
		if appErr.Code == errors.CodeInvalidParam {
			dto.Message(c, http.StatusBadRequest, dto.MsgInvalidRequest)
			return
		}
		cause := appErr.Cause()
		if cause == "" {
			cause = appErr.Message
		}
		dto.Failure(c, http.StatusInternalServerError, dto.MsgGenerateFailed, cause)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateResponse{Response: out.Text})
}

// MethodNotAllowed 非 POST 请求
func MethodNotAllowed(c *gin.Context) {
	logger.Debug(c.Request.Context(), errors.ErrMethodNotAllowed.Message,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	dto.AbortWithMessage(c, http.StatusMethodNotAllowed, dto.MsgMethodNotAllowed)
}
