package service

import (
	"strings"

	"story-weaver-api/internal/domain/entity"
)

const promptBase = "Create a story"

// ComposePrompt 将叙事参数拼接为一句生成指令
//
// 子句顺序固定：genre, setting, characters, plot points；字段为空时跳过对应子句。
// 字段值原样插入，不做转义、清洗或截断。结果总以 "Create a story" 开头、以 "." 结尾。
func ComposePrompt(req entity.StoryRequest) string {
	var sb strings.Builder
	sb.WriteString(promptBase)

	if req.Genre != "" {
		sb.WriteString(" in the ")
		sb.WriteString(req.Genre)
		sb.WriteString(" genre")
	}
	if req.Setting != "" {
		sb.WriteString(" set in ")
		sb.WriteString(req.Setting)
	}
	if req.Characters != "" {
		sb.WriteString(" with characters like ")
		sb.WriteString(req.Characters)
	}
	if req.PlotPoints != "" {
		sb.WriteString(". The plot involves ")
		sb.WriteString(req.PlotPoints)
	}

	sb.WriteString(".")
	return sb.String()
}
