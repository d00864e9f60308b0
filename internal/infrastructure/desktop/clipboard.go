// Package desktop 提供运行环境中的剪贴板与语音朗读能力
package desktop

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard 系统剪贴板
type SystemClipboard struct{}

// WriteAll 写入文本
func (SystemClipboard) WriteAll(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// DetectClipboard 当前环境是否提供剪贴板
func DetectClipboard() (SystemClipboard, bool) {
	return SystemClipboard{}, !clipboard.Unsupported
}
