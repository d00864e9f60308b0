package desktop

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// speechCommands 按优先级探测的朗读命令，文本作为最后一个参数传入
var speechCommands = []struct {
	name string
	args []string
}{
	{name: "say"},
	{name: "espeak-ng"},
	{name: "espeak"},
	{name: "spd-say", args: []string{"--wait"}},
}

// CommandNarrator 通过外部朗读命令播放文本
type CommandNarrator struct {
	path string
	args []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommandNarrator 使用指定命令创建朗读器
func NewCommandNarrator(path string, args ...string) *CommandNarrator {
	return &CommandNarrator{path: path, args: args}
}

// DetectNarrator 查找可用的朗读命令
func DetectNarrator() (*CommandNarrator, bool) {
	for _, c := range speechCommands {
		if p, err := exec.LookPath(c.name); err == nil {
			return NewCommandNarrator(p, c.args...), true
		}
	}
	return nil, false
}

// Speak 开始朗读，进程正常退出时调用 onDone
func (n *CommandNarrator) Speak(text string, onDone func()) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cmd != nil {
		return errors.New("narrator is already speaking")
	}

	args := append(append([]string{}, n.args...), text)
	cmd := exec.Command(n.path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start speech command: %w", err)
	}
	n.cmd = cmd

	go func() {
		_ = cmd.Wait()

		n.mu.Lock()
		// Stop 已清理时不再回调
		current := n.cmd == cmd
		if current {
			n.cmd = nil
		}
		n.mu.Unlock()

		if current && onDone != nil {
			onDone()
		}
	}()
	return nil
}

// Stop 立即终止朗读，未在朗读时为空操作
func (n *CommandNarrator) Stop() error {
	n.mu.Lock()
	cmd := n.cmd
	n.cmd = nil
	n.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop speech command: %w", err)
	}
	return nil
}

// IsSpeaking 是否正在朗读
func (n *CommandNarrator) IsSpeaking() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cmd != nil
}
