// Package studio 提供客户端侧的故事工作台：表单状态、单次生成、复制与朗读
package studio

import (
	"context"
	"sync"
	"time"

	"story-weaver-api/internal/domain/entity"
	"story-weaver-api/internal/domain/service"
	apperrors "story-weaver-api/pkg/errors"
	"story-weaver-api/pkg/logger"
)

// FailureNotice 生成失败时替换故事文本的提示
const FailureNotice = "An error occurred while generating the story."

// DefaultCopyIndicator 复制提示的显示时长
const DefaultCopyIndicator = 2 * time.Second

// ErrGenerationInFlight 已有生成请求未完成
var ErrGenerationInFlight = apperrors.ErrGenerationBusy

// Generator 生成接口
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Clipboard 剪贴板能力
type Clipboard interface {
	WriteAll(text string) error
}

// Narrator 朗读能力
// onDone 在朗读自然结束时调用，Stop 取消时不调用
type Narrator interface {
	Speak(text string, onDone func()) error
	Stop() error
	IsSpeaking() bool
}

// Studio 工作台状态
// clipboard 和 narrator 可为 nil，对应操作退化为仅记录告警
type Studio struct {
	gen       Generator
	clipboard Clipboard
	narrator  Narrator

	copyIndicator time.Duration

	mu        sync.Mutex
	req       entity.StoryRequest
	result    *entity.GenerationResult
	loading   bool
	copied    bool
	copyTimer *time.Timer
	reading   bool
	// utterance 每次开始朗读递增，过期的完成回调据此忽略
	utterance uint64
}

// New 创建工作台
func New(gen Generator, clipboard Clipboard, narrator Narrator, copyIndicator time.Duration) *Studio {
	if copyIndicator <= 0 {
		copyIndicator = DefaultCopyIndicator
	}
	return &Studio{
		gen:           gen,
		clipboard:     clipboard,
		narrator:      narrator,
		copyIndicator: copyIndicator,
	}
}

// SetRequest 覆盖表单参数
func (s *Studio) SetRequest(req entity.StoryRequest) {
	s.mu.Lock()
	s.req = req
	s.mu.Unlock()
}

func (s *Studio) SetGenre(v string)      { s.update(func(r *entity.StoryRequest) { r.Genre = v }) }
func (s *Studio) SetSetting(v string)    { s.update(func(r *entity.StoryRequest) { r.Setting = v }) }
func (s *Studio) SetCharacters(v string) { s.update(func(r *entity.StoryRequest) { r.Characters = v }) }
func (s *Studio) SetPlotPoints(v string) { s.update(func(r *entity.StoryRequest) { r.PlotPoints = v }) }

func (s *Studio) update(fn func(r *entity.StoryRequest)) {
	s.mu.Lock()
	fn(&s.req)
	s.mu.Unlock()
}

// Request 当前表单参数
func (s *Studio) Request() entity.StoryRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req
}

// Generate 用当前表单拼装提示词并发起一次生成
//
// 同一时刻只允许一个请求，重复触发返回 ErrGenerationInFlight。
// 失败时故事文本被替换为 FailureNotice，同时返回底层错误。
func (s *Studio) Generate(ctx context.Context) (*entity.GenerationResult, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	s.loading = true
	prompt := service.ComposePrompt(s.req)
	s.mu.Unlock()

	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)

	var result *entity.GenerationResult
	if err != nil {
		logger.Error(ctx, "story generation request failed", err)
		result = entity.NewFailedResult(prompt, FailureNotice)
	} else {
		result = entity.NewSucceededResult(prompt, text, entity.GenerationMetadata{
			Duration:    time.Since(start),
			GeneratedAt: time.Now().UTC(),
		})
	}

	s.mu.Lock()
	s.result = result
	s.loading = false
	s.mu.Unlock()

	return result, err
}

// Story 当前显示的文本：成功时为生成文本，失败时为 FailureNotice
func (s *Studio) Story() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return displayText(s.result)
}

func displayText(r *entity.GenerationResult) string {
	if r == nil {
		return ""
	}
	if r.Succeeded() {
		return r.Text
	}
	return r.ErrorMessage
}

// Result 最近一次生成结果
func (s *Studio) Result() *entity.GenerationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Loading 是否有生成请求未完成
func (s *Studio) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Copied 复制提示是否仍在显示
func (s *Studio) Copied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copied
}

// Reading 是否正在朗读
func (s *Studio) Reading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reading
}

// Copy 将当前文本写入剪贴板，并在 copyIndicator 时长内置 Copied 为 true
func (s *Studio) Copy(ctx context.Context) error {
	if s.clipboard == nil {
		logger.Warn(ctx, "clipboard is not available in this environment")
		return nil
	}

	s.mu.Lock()
	text := displayText(s.result)
	s.mu.Unlock()
	if text == "" {
		logger.Warn(ctx, "nothing to copy")
		return nil
	}

	if err := s.clipboard.WriteAll(text); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.copied = true
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.copyTimer = time.AfterFunc(s.copyIndicator, func() {
		s.mu.Lock()
		s.copied = false
		s.mu.Unlock()
	})
	return nil
}

// ReadAloud 切换朗读状态：空闲时开始朗读当前文本，朗读中再次调用则立即停止
func (s *Studio) ReadAloud(ctx context.Context) error {
	if s.narrator == nil {
		logger.Warn(ctx, "speech synthesis is not available in this environment")
		return nil
	}

	s.mu.Lock()
	if s.reading {
		s.reading = false
		s.utterance++
		s.mu.Unlock()
		return s.narrator.Stop()
	}

	text := displayText(s.result)
	if text == "" {
		s.mu.Unlock()
		logger.Warn(ctx, "nothing to read aloud")
		return nil
	}
	s.utterance++
	id := s.utterance
	s.reading = true
	s.mu.Unlock()

	err := s.narrator.Speak(text, func() {
		s.mu.Lock()
		if s.utterance == id {
			s.reading = false
		}
		s.mu.Unlock()
	})
	if err != nil {
		s.mu.Lock()
		if s.utterance == id {
			s.reading = false
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// Close 停止朗读并清理定时器
func (s *Studio) Close() error {
	s.mu.Lock()
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	reading := s.reading
	s.reading = false
	s.utterance++
	s.mu.Unlock()

	if reading && s.narrator != nil {
		return s.narrator.Stop()
	}
	return nil
}
