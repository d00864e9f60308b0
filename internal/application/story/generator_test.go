package story

import (
	"context"
	"errors"
	"testing"
	"time"

	"story-weaver-api/internal/config"
	"story-weaver-api/internal/domain/service"
	"story-weaver-api/internal/workflow/port"
	apperrors "story-weaver-api/pkg/errors"
)

type fakeProvider struct {
	text     string
	err      error
	delay    time.Duration
	calls    int
	prompt   string
	workflow string
	provider string
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (*port.Completion, error) {
	f.calls++
	f.prompt = prompt
	f.workflow = service.WorkflowFromContext(ctx)
	f.provider = service.ProviderFromContext(ctx)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &port.Completion{Text: f.text, Usage: port.Usage{PromptTokens: 2, CompletionTokens: 3}}, nil
}

func (f *fakeProvider) Provider() string { return "gemini" }

func (f *fakeProvider) Model() string { return "gemini-1.5-flash" }

func newTestGenerator(p port.TextGenerator, timeout time.Duration) *Generator {
	return NewGenerator(p, &config.Config{LLM: config.LLMConfig{Timeout: timeout}})
}

func TestGenerator_Success(t *testing.T) {
	p := &fakeProvider{text: "A dragon retired to the sea."}
	g := newTestGenerator(p, time.Second)

	out, err := g.Generate(context.Background(), "Create a story.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Text != "A dragon retired to the sea." {
		t.Fatalf("text = %q", out.Text)
	}
	if p.calls != 1 || p.prompt != "Create a story." {
		t.Fatalf("calls = %d, prompt = %q", p.calls, p.prompt)
	}
	if p.workflow != service.WorkflowStoryGenerate || p.provider != "gemini" {
		t.Fatalf("labels = %s/%s", p.workflow, p.provider)
	}
	if out.Meta.Model != "gemini-1.5-flash" || out.Meta.CompletionTokens != 3 {
		t.Fatalf("meta = %+v", out.Meta)
	}
}

func TestGenerator_EmptyPrompt(t *testing.T) {
	p := &fakeProvider{text: "x"}
	g := newTestGenerator(p, time.Second)

	_, err := g.Generate(context.Background(), "")
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want invalid param", err)
	}
	if p.calls != 0 {
		t.Fatalf("provider called %d times", p.calls)
	}
}

func TestGenerator_WhitespacePromptIsForwarded(t *testing.T) {
	p := &fakeProvider{text: "x"}
	g := newTestGenerator(p, time.Second)

	if _, err := g.Generate(context.Background(), "   "); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.prompt != "   " {
		t.Fatalf("prompt = %q", p.prompt)
	}
}

func TestGenerator_ProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota exceeded")}
	g := newTestGenerator(p, time.Second)

	_, err := g.Generate(context.Background(), "Create a story.")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeLLMCallFailed {
		t.Fatalf("code = %s", appErr.Code)
	}
	if appErr.Cause() != "quota exceeded" {
		t.Fatalf("cause = %q", appErr.Cause())
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}
}

func TestGenerator_Timeout(t *testing.T) {
	p := &fakeProvider{text: "late", delay: time.Second}
	g := newTestGenerator(p, 20*time.Millisecond)

	_, err := g.Generate(context.Background(), "Create a story.")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestGenerator_NilProvider(t *testing.T) {
	g := newTestGenerator(nil, time.Second)
	if _, err := g.Generate(context.Background(), "x"); !apperrors.HasCode(err, apperrors.CodeServiceUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
