package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"story-weaver-api/internal/config"
)

func newTestOpenAIProvider(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewOpenAIProvider(&config.LLMConfig{
		Driver:   DriverOpenAI,
		Provider: "gemini",
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/v1/",
		Model:    "gemini-1.5-flash",
		Timeout:  5 * time.Second,
	})
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gemini-1.5-flash",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"The lighthouse keeper woke."}}],
"usage":{"prompt_tokens":6,"completion_tokens":5,"total_tokens":11}}`))
	})

	got, err := p.Generate(context.Background(), "Create a story set in Maine.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.Text != "The lighthouse keeper woke." {
		t.Fatalf("text = %q", got.Text)
	}
	if got.Usage.PromptTokens != 6 || got.Usage.CompletionTokens != 5 {
		t.Fatalf("usage = %+v", got.Usage)
	}
	if body.Model != "gemini-1.5-flash" {
		t.Fatalf("model = %q", body.Model)
	}
	if len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.Messages[0].Content != "Create a story set in Maine." {
		t.Fatalf("messages = %+v", body.Messages)
	}
}

func TestOpenAIProvider_ProviderErrorSingleAttempt(t *testing.T) {
	var calls int32
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit_error"}}`))
	})

	_, err := p.Generate(context.Background(), "Create a story.")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error does not carry provider message: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("provider called %d times, want 1", n)
	}
}

func TestOpenAIProvider_EmptyChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	})

	if _, err := p.Generate(context.Background(), "Create a story."); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("err = %v, want ErrEmptyCompletion", err)
	}
}
