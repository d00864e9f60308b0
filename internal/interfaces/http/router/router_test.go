package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"story-weaver-api/internal/application/story"
	"story-weaver-api/internal/config"
	"story-weaver-api/internal/interfaces/http/handler"
	"story-weaver-api/internal/interfaces/http/middleware"
	"story-weaver-api/internal/workflow/port"
)

type stubProvider struct {
	text  string
	err   error
	calls int
}

func (s *stubProvider) Generate(_ context.Context, _ string) (*port.Completion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &port.Completion{Text: s.text}, nil
}

func (s *stubProvider) Provider() string { return "gemini" }

func (s *stubProvider) Model() string { return "gemini-1.5-flash" }

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.LLM.Timeout = time.Second
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	return cfg
}

func newTestRouter(cfg *config.Config, p *stubProvider, limiter middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gen := handler.NewGenerateHandler(story.NewGenerator(p, cfg))
	health := handler.NewHealthHandler(cfg, p, nil)
	return New(cfg, gen, health, limiter).Engine()
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return m
}

func TestGenerate_Success(t *testing.T) {
	p := &stubProvider{text: "Once upon a time..."}
	r := newTestRouter(testConfig(), p, nil)

	w := do(r, http.MethodPost, GeneratePath, `{"prompt":"Create a story in the fantasy genre."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["response"] != "Once upon a time..." || len(body) != 1 {
		t.Fatalf("body = %v", body)
	}
}

func TestGenerate_InvalidRequests(t *testing.T) {
	cases := map[string]string{
		"empty object": `{}`,
		"empty prompt": `{"prompt":""}`,
		"numeric":      `{"prompt":42}`,
		"malformed":    `{"prompt":`,
		"missing body": ``,
		"null prompt":  `{"prompt":null}`,
		"other field":  `{"text":"Create a story."}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			p := &stubProvider{text: "x"}
			r := newTestRouter(testConfig(), p, nil)

			w := do(r, http.MethodPost, GeneratePath, payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			if got := decode(t, w)["message"]; got != "Invalid request, prompt is required." {
				t.Fatalf("message = %v", got)
			}
			if p.calls != 0 {
				t.Fatalf("provider called %d times", p.calls)
			}
		})
	}
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		p := &stubProvider{text: "x"}
		r := newTestRouter(testConfig(), p, nil)

		w := do(r, method, GeneratePath, "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s status = %d", method, w.Code)
		}
		if got := decode(t, w)["message"]; got != "Method not allowed" {
			t.Fatalf("message = %v", got)
		}
		if p.calls != 0 {
			t.Fatalf("provider called on %s", method)
		}
	}
}

func TestGenerate_ProviderFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("API key not valid")}
	r := newTestRouter(testConfig(), p, nil)

	w := do(r, http.MethodPost, GeneratePath, `{"prompt":"Create a story."}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["message"] != "Failed to generate content" {
		t.Fatalf("message = %v", body["message"])
	}
	if body["error"] != "API key not valid" {
		t.Fatalf("error = %v", body["error"])
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RequestsPerWindow = 1
	cfg.Security.RateLimit.Window = time.Minute
	p := &stubProvider{text: "x"}
	r := newTestRouter(cfg, p, denyLimiter{})

	w := do(r, http.MethodPost, GeneratePath, `{"prompt":"Create a story."}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if p.calls != 0 {
		t.Fatal("provider called while rate limited")
	}
}

func TestSystemEndpoints(t *testing.T) {
	r := newTestRouter(testConfig(), &stubProvider{}, nil)

	for _, path := range []string{"/health", "/live", "/ready", "/metrics"} {
		if w := do(r, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}
