package studio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"story-weaver-api/internal/domain/entity"
)

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
	block   chan struct{}
	started chan struct{}
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.text, f.err
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fakeNarrator struct {
	mu       sync.Mutex
	speaking bool
	spoken   []string
	stops    int
	onDone   func()
}

func (f *fakeNarrator) Speak(text string, onDone func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speaking = true
	f.spoken = append(f.spoken, text)
	f.onDone = onDone
	return nil
}

func (f *fakeNarrator) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speaking = false
	f.stops++
	return nil
}

func (f *fakeNarrator) IsSpeaking() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speaking
}

// finish 模拟朗读自然结束
func (f *fakeNarrator) finish() {
	f.mu.Lock()
	done := f.onDone
	f.speaking = false
	f.mu.Unlock()
	if done != nil {
		done()
	}
}

func generated(t *testing.T, s *Studio) {
	t.Helper()
	if _, err := s.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestStudio_GenerateUsesCurrentForm(t *testing.T) {
	gen := &fakeGenerator{text: "A story."}
	s := New(gen, nil, nil, 0)

	s.SetGenre("fantasy")
	generated(t, s)
	s.SetSetting("Rome")
	generated(t, s)

	want := []string{
		"Create a story in the fantasy genre.",
		"Create a story in the fantasy genre set in Rome.",
	}
	if len(gen.prompts) != 2 || gen.prompts[0] != want[0] || gen.prompts[1] != want[1] {
		t.Fatalf("prompts = %q", gen.prompts)
	}
	if s.Story() != "A story." || !s.Result().Succeeded() {
		t.Fatalf("story = %q", s.Story())
	}
	if s.Loading() {
		t.Fatal("still loading")
	}
}

func TestStudio_FailureShowsNotice(t *testing.T) {
	gen := &fakeGenerator{text: "first"}
	s := New(gen, nil, nil, 0)
	generated(t, s)

	gen.err = errors.New("500")
	res, err := s.Generate(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Status != entity.GenerationStatusFailed {
		t.Fatalf("status = %s", res.Status)
	}
	if s.Story() != FailureNotice {
		t.Fatalf("story = %q", s.Story())
	}
	if s.Loading() {
		t.Fatal("loading not reset after failure")
	}
}

func TestStudio_SingleFlight(t *testing.T) {
	gen := &fakeGenerator{text: "x", block: make(chan struct{}), started: make(chan struct{}, 1)}
	s := New(gen, nil, nil, 0)

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background())
		done <- err
	}()
	<-gen.started

	if !s.Loading() {
		t.Fatal("expected loading while request is in flight")
	}
	if _, err := s.Generate(context.Background()); !errors.Is(err, ErrGenerationInFlight) {
		t.Fatalf("err = %v, want ErrGenerationInFlight", err)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if s.Loading() {
		t.Fatal("loading not reset")
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times", len(gen.prompts))
	}
}

func TestStudio_CopyRevertsIndicator(t *testing.T) {
	cb := &fakeClipboard{}
	s := New(&fakeGenerator{text: "Copy me."}, cb, nil, 30*time.Millisecond)
	generated(t, s)

	if err := s.Copy(context.Background()); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if cb.text != "Copy me." {
		t.Fatalf("clipboard = %q", cb.text)
	}
	if !s.Copied() {
		t.Fatal("copied indicator not set")
	}

	deadline := time.Now().Add(time.Second)
	for s.Copied() {
		if time.Now().After(deadline) {
			t.Fatal("copied indicator did not revert")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStudio_CopyError(t *testing.T) {
	cb := &fakeClipboard{err: errors.New("no display")}
	s := New(&fakeGenerator{text: "x"}, cb, nil, 0)
	generated(t, s)

	if err := s.Copy(context.Background()); err == nil {
		t.Fatal("expected clipboard error")
	}
	if s.Copied() {
		t.Fatal("copied set despite failure")
	}
}

func TestStudio_ReadAloudToggle(t *testing.T) {
	n := &fakeNarrator{}
	s := New(&fakeGenerator{text: "Read me."}, nil, n, 0)
	generated(t, s)

	if err := s.ReadAloud(context.Background()); err != nil {
		t.Fatalf("ReadAloud: %v", err)
	}
	if !s.Reading() || !n.IsSpeaking() {
		t.Fatal("expected reading")
	}
	if err := s.ReadAloud(context.Background()); err != nil {
		t.Fatalf("second ReadAloud: %v", err)
	}
	if s.Reading() || n.IsSpeaking() || n.stops != 1 {
		t.Fatalf("reading = %v, stops = %d", s.Reading(), n.stops)
	}
}

func TestStudio_ReadAloudNaturalCompletion(t *testing.T) {
	n := &fakeNarrator{}
	s := New(&fakeGenerator{text: "Short."}, nil, n, 0)
	generated(t, s)

	if err := s.ReadAloud(context.Background()); err != nil {
		t.Fatalf("ReadAloud: %v", err)
	}
	n.finish()
	if s.Reading() {
		t.Fatal("reading not reset after completion")
	}
}

func TestStudio_StaleCompletionIgnored(t *testing.T) {
	n := &fakeNarrator{}
	s := New(&fakeGenerator{text: "Again."}, nil, n, 0)
	generated(t, s)

	_ = s.ReadAloud(context.Background())
	stale := n.onDone
	_ = s.ReadAloud(context.Background()) // stop
	_ = s.ReadAloud(context.Background()) // start again

	stale()
	if !s.Reading() {
		t.Fatal("stale completion reset the new utterance")
	}
}

func TestStudio_UnsupportedFacilitiesAreNoops(t *testing.T) {
	s := New(&fakeGenerator{text: "x"}, nil, nil, 0)
	generated(t, s)

	if err := s.Copy(context.Background()); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if err := s.ReadAloud(context.Background()); err != nil {
		t.Fatalf("ReadAloud: %v", err)
	}
	if s.Copied() || s.Reading() {
		t.Fatal("state changed without facilities")
	}
}
