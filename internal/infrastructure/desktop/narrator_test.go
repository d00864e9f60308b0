package desktop

import (
	"os/exec"
	"testing"
	"time"
)

func sleepNarrator(t *testing.T) *CommandNarrator {
	t.Helper()
	p, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep command not available")
	}
	return NewCommandNarrator(p)
}

func TestCommandNarrator_NaturalCompletion(t *testing.T) {
	n := sleepNarrator(t)
	done := make(chan struct{})

	if err := n.Speak("0.05", func() { close(done) }); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if !n.IsSpeaking() {
		t.Fatal("expected speaking")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("onDone not called")
	}
	if n.IsSpeaking() {
		t.Fatal("still speaking after completion")
	}
}

func TestCommandNarrator_StopSkipsCallback(t *testing.T) {
	n := sleepNarrator(t)
	called := make(chan struct{}, 1)

	if err := n.Speak("5", func() { called <- struct{}{} }); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if err := n.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if n.IsSpeaking() {
		t.Fatal("still speaking after stop")
	}

	select {
	case <-called:
		t.Fatal("onDone called after Stop")
	case <-time.After(100 * time.Millisecond):
	}

	if err := n.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
