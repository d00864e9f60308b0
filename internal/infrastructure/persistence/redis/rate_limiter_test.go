package redis

import (
	"testing"
	"time"

	"story-weaver-api/internal/config"
)

func TestBuildRateLimitKey(t *testing.T) {
	if got := BuildRateLimitKey("sw", "10.0.0.1", "/api/generate"); got != "sw:10.0.0.1:/api/generate" {
		t.Fatalf("key = %q", got)
	}
	if got := BuildRateLimitKey(" ", "10.0.0.1", "/api/generate"); got != "ratelimit:10.0.0.1:/api/generate" {
		t.Fatalf("key = %q", got)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 200 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected connection error")
	}
}
