package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow(1) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow(1) {
		t.Error("request over the limit should be denied")
	}

	// Лимит на пользователя, не глобальный
	if !rl.Allow(2) {
		t.Error("another user should not be affected")
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	defer rl.Close()

	if !rl.Allow(1) {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow(1) {
		t.Fatal("second immediate request should be denied")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.Allow(1) {
		t.Error("request after the window should be allowed")
	}
}

func TestRateLimiter_CloseIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Close()
	rl.Close()
}
