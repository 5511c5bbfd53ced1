package quill

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	limiter := NewRateLimiter(2, 200*time.Millisecond)
	defer limiter.Close()
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first hit to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second hit to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third hit to be blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Close()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first hit to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second hit to be blocked")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Allow(ip) {
		t.Fatalf("expected hit after window to be allowed")
	}
}

func TestRateLimiterIsPerKey(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	limiter := NewRateLimiter(1, 200*time.Millisecond)
	defer limiter.Close()

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestRateLimiterCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	limiter := NewRateLimiter(1, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	limiter.Close()
	limiter.Close()
}
