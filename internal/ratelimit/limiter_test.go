package ratelimit

import (
	"context"
	"testing"
	"time"
)

func newTestLimiter(max int, window time.Duration) (*FixedWindowLimiter, *time.Time) {
	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	l := NewFixedWindowLimiter(FixedWindowConfig{
		MaxAttempts:   max,
		Window:        window,
		Now:           func() time.Time { return now },
		PurgeInterval: time.Hour,
	})
	return l, &now
}

func TestFixedWindowLimiter_AllowsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(5, time.Minute)
	defer l.Stop()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := l.Allow(ctx, "login-user@example.com")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !allowed {
			t.Fatalf("attempt %d rejected, want allowed", i+1)
		}
	}

	allowed, _ := l.Allow(ctx, "login-user@example.com")
	if allowed {
		t.Error("6th attempt within window allowed, want rejected")
	}
}

func TestFixedWindowLimiter_WindowReset(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)
	defer l.Stop()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		l.Allow(ctx, "key")
	}

	// Advance past the window; the counter must reset
	*now = now.Add(61 * time.Second)

	allowed, _ := l.Allow(ctx, "key")
	if !allowed {
		t.Error("attempt after window elapsed rejected, want allowed")
	}
}

func TestFixedWindowLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(5, time.Minute)
	defer l.Stop()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		l.Allow(ctx, "a")
	}

	allowed, _ := l.Allow(ctx, "b")
	if !allowed {
		t.Error("fresh key rejected after another key was exhausted")
	}
}

func TestFixedWindowLimiter_Purge(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)
	defer l.Stop()
	ctx := context.Background()

	l.Allow(ctx, "stale")
	*now = now.Add(2 * time.Minute)
	l.Purge()

	l.mu.Lock()
	_, exists := l.entries["stale"]
	l.mu.Unlock()
	if exists {
		t.Error("expired entry survived Purge()")
	}
}
