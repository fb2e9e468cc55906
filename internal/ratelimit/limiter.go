package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter caps the number of attempts per key inside a rolling window.
// Implementations are approximate: false negatives under concurrent
// increments are acceptable, rejections must never reach the database.
type Limiter interface {
	// Allow reports whether one more attempt is permitted for the key.
	Allow(ctx context.Context, key string) (bool, error)
}

// FixedWindowConfig holds limiter settings
type FixedWindowConfig struct {
	MaxAttempts int
	Window      time.Duration
	// Now is the clock; defaults to time.Now. Injected for tests.
	Now func() time.Time
	// PurgeInterval controls how often stale entries are removed
	PurgeInterval time.Duration
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// FixedWindowLimiter is an in-process fixed-window limiter. Entries are
// purged on a timer independent of request handling.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	max     int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewFixedWindowLimiter creates a limiter and starts its purge loop
func NewFixedWindowLimiter(cfg FixedWindowConfig) *FixedWindowLimiter {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	purge := cfg.PurgeInterval
	if purge <= 0 {
		purge = time.Minute
	}

	l := &FixedWindowLimiter{
		entries: make(map[string]*windowEntry),
		max:     cfg.MaxAttempts,
		window:  cfg.Window,
		now:     now,
		stop:    make(chan struct{}),
	}

	go l.purgeLoop(purge)

	return l
}

// Allow implements Limiter
func (l *FixedWindowLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}

	if e.count >= l.max {
		return false, nil
	}

	e.count++
	return true, nil
}

func (l *FixedWindowLimiter) purgeLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := l.now()
			l.mu.Lock()
			for key, e := range l.entries {
				if now.After(e.resetAt) {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Purge removes expired entries immediately. Exposed for tests.
func (l *FixedWindowLimiter) Purge() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
}

// Stop terminates the purge goroutine
func (l *FixedWindowLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
