package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	// refill
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens -= 1
		l.mu.Unlock()
		return true
	}
	l.mu.Unlock()
	return false
}

// WaitAllow blocks until a token is available for key or ctx expires.
// The poll interval is derived from the refill rate so a slow bucket
// does not spin.
func (l *Limiter) WaitAllow(ctx context.Context, key string, capacity, refillPerSec float64) error {
	if l.Allow(key, capacity, refillPerSec) {
		return nil
	}
	interval := 50 * time.Millisecond
	if refillPerSec > 0 {
		interval = time.Duration(float64(time.Second) / refillPerSec / 4)
		if interval < 10*time.Millisecond {
			interval = 10 * time.Millisecond
		}
		if interval > time.Second {
			interval = time.Second
		}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.Allow(key, capacity, refillPerSec) {
				return nil
			}
		}
	}
}
