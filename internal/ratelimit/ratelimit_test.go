package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "test",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "test",
			calls:    5,
			wantPass: 2,
		},
		{
			name:     "different keys are independent",
			rps:      1,
			burst:    1,
			key:      "key1",
			calls:    1,
			wantPass: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	// Exhaust key1
	rl.Allow("key1")
	if rl.Allow("key1") {
		t.Error("key1 should be exhausted")
	}

	// key2 should still work
	if !rl.Allow("key2") {
		t.Error("key2 should be independent and allowed")
	}
}

func TestKeyedRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := NewWithTTL(1, 1, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("stale")
	now = now.Add(45 * time.Second)
	rl.Allow("fresh")
	now = now.Add(30 * time.Second)

	rl.evictIdle()

	if got := len(rl.entries); got != 1 {
		t.Fatalf("tracked keys = %d, want 1", got)
	}
	// A fresh bucket is handed out after eviction.
	if !rl.Allow("stale") {
		t.Error("evicted key should start with a full bucket")
	}
}

func TestPerMinute(t *testing.T) {
	if got := PerMinute(120); got != 2 {
		t.Errorf("PerMinute(120) = %v, want 2", got)
	}
}
