package api

import (
	"sync"
	"testing"
	"time"
)

func TestPlayerRateLimiterBurst(t *testing.T) {
	rl := NewPlayerRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             3,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("request %d within burst should pass", i+1)
		}
	}
	if rl.Allow("a") {
		t.Error("request past the burst should be rejected")
	}

	stats := rl.GetStats()
	if stats["allowed"] != 3 || stats["rejected"] != 1 {
		t.Errorf("stats = %v, want 3 allowed / 1 rejected", stats)
	}
}

func TestPlayerRateLimiterConcurrentAccess(t *testing.T) {
	// A short cleanup interval keeps the cleanup loop scanning while request
	// handlers hammer the same entry.
	rl := NewPlayerRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1000,
		Burst:             1000,
		CleanupInterval:   time.Millisecond,
	})
	defer rl.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				rl.Allow("a")
			}
		}()
	}
	wg.Wait()

	stats := rl.GetStats()
	if got := stats["allowed"] + stats["rejected"]; got != 1600 {
		t.Errorf("allowed+rejected = %d, want 1600", got)
	}
}

func TestPlayerRateLimiterIsolation(t *testing.T) {
	rl := NewPlayerRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("a") {
		t.Fatal("first request for a should pass")
	}
	if rl.Allow("a") {
		t.Error("second request for a should be rejected")
	}
	if !rl.Allow("b") {
		t.Error("player b has an independent bucket")
	}
}
