package api

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-player token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64       // Actions allowed per second per player
	Burst             int           // Maximum burst size
	CleanupInterval   time.Duration // How often to clean up stale limiters
}

// DefaultRateLimitConfig returns production-safe defaults: enough headroom
// for an agent issuing a few actions per second, tight enough that a runaway
// loop cannot monopolize the engine lock.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 10,
	Burst:             20,
	CleanupInterval:   5 * time.Minute,
}

// playerLimiterEntry tracks per-player rate limiting state. lastSeen is unix
// nanoseconds, accessed atomically: request handlers touch it concurrently
// with the cleanup loop.
type playerLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen int64 // atomic
}

// PlayerRateLimiter throttles mutating actions per player_id before they
// reach the engine. It sits at the API boundary, decoupled from the
// engine's serialization lock.
type PlayerRateLimiter struct {
	limiters sync.Map // map[string]*playerLimiterEntry
	config   RateLimitConfig
	stopChan chan struct{}
	stopOnce sync.Once

	rejectedCount uint64 // atomic
	allowedCount  uint64 // atomic
}

// NewPlayerRateLimiter creates a limiter and starts its cleanup goroutine.
func NewPlayerRateLimiter(cfg RateLimitConfig) *PlayerRateLimiter {
	rl := &PlayerRateLimiter{
		config:   cfg,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop stops the cleanup goroutine.
func (rl *PlayerRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

// Allow checks whether an action from the given player should go through.
func (rl *PlayerRateLimiter) Allow(playerID string) bool {
	limiter := rl.getLimiter(playerID)
	if limiter.Allow() {
		atomic.AddUint64(&rl.allowedCount, 1)
		return true
	}
	atomic.AddUint64(&rl.rejectedCount, 1)
	return false
}

// GetStats returns limiter counters for monitoring.
func (rl *PlayerRateLimiter) GetStats() map[string]uint64 {
	return map[string]uint64{
		"allowed":  atomic.LoadUint64(&rl.allowedCount),
		"rejected": atomic.LoadUint64(&rl.rejectedCount),
	}
}

func (rl *PlayerRateLimiter) getLimiter(playerID string) *rate.Limiter {
	now := time.Now().UnixNano()

	if entry, ok := rl.limiters.Load(playerID); ok {
		e := entry.(*playerLimiterEntry)
		atomic.StoreInt64(&e.lastSeen, now)
		return e.limiter
	}

	entry := &playerLimiterEntry{
		limiter:  rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		lastSeen: now,
	}
	actual, _ := rl.limiters.LoadOrStore(playerID, entry)
	return actual.(*playerLimiterEntry).limiter
}

// cleanupLoop periodically drops limiters for players not seen in a while,
// e.g. agents that crashed without unregistering.
func (rl *PlayerRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.CleanupInterval * 2).UnixNano()
			rl.limiters.Range(func(key, value interface{}) bool {
				if atomic.LoadInt64(&value.(*playerLimiterEntry).lastSeen) < cutoff {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
