// Package ratelimit provides in-memory IP-based rate limiting for the
// evaluation API. Evaluation runs are CPU-heavy, so the limiter protects
// the process from a single client hogging the worker pool.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/acousticlab/annometer/internal/monitoring"
)

// Config holds rate limiter configuration
type Config struct {
	IPLimitPerMin   int // IP-based rate limit per minute
	BurstMultiplier int // Burst capacity multiplier
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		IPLimitPerMin:   60,
		BurstMultiplier: 2,
	}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter provides per-key token bucket rate limiting
type RateLimiter struct {
	config  Config
	metrics *monitoring.Metrics

	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewRateLimiter creates a new in-memory rate limiter
func NewRateLimiter(config Config, metrics *monitoring.Metrics) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		metrics:  metrics,
		limiters: make(map[string]*rate.Limiter),
	}

	// Start cleanup goroutine
	go rl.cleanupLimiters()

	return rl
}

// AllowIP checks if an IP address is allowed to make a request (per-minute limit)
func (rl *RateLimiter) AllowIP(ip string) *Result {
	key := fmt.Sprintf("ratelimit:ip:%s", ip)
	return rl.allow(key, rl.config.IPLimitPerMin, time.Minute)
}

// allow performs the rate limit check with a token bucket per key
func (rl *RateLimiter) allow(key string, limit int, period time.Duration) *Result {
	rl.mu.Lock()
	limiter, exists := rl.limiters[key]
	if !exists {
		rps := rate.Limit(float64(limit) / period.Seconds())
		burst := limit * rl.config.BurstMultiplier
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()

	allowed := limiter.Allow()

	tokens := limiter.Tokens()
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(period),
	}

	if !allowed {
		result.RetryAfter = time.Until(result.ResetAt)
	}

	return result
}

// cleanupLimiters periodically bounds the limiter map
func (rl *RateLimiter) cleanupLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		// Simple cleanup: clear all limiters once the map grows large.
		// More sophisticated: track last access time per limiter.
		if len(rl.limiters) > 1000 {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		rl.mu.Unlock()
	}
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mu.RLock()
	count := len(rl.limiters)
	rl.mu.RUnlock()

	return map[string]interface{}{
		"active_limiters":  count,
		"ip_limit_per_min": rl.config.IPLimitPerMin,
		"burst_multiplier": rl.config.BurstMultiplier,
	}
}
