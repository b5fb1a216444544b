package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Action names known to the limiter. Unknown actions fall back to a
// default budget.
const (
	ActionSendMessage   = "send_message"
	ActionCreateChat    = "create_chat"
	ActionCreateRequest = "create_request"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter manages per-user, per-action token buckets.
type RateLimiter struct {
	entries map[string]*entry
	mutex   sync.Mutex
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*entry),
	}
}

func limiterFor(action string) *rate.Limiter {
	switch action {
	case ActionSendMessage:
		// 10 messages per minute, short bursts allowed.
		return rate.NewLimiter(rate.Every(6*time.Second), 10)
	case ActionCreateChat:
		// 5 new conversations per hour.
		return rate.NewLimiter(rate.Every(12*time.Minute), 5)
	case ActionCreateRequest:
		// 10 borrow requests per hour.
		return rate.NewLimiter(rate.Every(6*time.Minute), 10)
	default:
		return rate.NewLimiter(rate.Every(3*time.Second), 20)
	}
}

// Allow reports whether a user action is within its budget and consumes
// a token if so.
func (rl *RateLimiter) Allow(userID, action string) bool {
	key := userID + ":" + action

	rl.mutex.Lock()
	e, ok := rl.entries[key]
	if !ok {
		e = &entry{limiter: limiterFor(action)}
		rl.entries[key] = e
	}
	e.lastSeen = time.Now()
	rl.mutex.Unlock()

	return e.limiter.Allow()
}

// Cleanup removes buckets that have been idle for over an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := time.Now().Add(-time.Hour)
	for key, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, key)
		}
	}
}

// StartCleanupRoutine starts a cleanup routine that runs periodically.
func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.Cleanup()
		}
	}()
}
