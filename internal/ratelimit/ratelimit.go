// Package ratelimit implements a fixed-window request throttle keyed by
// caller identifier. The counting store is injected so the process-local
// map can be swapped for Redis in multi-instance deployments.
package ratelimit

import (
	"context"
	"time"
)

// Rule is one fixed-window budget. Name namespaces the counter so that
// distinct endpoint classes (e.g. question generation vs. default
// traffic) never share a window.
type Rule struct {
	Name        string
	MaxRequests int
	Window      time.Duration
}

// Result is the outcome of a single Check call.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Store counts hits per key within a fixed window. Incr must be atomic
// per key: if no window exists or the stored one has expired it opens a
// fresh window with count 1, otherwise it increments and returns the
// running count. A read-then-write implementation would admit more than
// the configured maximum under concurrent load.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
	// Sweep drops expired windows. Advisory memory hygiene only; it
	// never affects the correctness of in-flight checks.
	Sweep(ctx context.Context) error
}

// Limiter applies fixed-window rules against an injected Store.
type Limiter struct {
	store Store
}

// New creates a Limiter backed by the given store.
func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Check records one hit for identifier under the given rule and reports
// whether the request is within budget. The first MaxRequests hits in a
// window are allowed; every further hit is rejected with Remaining 0
// until the window resets.
func (l *Limiter) Check(ctx context.Context, identifier string, rule Rule) (Result, error) {
	key := rule.Name + ":" + identifier

	count, resetAt, err := l.store.Incr(ctx, key, rule.Window)
	if err != nil {
		return Result{}, err
	}

	remaining := int64(rule.MaxRequests) - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(rule.MaxRequests),
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}, nil
}
