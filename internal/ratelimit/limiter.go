// Package ratelimit implements fixed-window request limiting keyed by client identity.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Policy configures one class of endpoints.
type Policy struct {
	Name        string
	Window      time.Duration
	MaxRequests int
}

// Enabled reports whether the policy limits anything.
func (p Policy) Enabled() bool {
	return p.Window > 0 && p.MaxRequests > 0
}

// Decision is the outcome of a Check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Count      int64
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Store counts requests per key within a window.
type Store interface {
	// Increment records one request for key and returns the count in the current window and the
	// time left until that window ends.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// Limiter applies policies against a Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source used to compute ResetAt.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLimiter builds a Limiter over store.
func NewLimiter(store Store, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("ratelimit: store is required")
	}
	l := &Limiter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Check counts one request from identity against policy. Requests beyond the policy maximum
// within a window are rejected; they are never queued. An error is returned only when a shared
// store cannot be reached.
func (l *Limiter) Check(ctx context.Context, identity string, policy Policy) (Decision, error) {
	if !policy.Enabled() {
		return Decision{Allowed: true, Limit: policy.MaxRequests}, nil
	}

	count, ttl, err := l.store.Increment(ctx, Key(policy.Name, identity), policy.Window)
	if err != nil {
		return Decision{}, err
	}
	if ttl < 0 {
		ttl = 0
	}

	remaining := policy.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	decision := Decision{
		Allowed:   count <= int64(policy.MaxRequests),
		Limit:     policy.MaxRequests,
		Remaining: remaining,
		Count:     count,
		ResetAt:   l.now().Add(ttl),
	}
	if !decision.Allowed {
		decision.RetryAfter = ttl
	}
	return decision, nil
}

// Key namespaces identity by policy so endpoint classes keep separate counters.
func Key(policy, identity string) string {
	return policy + "|" + identity
}
