// Package throttle limits verification code submissions per email. Email
// verification and password reset codes share one budget, since both
// guess at the same stored code.
package throttle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts code submissions.
type Limiter interface {
	// Attempt records one submission and reports whether it may be
	// checked. Counting and gating happen in a single step.
	Attempt(ctx context.Context, email string) (bool, error)
	// Reset forgets all recorded submissions.
	Reset(ctx context.Context, email string) error
}

// Key returns the counter key of an email.
func Key(email string) string {
	return fmt.Sprintf("shopfront:code_attempts:%s", strings.ToLower(strings.TrimSpace(email)))
}

// Redis is a Limiter backed by expiring redis counters. The window starts
// with the first submission.
type Redis struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRedis creates a redis backed limiter.
func NewRedis(client *redis.Client, maxAttempts int, window time.Duration) *Redis {
	return &Redis{client: client, max: maxAttempts, window: window}
}

// Attempt implements Limiter. INCR and EXPIRE NX run in one transaction, so
// concurrent submissions each see a distinct count.
func (r *Redis) Attempt(ctx context.Context, email string) (bool, error) {
	key := Key(email)
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("increment attempt counter: %w", err)
	}
	return incr.Val() <= int64(r.max), nil
}

// Reset implements Limiter.
func (r *Redis) Reset(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, Key(email)).Err(); err != nil {
		return fmt.Errorf("reset attempt counter: %w", err)
	}
	return nil
}

// Noop never throttles. It is used when no redis is configured.
type Noop struct{}

func (Noop) Attempt(context.Context, string) (bool, error) { return true, nil }
func (Noop) Reset(context.Context, string) error           { return nil }
