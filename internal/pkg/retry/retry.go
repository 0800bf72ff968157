package retry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how often an outbound call is attempted.
type Policy struct {
	Retries   int           // extra attempts after the first
	BaseDelay time.Duration // first backoff; doubles per attempt
	MaxDelay  time.Duration // zero means backoff.DefaultMaxInterval
}

// DefaultPolicy is two retries starting at 200ms.
var DefaultPolicy = Policy{Retries: 2, BaseDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second}

// StatusError carries an upstream HTTP status so Do can decide whether to retry.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return "upstream returned " + http.StatusText(e.StatusCode)
}

// Retryable reports whether err is worth another attempt: transport errors,
// 429 and 5xx. Context cancellation is never retried.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return true
}

// BackOff builds the schedule for p: exponential, no jitter, capped at
// p.Retries extra attempts and stopped when ctx is done.
func (p Policy) BackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.BaseDelay
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxInterval = p.MaxDelay
	if eb.MaxInterval <= 0 {
		eb.MaxInterval = backoff.DefaultMaxInterval
	}
	eb.MaxElapsedTime = 0

	retries := p.Retries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// Do runs fn until it succeeds, returns a non-retryable error, or the policy
// is exhausted. A cancelled ctx ends the loop with ctx.Err().
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	return backoff.Retry(func() error {
		err := fn(ctx)
		if err != nil && !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, p.BackOff(ctx))
}
