// Package poll provides fixed-interval polling against a deadline.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Clock abstracts time so polling loops can be tested without real delays.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until the context is cancelled, in which case
	// it returns the context error.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the real-time Clock used outside of tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config holds polling configuration.
type Config struct {
	Timeout  time.Duration
	Interval time.Duration
	Clock    Clock
}

// Option is a functional option for polling configuration.
type Option func(*Config)

// WithTimeout sets the total polling budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithInterval sets the delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(c *Config) { c.Interval = d }
}

// WithClock injects a Clock, usually a fake in tests.
func WithClock(clk Clock) Option {
	return func(c *Config) { c.Clock = clk }
}

// DeadlineError reports that the polling budget was exhausted. It wraps the
// last attempt error, if any.
type DeadlineError struct {
	Timeout time.Duration
	Last    error
}

func (e *DeadlineError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("deadline of %v exceeded, last error: %v", e.Timeout, e.Last)
	}
	return fmt.Sprintf("deadline of %v exceeded", e.Timeout)
}

func (e *DeadlineError) Unwrap() error { return e.Last }

// IsDeadline reports whether err is a polling deadline expiry.
func IsDeadline(err error) bool {
	var de *DeadlineError
	return errors.As(err, &de)
}

// Until runs op on a fixed interval until it succeeds or the deadline
// passes. Attempt errors never abort the loop; only success, context
// cancellation, or deadline expiry ends it. With an always-failing op the
// loop returns no earlier than Timeout and no later than Timeout plus one
// interval.
func Until(ctx context.Context, op func(context.Context) error, opts ...Option) error {
	cfg := &Config{
		Timeout:  5 * time.Minute,
		Interval: 10 * time.Second,
		Clock:    SystemClock{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	deadline := cfg.Clock.Now().Add(cfg.Timeout)
	var last error

	for cfg.Clock.Now().Before(deadline) {
		err := op(ctx)
		if err == nil {
			return nil
		}
		last = err

		if err := cfg.Clock.Sleep(ctx, cfg.Interval); err != nil {
			return err
		}
	}

	return &DeadlineError{Timeout: cfg.Timeout, Last: last}
}
