package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances instantly on Sleep so polling loops run without delay.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	cancel func(elapsed time.Duration) bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func TestUntil_SucceedsImmediately(t *testing.T) {
	clk := newFakeClock()
	calls := 0

	err := Until(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, WithClock(clk), WithTimeout(time.Minute), WithInterval(10*time.Second))

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clk.slept, "no sleep needed when first attempt succeeds")
}

func TestUntil_SucceedsAfterFailures(t *testing.T) {
	clk := newFakeClock()
	calls := 0

	err := Until(context.Background(), func(context.Context) error {
		calls++
		if calls < 4 {
			return errors.New("not ready yet")
		}
		return nil
	}, WithClock(clk), WithTimeout(10*time.Minute), WithInterval(10*time.Second))

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Len(t, clk.slept, 3)
}

func TestUntil_DeadlineBounds(t *testing.T) {
	// With an always-failing op the loop must run for at least the timeout
	// and at most timeout + one interval.
	clk := newFakeClock()
	start := clk.Now()
	timeout := 2 * time.Minute
	interval := 10 * time.Second

	err := Until(context.Background(), func(context.Context) error {
		return errors.New("still down")
	}, WithClock(clk), WithTimeout(timeout), WithInterval(interval))

	require.Error(t, err)
	assert.True(t, IsDeadline(err))

	elapsed := clk.Now().Sub(start)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.LessOrEqual(t, elapsed, timeout+interval)
}

func TestUntil_DeadlineWrapsLastError(t *testing.T) {
	clk := newFakeClock()
	lastErr := errors.New("connection refused")

	err := Until(context.Background(), func(context.Context) error {
		return lastErr
	}, WithClock(clk), WithTimeout(30*time.Second), WithInterval(10*time.Second))

	require.Error(t, err)
	assert.ErrorIs(t, err, lastErr)

	var de *DeadlineError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 30*time.Second, de.Timeout)
}

func TestUntil_ContextCancellation(t *testing.T) {
	clk := newFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Until(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("not ready")
	}, WithClock(clk), WithTimeout(time.Hour), WithInterval(10*time.Second))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsDeadline(err))
	assert.Equal(t, 1, calls, "cancellation must stop the loop at the next boundary")
}

func TestIsDeadline(t *testing.T) {
	assert.True(t, IsDeadline(&DeadlineError{Timeout: time.Second}))
	assert.False(t, IsDeadline(errors.New("other")))
	assert.False(t, IsDeadline(nil))
}
