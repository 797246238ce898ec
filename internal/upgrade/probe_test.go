package upgrade

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/junup/internal/device"
)

// fakeClock advances instantly on Sleep so waits run without real delay.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	return ctx.Err()
}

func testCreds() device.Credentials {
	return device.Credentials{Host: "198.51.100.7", User: "admin", Password: "secret"}
}

func newTestManager(dialer device.Dialer, settle time.Duration, obs Observer) (*SessionManager, *fakeClock) {
	clk := newFakeClock()
	if obs == nil {
		obs = NopObserver{}
	}
	return &SessionManager{
		Dialer:   dialer,
		Settle:   settle,
		Interval: 10 * time.Second,
		Clock:    clk,
		Observer: obs,
	}, clk
}

func TestProbeUntilReachable_TimingBounds(t *testing.T) {
	dialer := &scriptedDialer{script: []func() (device.Session, error){errorScript(errRefused)}}
	m, clk := newTestManager(dialer, 0, nil)
	start := clk.Now()
	timeout := 2 * time.Minute

	_, err := m.ProbeUntilReachable(context.Background(), testCreds(), timeout)

	require.Error(t, err)

	elapsed := clk.Now().Sub(start)
	assert.GreaterOrEqual(t, elapsed, timeout, "must not give up before the budget")
	assert.LessOrEqual(t, elapsed, timeout+m.Interval, "must give up within one interval past the budget")
}

func TestProbeUntilReachable_SettlesBeforeFirstProbe(t *testing.T) {
	sess := &fakeSession{}
	settle := 12 * time.Minute

	var firstDialAt time.Time
	m, clk := newTestManager(nil, settle, nil)
	start := clk.Now()
	m.Dialer = dialerFunc(func(context.Context, device.Credentials) (device.Session, error) {
		if firstDialAt.IsZero() {
			firstDialAt = clk.Now()
		}
		return sess, nil
	})

	got, err := m.ProbeUntilReachable(context.Background(), testCreds(), 2*time.Minute)

	require.NoError(t, err)
	assert.Same(t, sess, got.(*fakeSession))
	assert.Equal(t, settle, firstDialAt.Sub(start), "no probing during the settle phase")
}

func TestProbeUntilReachable_RecoversAfterFailures(t *testing.T) {
	sess := &fakeSession{}
	dialer := &scriptedDialer{script: []func() (device.Session, error){
		errorScript(errRefused),
		errorScript(errRefused),
		sessionScript(sess),
	}}
	obs := &recordingObserver{}
	m, _ := newTestManager(dialer, 0, obs)

	got, err := m.ProbeUntilReachable(context.Background(), testCreds(), 10*time.Minute)

	require.NoError(t, err)
	assert.Same(t, sess, got.(*fakeSession))
	assert.Equal(t, 3, dialer.calls)
	assert.Contains(t, obs.eventTypes(), EventProbeAttempt)
	assert.NotContains(t, obs.eventTypes(), EventProbeWarning)
}

func TestProbeUntilReachable_UnexpectedErrorDoesNotAbort(t *testing.T) {
	sess := &fakeSession{}
	dialer := &scriptedDialer{script: []func() (device.Session, error){
		errorScript(errors.New("malformed server banner")),
		sessionScript(sess),
	}}
	obs := &recordingObserver{}
	m, _ := newTestManager(dialer, 0, obs)

	got, err := m.ProbeUntilReachable(context.Background(), testCreds(), 10*time.Minute)

	require.NoError(t, err, "unexpected errors are warned about, never fatal")
	assert.Same(t, sess, got.(*fakeSession))
	assert.Contains(t, obs.eventTypes(), EventProbeWarning)
}

func TestProbeUntilReachable_CancelledDuringSettle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dialer := &scriptedDialer{script: []func() (device.Session, error){errorScript(errRefused)}}
	m, _ := newTestManager(dialer, time.Minute, nil)

	_, err := m.ProbeUntilReachable(ctx, testCreds(), 10*time.Minute)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, dialer.calls, "no probing after cancellation")
}

func TestConnect_SingleAttempt(t *testing.T) {
	dialer := &scriptedDialer{script: []func() (device.Session, error){
		errorScript(errors.New("auth rejected")),
	}}
	m, _ := newTestManager(dialer, 0, nil)

	_, err := m.Connect(context.Background(), testCreds())

	require.Error(t, err)
	assert.Equal(t, 1, dialer.calls)
}

func TestClose_NilSafe(t *testing.T) {
	m, _ := newTestManager(nil, 0, nil)

	assert.NotPanics(t, func() { m.Close(nil) })
}

func TestClose_Idempotent(t *testing.T) {
	sess := &fakeSession{}
	m, _ := newTestManager(nil, 0, nil)

	m.Close(sess)
	m.Close(sess)

	assert.Equal(t, 2, sess.closes, "manager delegates; the session itself tolerates repeats")
}

func TestClose_ReportsErrorWithoutFailing(t *testing.T) {
	obs := &recordingObserver{}
	m, _ := newTestManager(nil, 0, obs)

	m.Close(errorSession{})

	require.NotEmpty(t, obs.logs)
	assert.Contains(t, obs.logs[len(obs.logs)-1], "failed to close session")
}

func TestIsConnectionError(t *testing.T) {
	assert.True(t, isConnectionError(errRefused))
	assert.True(t, isConnectionError(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.False(t, isConnectionError(errors.New("malformed banner")))
	assert.False(t, isConnectionError(nil))
}

// dialerFunc adapts a function to device.Dialer.
type dialerFunc func(ctx context.Context, creds device.Credentials) (device.Session, error)

func (f dialerFunc) Dial(ctx context.Context, creds device.Credentials) (device.Session, error) {
	return f(ctx, creds)
}

// errorSession always fails to close.
type errorSession struct{}

func (errorSession) Close() error { return errors.New("already torn down") }
