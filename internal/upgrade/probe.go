package upgrade

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/imamik/junup/internal/config"
	"github.com/imamik/junup/internal/device"
	"github.com/imamik/junup/internal/util/poll"
)

// SessionManager owns session lifecycle: single connection attempts, the
// post-reboot reconnection wait, and idempotent close.
type SessionManager struct {
	Dialer device.Dialer

	// Settle is the grace period after a reboot is triggered before the
	// first probe. The device takes minutes before it even begins shutting
	// down services; probing earlier wastes attempts.
	Settle time.Duration

	// Interval is the delay between reconnection probes.
	Interval time.Duration

	// Clock is injectable for tests; nil means real time.
	Clock poll.Clock

	Observer Observer
}

// NewSessionManager builds a SessionManager from the configured timeouts.
func NewSessionManager(dialer device.Dialer, timeouts *config.Timeouts, observer Observer) *SessionManager {
	if observer == nil {
		observer = NopObserver{}
	}
	return &SessionManager{
		Dialer:   dialer,
		Settle:   timeouts.Settle,
		Interval: timeouts.ProbeInterval,
		Clock:    poll.SystemClock{},
		Observer: observer,
	}
}

func (m *SessionManager) clock() poll.Clock {
	if m.Clock == nil {
		return poll.SystemClock{}
	}
	return m.Clock
}

func (m *SessionManager) observer() Observer {
	if m.Observer == nil {
		return NopObserver{}
	}
	return m.Observer
}

// Connect opens one session attempt. No retry; a single failure is the
// caller's to classify.
func (m *SessionManager) Connect(ctx context.Context, creds device.Credentials) (device.Session, error) {
	return m.Dialer.Dial(ctx, creds)
}

// ProbeUntilReachable waits out the settle period, then re-dials on a fixed
// interval until the device answers or the timeout budget is spent. Failed
// attempts are the expected state of a rebooting device and never abort the
// loop; even errors that are not plain connection failures are only warned
// about. The error is non-nil only on deadline expiry or cancellation.
func (m *SessionManager) ProbeUntilReachable(ctx context.Context, creds device.Credentials, timeout time.Duration) (device.Session, error) {
	obs := m.observer()
	clk := m.clock()

	if m.Settle > 0 {
		obs.Printf("waiting %v for %s to begin rebooting before probing", m.Settle, creds.Host)
		if err := clk.Sleep(ctx, m.Settle); err != nil {
			return nil, err
		}
	}

	obs.Printf("waiting for %s to come back online (timeout: %v)", creds.Host, timeout)

	var sess device.Session
	attempt := 0
	err := poll.Until(ctx, func(ctx context.Context) error {
		attempt++
		s, err := m.Dialer.Dial(ctx, creds)
		if err != nil {
			if isConnectionError(err) {
				obs.Event(Event{
					Type:    EventProbeAttempt,
					Phase:   "reboot-wait",
					Message: "device not ready yet, retrying",
					Fields:  map[string]string{"attempt": fmt.Sprint(attempt)},
				})
			} else {
				obs.Event(Event{
					Type:    EventProbeWarning,
					Phase:   "reboot-wait",
					Message: fmt.Sprintf("unexpected error while probing: %v", err),
				})
			}
			return err
		}
		sess = s
		return nil
	}, poll.WithTimeout(timeout), poll.WithInterval(m.Interval), poll.WithClock(clk))

	if err != nil {
		return nil, err
	}

	obs.Printf("device %s is back online", creds.Host)
	return sess, nil
}

// Close shuts a session down. Nil-safe and, like the session itself,
// idempotent. Close failures are reported but never fatal.
func (m *SessionManager) Close(s device.Session) {
	if s == nil {
		return
	}
	if err := s.Close(); err != nil {
		m.observer().Printf("failed to close session: %v", err)
	}
}

// isConnectionError reports whether err looks like the device simply not
// accepting connections yet, as opposed to something structurally wrong.
func isConnectionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
