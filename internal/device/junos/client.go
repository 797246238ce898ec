// Package junos implements the device capability surface over SSH using
// the Junos CLI: facts via "show version", staging via SCP, installation
// via "request system software add", reboot via "request system reboot".
//
// Security: host key verification is disabled by default, matching lab
// upgrade workflows where device host keys rotate with the image. Provide
// a HostKeyCallback for persistent production devices.
package junos

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/imamik/junup/internal/device"
)

const (
	defaultPort            = 22
	defaultDialTimeout     = 30 * time.Second
	defaultCommandTimeout  = 2 * time.Minute
	defaultInstallTimeout  = 40 * time.Minute
	defaultChecksumTimeout = 400 * time.Second
)

// ClientConfig holds transport configuration for a Client.
type ClientConfig struct {
	Port int

	// DialTimeout bounds a single connection attempt.
	DialTimeout time.Duration

	// InstallTimeout bounds the software add operation, which can run for
	// tens of minutes on small routing engines.
	InstallTimeout time.Duration

	// ChecksumTimeout bounds the remote checksum computation, separately
	// from the install itself.
	ChecksumTimeout time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

// Client implements device.Manager over SSH. It is stateless; every
// session is opened explicitly through Dial.
type Client struct {
	cfg ClientConfig
}

// NewClient creates a Client, applying defaults for unset fields.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.InstallTimeout == 0 {
		cfg.InstallTimeout = defaultInstallTimeout
	}
	if cfg.ChecksumTimeout == 0 {
		cfg.ChecksumTimeout = defaultChecksumTimeout
	}
	if cfg.HostKeyCallback == nil {
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Device host keys rotate with the image
	}
	return &Client{cfg: cfg}
}

// Dial opens one authenticated session. No retry; a failed attempt is
// reported upward so callers own the retry policy.
func (c *Client) Dial(ctx context.Context, creds device.Credentials) (device.Session, error) {
	sshCfg := &ssh.ClientConfig{
		User: creds.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(creds.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				// Some Junos builds only offer keyboard-interactive auth;
				// answer every question with the password.
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = creds.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: c.cfg.HostKeyCallback,
		Timeout:         c.cfg.DialTimeout,
	}

	addr := net.JoinHostPort(creds.Host, strconv.Itoa(c.cfg.Port))

	dialer := &net.Dialer{Timeout: c.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}

	return &Session{client: ssh.NewClient(sshConn, chans, reqs)}, nil
}

// Session is an authenticated SSH connection to one device.
type Session struct {
	client *ssh.Client
	closed bool
}

// Close tears down the connection. Safe to call more than once.
func (s *Session) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	return s.client.Close()
}

// run executes one CLI command in a fresh SSH channel, bounded by timeout
// and the caller's context.
func (s *Session) run(ctx context.Context, timeout time.Duration, command string) (string, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open channel on %v: %w", s.client.RemoteAddr(), err)
	}
	defer func() { _ = sess.Close() }()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, runErr := sess.CombinedOutput(command)
		done <- result{out: out, err: runErr}
	}()

	select {
	case <-ctx.Done():
		// Closing the channel unblocks the remote command.
		_ = sess.Close()
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return string(r.out), fmt.Errorf("command %q failed: %w", command, r.err)
		}
		return string(r.out), nil
	}
}

// asSession unwraps the facade session type.
func asSession(s device.Session) (*Session, error) {
	js, ok := s.(*Session)
	if !ok || js == nil {
		return nil, fmt.Errorf("session %T is not a junos session", s)
	}
	return js, nil
}
