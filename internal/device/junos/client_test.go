package junos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/junup/internal/device"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(ClientConfig{})

	assert.Equal(t, defaultPort, c.cfg.Port)
	assert.Equal(t, defaultDialTimeout, c.cfg.DialTimeout)
	assert.Equal(t, defaultInstallTimeout, c.cfg.InstallTimeout)
	assert.Equal(t, defaultChecksumTimeout, c.cfg.ChecksumTimeout)
	assert.NotNil(t, c.cfg.HostKeyCallback)
}

func TestNewClient_ExplicitValues(t *testing.T) {
	c := NewClient(ClientConfig{
		Port:            2222,
		DialTimeout:     5 * time.Second,
		InstallTimeout:  time.Hour,
		ChecksumTimeout: time.Minute,
	})

	assert.Equal(t, 2222, c.cfg.Port)
	assert.Equal(t, 5*time.Second, c.cfg.DialTimeout)
	assert.Equal(t, time.Hour, c.cfg.InstallTimeout)
	assert.Equal(t, time.Minute, c.cfg.ChecksumTimeout)
}

func TestSessionClose_Idempotent(t *testing.T) {
	// A session that was never connected closes cleanly, repeatedly.
	var s *Session
	assert.NoError(t, s.Close())

	s = &Session{closed: true}
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestAsSession_WrongType(t *testing.T) {
	type otherSession struct{ device.Session }

	_, err := asSession(&otherSession{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a junos session")
}

func TestAsSession_Nil(t *testing.T) {
	var s *Session

	_, err := asSession(s)
	require.Error(t, err)
}
