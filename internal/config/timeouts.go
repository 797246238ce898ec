package config

import (
	"os"
	"time"
)

// Timeouts holds the operational timeout values that are not part of the
// request itself. Each can be overridden via an environment variable.
type Timeouts struct {
	Dial          time.Duration // TCP/SSH dial timeout per connection attempt
	Settle        time.Duration // grace period after reboot before probing starts
	ProbeInterval time.Duration // delay between reconnection probes
	Install       time.Duration // budget for the software add operation
	Checksum      time.Duration // budget for the remote checksum computation
}

// LoadTimeouts loads timeout configuration from environment variables.
// If a variable is not set or invalid, the default value is used.
//
// Environment Variables:
//   - JUNUP_TIMEOUT_DIAL (default: 30s)
//   - JUNUP_TIMEOUT_SETTLE (default: 12m)
//   - JUNUP_TIMEOUT_PROBE_INTERVAL (default: 10s)
//   - JUNUP_TIMEOUT_INSTALL (default: 40m)
//   - JUNUP_TIMEOUT_CHECKSUM (default: 400s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Dial:          parseDuration("JUNUP_TIMEOUT_DIAL", 30*time.Second),
		Settle:        parseDuration("JUNUP_TIMEOUT_SETTLE", 12*time.Minute),
		ProbeInterval: parseDuration("JUNUP_TIMEOUT_PROBE_INTERVAL", 10*time.Second),
		Install:       parseDuration("JUNUP_TIMEOUT_INSTALL", 40*time.Minute),
		Checksum:      parseDuration("JUNUP_TIMEOUT_CHECKSUM", 400*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
