// Package config resolves the upgrade request from flags, an optional YAML
// file, environment variables, and defaults, in that priority order. It
// also owns the env-driven timeout knobs and the interactive password
// prompt.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied when neither flags, file, nor environment provide a value.
const (
	DefaultRemotePath      = "/var/tmp/usb"
	DefaultExpectedVersion = "24.2R2.18"
	DefaultRebootTimeout   = 720 * time.Second
)

// Request is the immutable input of one upgrade run.
type Request struct {
	Host            string
	User            string
	Password        string
	ImageName       string
	LocalDir        string
	RemotePath      string
	ExpectedVersion string
	RebootTimeout   time.Duration
}

// LocalImagePath returns the full path of the image on the local filesystem.
func (r Request) LocalImagePath() string {
	return filepath.Join(r.LocalDir, r.ImageName)
}

// RemoteImagePath returns the full path of the image on the device.
func (r Request) RemoteImagePath() string {
	return path.Join(r.RemotePath, r.ImageName)
}

// Validate checks that every field except Password is set. Password is
// resolved separately because it may be prompted for interactively.
func (r Request) Validate() error {
	var missing []string
	if r.Host == "" {
		missing = append(missing, "host")
	}
	if r.User == "" {
		missing = append(missing, "user")
	}
	if r.ImageName == "" {
		missing = append(missing, "image")
	}
	if r.LocalDir == "" {
		missing = append(missing, "local-path")
	}
	if r.RemotePath == "" {
		missing = append(missing, "remote-path")
	}
	if r.ExpectedVersion == "" {
		missing = append(missing, "expected-version")
	}
	if r.RebootTimeout <= 0 {
		missing = append(missing, "timeout")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateConnection checks only the fields needed to open a session.
func (r Request) ValidateConnection() error {
	var missing []string
	if r.Host == "" {
		missing = append(missing, "host")
	}
	if r.User == "" {
		missing = append(missing, "user")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Resolve fills empty fields of the flag-provided request from the optional
// YAML file, then from JUNOS_* environment variables, then from defaults.
// The result is validated; Password may still be empty afterwards.
func Resolve(flags Request, filePath string) (Request, error) {
	req := flags

	if filePath != "" {
		fileReq, err := LoadFile(filePath)
		if err != nil {
			return Request{}, err
		}
		req = merge(req, fileReq)
	}

	req = merge(req, fromEnv())

	if req.RemotePath == "" {
		req.RemotePath = DefaultRemotePath
	}
	if req.ExpectedVersion == "" {
		req.ExpectedVersion = DefaultExpectedVersion
	}
	if req.RebootTimeout <= 0 {
		req.RebootTimeout = DefaultRebootTimeout
	}

	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ResolveConnection is Resolve for commands that only open a session and
// read facts; the image-related fields may stay empty.
func ResolveConnection(flags Request, filePath string) (Request, error) {
	req := flags

	if filePath != "" {
		fileReq, err := LoadFile(filePath)
		if err != nil {
			return Request{}, err
		}
		req = merge(req, fileReq)
	}

	req = merge(req, fromEnv())

	if err := req.ValidateConnection(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// fromEnv builds a request from the JUNOS_* environment variables, so
// .env-style setups work unattended.
func fromEnv() Request {
	return Request{
		Host:            os.Getenv("JUNOS_HOST"),
		User:            os.Getenv("JUNOS_USER"),
		Password:        os.Getenv("JUNOS_PASSWORD"),
		ImageName:       os.Getenv("JUNOS_IMAGE"),
		LocalDir:        os.Getenv("JUNOS_IMAGE_PATH"),
		RemotePath:      os.Getenv("REMOTE_PATH"),
		ExpectedVersion: os.Getenv("EXPECTED_VERSION"),
	}
}

// merge returns base with empty fields filled from fallback.
func merge(base, fallback Request) Request {
	if base.Host == "" {
		base.Host = fallback.Host
	}
	if base.User == "" {
		base.User = fallback.User
	}
	if base.Password == "" {
		base.Password = fallback.Password
	}
	if base.ImageName == "" {
		base.ImageName = fallback.ImageName
	}
	if base.LocalDir == "" {
		base.LocalDir = fallback.LocalDir
	}
	if base.RemotePath == "" {
		base.RemotePath = fallback.RemotePath
	}
	if base.ExpectedVersion == "" {
		base.ExpectedVersion = fallback.ExpectedVersion
	}
	if base.RebootTimeout <= 0 {
		base.RebootTimeout = fallback.RebootTimeout
	}
	return base
}
