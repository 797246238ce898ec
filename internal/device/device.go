// Package device defines the capability surface the upgrade orchestrator
// needs from a managed Junos device: opening sessions, reading facts,
// listing and staging files, and driving install/reboot.
//
// Implementations live in subpackages (see device/junos for the SSH-backed
// one). The orchestrator depends only on these interfaces so tests can
// substitute in-memory fakes.
package device

import (
	"context"
	"errors"
)

// ErrUnavailable indicates a remote query could not be served, e.g. the
// staging directory does not exist or the listing RPC failed. Callers treat
// it as "feature unavailable", not as a fatal transport error.
var ErrUnavailable = errors.New("remote listing unavailable")

// ErrLocalFile indicates the local image file does not exist on disk.
var ErrLocalFile = errors.New("local image file not found")

// Credentials holds what is needed to authenticate against the device.
type Credentials struct {
	Host     string
	User     string
	Password string
}

// Session is an authenticated connection handle to the device.
// Close is idempotent; closing an already-closed session is a no-op.
type Session interface {
	Close() error
}

// Facts is a snapshot of device-reported attributes. It must be re-read
// after a reboot; the version is expected to change across that boundary.
type Facts struct {
	Hostname string
	Model    string
	Version  string
}

// Listing is the result of a remote directory listing.
type Listing struct {
	Entries []string
}

// Contains reports whether the listing includes the exact filename.
func (l Listing) Contains(name string) bool {
	for _, e := range l.Entries {
		if e == name {
			return true
		}
	}
	return false
}

// Dialer opens a single authenticated session. One attempt only; retry
// policy belongs to the caller.
type Dialer interface {
	Dial(ctx context.Context, creds Credentials) (Session, error)
}

// FactsReader reads the current device facts over an open session.
type FactsReader interface {
	ReadFacts(ctx context.Context, s Session) (Facts, error)
}

// FileManager lists and stages files on the device filesystem.
type FileManager interface {
	// List returns the contents of a remote directory. A failed remote
	// query is reported as ErrUnavailable.
	List(ctx context.Context, s Session, remotePath string) (Listing, error)

	// Upload copies a local file into remotePath. It fails fast with
	// ErrLocalFile if the local file is absent.
	Upload(ctx context.Context, s Session, localPath, remotePath string) error
}

// Installer drives package installation and reboot.
type Installer interface {
	// Install installs an already-staged image (no-copy mode). ok reports
	// whether the device accepted the package; msg carries the device's
	// own summary either way. err is reserved for transport failures.
	Install(ctx context.Context, s Session, imageName, remotePath string) (ok bool, msg string, err error)

	// Reboot schedules a reboot. Returning does not imply the device has
	// gone down, only that the reboot was accepted.
	Reboot(ctx context.Context, s Session) error
}

// Manager bundles every capability the orchestrator needs.
type Manager interface {
	Dialer
	FactsReader
	FileManager
	Installer
}
