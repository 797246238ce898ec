package junos

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/imamik/junup/internal/device"
)

// Install installs an already-staged package (no-copy mode) and reports
// whether the device accepted it. The staged file's sha256 checksum is
// computed on the device first; an unreadable package is reported as a
// rejected install, not a transport error.
func (c *Client) Install(ctx context.Context, s device.Session, imageName, remotePath string) (bool, string, error) {
	js, err := asSession(s)
	if err != nil {
		return false, "", err
	}

	pkg := path.Join(remotePath, path.Base(imageName))

	sumOut, err := js.run(ctx, c.cfg.ChecksumTimeout, "file checksum sha-256 "+pkg)
	if err != nil {
		if ctx.Err() != nil {
			return false, "", ctx.Err()
		}
		return false, fmt.Sprintf("checksum of %s failed: %v", pkg, err), nil
	}
	if _, ok := parseChecksum(sumOut); !ok {
		return false, fmt.Sprintf("checksum of %s failed: %s", pkg, summarize(sumOut)), nil
	}

	cmd := fmt.Sprintf("request system software add %s no-validate no-copy", pkg)
	out, err := js.run(ctx, c.cfg.InstallTimeout, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return false, "", ctx.Err()
		}
		// A non-zero exit from the install command is the device
		// rejecting the package.
		return false, summarize(out), nil
	}

	if !installSucceeded(out) {
		return false, summarize(out), nil
	}
	return true, summarize(out), nil
}

// Reboot schedules an immediate reboot. The connection usually drops while
// the command is still in flight, so command errors are not reported; only
// failure to open the channel is.
func (c *Client) Reboot(ctx context.Context, s device.Session) error {
	js, err := asSession(s)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sess, err := js.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open channel for reboot: %w", err)
	}
	defer func() { _ = sess.Close() }()

	_ = sess.Run("request system reboot at now")
	return nil
}

// installSucceeded classifies "request system software add" output.
func installSucceeded(out string) bool {
	lower := strings.ToLower(out)
	for _, marker := range []string{"error:", "failed", "aborting"} {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// parseChecksum extracts the digest from "file checksum sha-256" output:
//
//	sha256 (/var/tmp/usb/junos.tgz) = 9f2a...
func parseChecksum(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		_, digest, found := strings.Cut(line, "= ")
		if found && strings.HasPrefix(strings.TrimSpace(line), "sha256") {
			digest = strings.TrimSpace(digest)
			if digest != "" {
				return digest, true
			}
		}
	}
	return "", false
}

// summarize reduces command output to its last non-empty line.
func summarize(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
