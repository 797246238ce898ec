package junos

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/imamik/junup/internal/device"
)

// List returns the contents of a remote directory via "file list". A failed
// command maps to device.ErrUnavailable: a missing staging directory means
// "nothing staged there", not a broken run.
func (c *Client) List(ctx context.Context, s device.Session, remotePath string) (device.Listing, error) {
	js, err := asSession(s)
	if err != nil {
		return device.Listing{}, err
	}

	out, err := js.run(ctx, defaultCommandTimeout, "file list "+remotePath)
	if err != nil {
		return device.Listing{}, fmt.Errorf("%w: %v", device.ErrUnavailable, err)
	}
	if strings.Contains(out, "could not resolve file") || strings.Contains(out, "No such file or directory") {
		return device.Listing{}, fmt.Errorf("%w: %s", device.ErrUnavailable, remotePath)
	}

	return parseListing(out), nil
}

// parseListing extracts entry names from "file list" output:
//
//	/var/tmp/usb:
//	junos-install-srx-24.2R2.18.tgz
//	notes.txt
//	subdir/
//
// The directory header line is skipped; trailing slashes on directory
// entries are removed.
func parseListing(out string) device.Listing {
	var entries []string

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		entries = append(entries, strings.TrimSuffix(line, "/"))
	}

	return device.Listing{Entries: entries}
}
