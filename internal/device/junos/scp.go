package junos

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/imamik/junup/internal/device"
)

// Upload copies a local file into a remote directory using the SCP sink
// protocol over a fresh SSH channel. It fails fast with device.ErrLocalFile
// before opening the channel if the local file is missing.
func (c *Client) Upload(ctx context.Context, s device.Session, localPath, remotePath string) error {
	js, err := asSession(s)
	if err != nil {
		return err
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("%w: %s", device.ErrLocalFile, localPath)
	}

	f, err := os.Open(localPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	sess, err := js.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open channel for transfer: %w", err)
	}
	defer func() { _ = sess.Close() }()

	stdin, err := sess.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open transfer pipe: %w", err)
	}

	streamErr := make(chan error, 1)
	go func() {
		defer func() { _ = stdin.Close() }()
		// SCP sink header: mode, size, name, then the payload and a
		// zero byte terminator.
		if _, err := fmt.Fprintf(stdin, "C0644 %d %s\n", info.Size(), filepath.Base(localPath)); err != nil {
			streamErr <- err
			return
		}
		if _, err := io.Copy(stdin, f); err != nil {
			streamErr <- err
			return
		}
		_, err := stdin.Write([]byte{0})
		streamErr <- err
	}()

	runDone := make(chan error, 1)
	go func() {
		runDone <- sess.Run("scp -t " + remotePath)
	}()

	select {
	case <-ctx.Done():
		_ = sess.Close()
		return ctx.Err()
	case err := <-runDone:
		if err != nil {
			return fmt.Errorf("scp to %s failed: %w", remotePath, err)
		}
	}

	if err := <-streamErr; err != nil {
		return fmt.Errorf("scp stream to %s failed: %w", remotePath, err)
	}
	return nil
}
