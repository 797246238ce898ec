package junos

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/imamik/junup/internal/device"
)

// ReadFacts reads the current device facts via "show version".
func (c *Client) ReadFacts(ctx context.Context, s device.Session) (device.Facts, error) {
	js, err := asSession(s)
	if err != nil {
		return device.Facts{}, err
	}

	out, err := js.run(ctx, defaultCommandTimeout, "show version")
	if err != nil {
		return device.Facts{}, fmt.Errorf("failed to read facts: %w", err)
	}

	facts := parseFacts(out)
	if facts.Version == "" {
		return device.Facts{}, fmt.Errorf("no Junos version in %q output", "show version")
	}
	return facts, nil
}

// parseFacts extracts hostname, model, and version from "show version"
// output. The output is line-oriented:
//
//	Hostname: srx300-lab
//	Model: srx300
//	Junos: 24.2R2.18
//	...
func parseFacts(out string) device.Facts {
	var facts device.Facts

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Hostname:"):
			facts.Hostname = strings.TrimSpace(strings.TrimPrefix(line, "Hostname:"))
		case strings.HasPrefix(line, "Model:"):
			facts.Model = strings.TrimSpace(strings.TrimPrefix(line, "Model:"))
		case strings.HasPrefix(line, "Junos:"):
			facts.Version = strings.TrimSpace(strings.TrimPrefix(line, "Junos:"))
		}
	}

	return facts
}
