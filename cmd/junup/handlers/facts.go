package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/junup/internal/config"
	"github.com/imamik/junup/internal/device"
	"github.com/imamik/junup/internal/device/junos"
)

// FactsOptions contains options for the facts command.
type FactsOptions struct {
	ConfigPath string
	Request    config.Request
}

// Facts handles the facts command. It opens a single session, reads the
// device identity and prints it.
func Facts(ctx context.Context, opts FactsOptions) error {
	req, err := config.ResolveConnection(opts.Request, opts.ConfigPath)
	if err != nil {
		return err
	}

	if req.Password == "" {
		password, err := config.PromptPassword(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve password: %w", err)
		}
		req.Password = password
	}

	timeouts := config.LoadTimeouts()
	client := junos.NewClient(junos.ClientConfig{DialTimeout: timeouts.Dial})

	sess, err := client.Dial(ctx, device.Credentials{
		Host:     req.Host,
		User:     req.User,
		Password: req.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", req.Host, err)
	}
	defer func() { _ = sess.Close() }()

	facts, err := client.ReadFacts(ctx, sess)
	if err != nil {
		return fmt.Errorf("failed to read device facts: %w", err)
	}

	fmt.Printf("Hostname: %s\n", facts.Hostname)
	fmt.Printf("Model:    %s\n", facts.Model)
	fmt.Printf("Version:  %s\n", facts.Version)
	return nil
}
