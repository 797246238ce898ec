// Package handlers implements the command logic behind the CLI surface.
package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/junup/internal/config"
	"github.com/imamik/junup/internal/device/junos"
	"github.com/imamik/junup/internal/ui"
	"github.com/imamik/junup/internal/upgrade"
)

// UpgradeOptions contains options for the upgrade command.
type UpgradeOptions struct {
	ConfigPath string
	LogFile    string
	Verbose    bool
	Request    config.Request
}

// Upgrade handles the upgrade command.
//
// It resolves the request (flags > file > environment > defaults), prompts
// for the password when absent, then hands control to the orchestrator and
// renders its terminal outcome. The returned error is non-nil exactly when
// the process should exit non-zero.
func Upgrade(ctx context.Context, opts UpgradeOptions) error {
	req, err := config.Resolve(opts.Request, opts.ConfigPath)
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

	observer, cleanup, err := buildObserver(opts.LogFile, opts.Verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	timeouts := config.LoadTimeouts()
	client := junos.NewClient(junos.ClientConfig{
		DialTimeout:     timeouts.Dial,
		InstallTimeout:  timeouts.Install,
		ChecksumTimeout: timeouts.Checksum,
	})
	sessions := upgrade.NewSessionManager(client, timeouts, observer)
	orchestrator := upgrade.New(client, sessions, observer)

	result := orchestrator.Run(ctx, req)
	fmt.Print(ui.Summary(result))

	if !result.Outcome.Succeeded() {
		return fmt.Errorf("upgrade finished: %s", result.Outcome)
	}
	return nil
}

// buildObserver wires the console observer, plus the persistent log file
// unless disabled with an empty path.
func buildObserver(logFile string, verbose bool) (upgrade.Observer, func(), error) {
	console := upgrade.NewConsoleObserver()
	console.Verbose = verbose

	if logFile == "" {
		return console, func() {}, nil
	}

	fileObs, err := upgrade.NewFileObserver(logFile)
	if err != nil {
		return nil, nil, err
	}
	return upgrade.MultiObserver{console, fileObs}, func() { _ = fileObs.Close() }, nil
}
