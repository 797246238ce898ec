// Package main is the entry point for the junup CLI.
//
// junup upgrades the Junos OS on a single network device over SSH: it
// verifies the running version, stages the install image, installs it,
// reboots the device, waits for it to come back, and confirms the new
// version.
//
// For detailed usage information, run:
//
//	junup --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/junup/cmd/junup/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Interruption is honored at the outermost boundary; the orchestrator
	// maps it to its own terminal outcome and still closes the session.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
