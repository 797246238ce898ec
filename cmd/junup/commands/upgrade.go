package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/junup/cmd/junup/handlers"
	"github.com/imamik/junup/internal/config"
)

// Upgrade returns the command that drives a full device upgrade.
//
// Every flag has an environment fallback (JUNOS_HOST, JUNOS_USER,
// JUNOS_PASSWORD, JUNOS_IMAGE, JUNOS_IMAGE_PATH, REMOTE_PATH,
// EXPECTED_VERSION), resolved with priority flag > config file > env >
// default. The password is prompted for interactively when absent.
func Upgrade() *cobra.Command {
	var (
		configPath      string
		host            string
		user            string
		password        string
		image           string
		localPath       string
		remotePath      string
		expectedVersion string
		timeoutSeconds  int
		logFile         string
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the device to the target Junos image",
		Long: `Upgrade a Junos device to the target image.

The upgrade sequence:
1. Connects and reads the running version; exits early if it already
   matches the expected prefix
2. Stages the image at the remote path, copying it only when absent
3. Installs the image in no-copy mode and triggers a reboot
4. Waits out a settle period, then probes until the device is back online
5. Re-reads the version and verifies it against the expected prefix

Exit code 0 means the device runs the expected version (upgraded or
already current); any other terminal state exits 1.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := handlers.UpgradeOptions{
				ConfigPath: configPath,
				LogFile:    logFile,
				Verbose:    verbose,
				Request: config.Request{
					Host:            host,
					User:            user,
					Password:        password,
					ImageName:       image,
					LocalDir:        localPath,
					RemotePath:      remotePath,
					ExpectedVersion: expectedVersion,
					RebootTimeout:   time.Duration(timeoutSeconds) * time.Second,
				},
			}
			return handlers.Upgrade(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to request YAML file")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Device hostname or IP")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Username for device authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (omit for secure prompt)")
	cmd.Flags().StringVarP(&image, "image", "i", "", "Junos image filename")
	cmd.Flags().StringVarP(&localPath, "local-path", "l", "", "Local directory containing the image")
	cmd.Flags().StringVarP(&remotePath, "remote-path", "r", "", "Remote staging path on the device (default /var/tmp/usb)")
	cmd.Flags().StringVarP(&expectedVersion, "expected-version", "e", "", "Expected version prefix after upgrade")
	cmd.Flags().IntVarP(&timeoutSeconds, "timeout", "t", 0, "Reboot timeout in seconds (default 720)")
	cmd.Flags().StringVar(&logFile, "log-file", "junup.log", "Log file accumulating events across runs (empty to disable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every reconnection probe attempt")

	return cmd
}
