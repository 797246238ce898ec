package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/junup/cmd/junup/handlers"
	"github.com/imamik/junup/internal/config"
)

// Facts returns the command that prints device facts without changing
// anything, useful for checking reachability and the running version
// before an upgrade.
func Facts() *cobra.Command {
	var (
		configPath string
		host       string
		user       string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Print device facts (hostname, model, running version)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := handlers.FactsOptions{
				ConfigPath: configPath,
				Request: config.Request{
					Host:     host,
					User:     user,
					Password: password,
				},
			}
			return handlers.Facts(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to request YAML file")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Device hostname or IP")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Username for device authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (omit for secure prompt)")

	return cmd
}
