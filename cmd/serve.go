package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rebind/internal/app"
)

// serveDebug enables verbose logging across the application, overriding
// the logging level from the configuration file.
var serveDebug bool

// serveConfigPath specifies a custom configuration file path. When
// empty, the default XDG location is used.
var serveConfigPath string

// serveCmd defines the serve command structure. This is the main
// command of rebind: it binds the configured sockets, serves them, and
// keeps reconciling against the configuration file until terminated.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rebind daemon",
	Long: `Starts the daemon: binds the listening sockets described by the
configuration file and serves them until the process is terminated.

The configuration file is watched; editing it (or sending SIGHUP)
reconciles the running sockets against the new contents without
restarting the process. Listeners that did not change keep serving,
including their established connections.

Configuration:
  By default rebind reads $XDG_CONFIG_HOME/rebind/config.yaml. A missing
  file is not an error; the daemon starts idle and picks listeners up as
  soon as the file appears.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to the configuration file")
}
