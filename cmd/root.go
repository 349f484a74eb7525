package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"rebind/internal/config"
)

// Exit codes for CLI commands.
// These follow common conventions so scripts and unit files can react
// to why the process stopped.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeBadConfig indicates the configuration file failed validation.
	ExitCodeBadConfig = 2
)

// rootCmd represents the base command for the rebind daemon.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rebind",
	Short: "Network daemon that rebinds its listening sockets at runtime",
	Long: `rebind serves simple TCP and UDP protocols on a set of listening
sockets described by its configuration file, and reconciles the running
sockets against that file whenever it changes: new bindings come up,
removed ones are torn down synchronously and untouched ones keep their
connections, all without restarting the process.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This is called from the main package to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "rebind version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return ExitCodeBadConfig
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
