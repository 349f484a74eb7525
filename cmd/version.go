package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rebind",
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is set in root.go from the build-time value.
			fmt.Fprintf(cmd.OutOrStdout(), "rebind version %s\n", rootCmd.Version)
		},
	}
}
