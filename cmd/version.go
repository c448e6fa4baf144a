// =============================================================================
// Transibase - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   transibase version
//
// OUTPUT:
//   Transibase
//   Version:    1.0.0
//   Build Date: 2025-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/quebecstudio/transibase/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Transibase")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
