/*
PURPOSE:
  Defines the root Cobra command for the Frame Runner CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Logger must be configured before any subcommand logs.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/frame-runner/main.go
  - Calls: Child commands (run, collect, probe)
  - Modifies: Global logger (internal/output).

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
  - Cobra's own error printing is silenced; main.go prints once.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to init().

RELATED FILES:
  - cmd/frame-runner/main.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"os"

	"github.com/daryltucker/frame-runner/internal/output"
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string
	logJSON bool
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "frame-runner",
		Short: "Automated frame-rate benchmark sessions for interactive applications",
		Long: `Drives a target application through a scripted benchmark session while an external
frame-rate tool records it, then reduces the tool's export to an average. Use 'run --help' for options.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.Configure(os.Stdout, logJSON, verbose)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./frame_runner.yaml)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON even on a terminal")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log readiness samples and the effective configuration")
}
