/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes one full benchmark session against a target executable.

REQUIREMENTS:
  User-specified:
  - One positional argument: the target executable (must exist).
  - Optional output directory (created if absent, default ./test_results).

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.
  - Ctrl-C must still tear down both external processes.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns classified errors (internal/model) so main.go can pick the exit code.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Validate -> Engine.Run.

USAGE:
  frame-runner run ./kkrieger.exe -o ./results

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/daryltucker/frame-runner/internal/config"
	"github.com/daryltucker/frame-runner/internal/engine"
	"github.com/daryltucker/frame-runner/internal/model"
	"github.com/daryltucker/frame-runner/internal/output"
	"github.com/spf13/cobra"
)

var (
	outputOverride string
	strictOverride bool
)

var runCmd = &cobra.Command{
	Use:   "run <target-executable>",
	Short: "Run one benchmark session",
	Long: `Runs one benchmark session against the target executable.
The session follows a strict sequence:
1. Clears stale exports and launches the benchmark tool.
2. Launches the target and waits for its loading screen to end (pixel polling).
3. Dismisses the opening prompts and takes the first screenshot.
4. Toggles capture on, plays the scripted hold sequence, toggles capture off.
5. Takes the second screenshot and terminates the target, then the tool.
6. Reads the tool's export and writes the average frame rate to average_fps.txt.

Both processes are terminated on every exit path, including Ctrl-C.`,
	Example: `  # Run with defaults (uses frame_runner.yaml)
  frame-runner run ./kkrieger.exe

  # Custom output directory and a hard failure when the average is missing
  frame-runner run ./kkrieger.exe -o ./benchmarks --strict`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2. Overrides
		target := filepath.Clean(args[0])
		info, err := os.Stat(target)
		if err != nil {
			return model.Wrap(model.InvalidPath, "target", err)
		}
		if info.IsDir() {
			return model.Errorf(model.InvalidPath, "target", "%s is a directory", target)
		}
		cfg.TargetPath = target
		cfg.OutputDir = outputOverride
		if strictOverride {
			cfg.Summary.Strict = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return model.Errorf(model.InvalidPath, "output", "failed to create output directory %s: %w", cfg.OutputDir, err)
		}
		output.Logger.Debug("Effective configuration", "config", cfg.Describe())

		// 3. Execution
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := engine.Run(ctx, cfg)
		if err != nil {
			return err
		}
		output.Logger.Info("Test completed", "session", report.ID, "average_fps", report.Average, "summary", report.SummaryFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputOverride, "output", "o", config.DefaultOutputDir, "Output directory for screenshots, summary and session report")
	runCmd.Flags().BoolVar(&strictOverride, "strict", false, "Fail when the export has no average value instead of writing None")
}
