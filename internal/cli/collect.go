/*
PURPOSE:
  Defines the 'collect' subcommand.
  Re-summarizes an export that already exists, without launching anything.

REQUIREMENTS:
  User-specified:
  - Same summary output as a full run.

  Implementation-discovered:
  - Handy after a run that was interrupted between teardown and summary,
    or for exports copied from another machine.

ARCHITECTURE INTEGRATION:
  - Calls: internal/output.Collector, internal/output.Summarizer

ERROR HANDLING:
  - No config and no export-dir -> model.ConfigurationMissing.
  - Collector/Summarizer errors are returned unchanged (exit code by kind).

IMPLEMENTATION RULES:
  - Flags are bound to collect's own variables, never to run's.

USAGE:
  frame-runner collect /opt/fraps/benchmarks -o ./test_results

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/cli/run.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/daryltucker/frame-runner/internal/config"
	"github.com/daryltucker/frame-runner/internal/model"
	"github.com/daryltucker/frame-runner/internal/output"
	"github.com/spf13/cobra"
)

var (
	collectOutput string
	collectStrict bool
)

var collectCmd = &cobra.Command{
	Use:   "collect [export-dir]",
	Short: "Summarize an existing benchmark export without running a session",
	Long: `Reads the single export in the benchmark tool's output directory (or export-dir)
and writes the average frame-rate summary. Without export-dir a config file is required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			// an explicit directory is enough to work with defaults
			if len(args) == 0 || !errors.Is(err, model.ConfigurationMissing) {
				return err
			}
			cfg = config.DefaultConfig()
		}
		if len(args) == 1 {
			cfg.BenchmarkTool.OutputDir = args[0]
		}
		if cfg.BenchmarkTool.OutputDir == "" {
			return model.Errorf(model.ConfigurationMissing, "collect", "benchmark_tool.output_dir is required")
		}
		if collectStrict {
			cfg.Summary.Strict = true
		}
		if err := os.MkdirAll(collectOutput, 0755); err != nil {
			return model.Errorf(model.InvalidPath, "output", "failed to create output directory %s: %w", collectOutput, err)
		}

		c := &output.Collector{Dir: cfg.BenchmarkTool.OutputDir, Ext: cfg.BenchmarkTool.ExportExt}
		rec, path, err := c.CollectLatest()
		if err != nil {
			return err
		}
		s := &output.Summarizer{
			Field:  cfg.BenchmarkTool.AverageField,
			File:   cfg.Summary.File,
			Strict: cfg.Summary.Strict,
		}
		summary, value, err := s.Summarize(rec, collectOutput)
		if err != nil {
			return err
		}

		output.Logger.Info("Summary written", "export", path, "file", summary)
		fmt.Printf("Average FPS: %s\n", value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", config.DefaultOutputDir, "Directory for the summary file")
	collectCmd.Flags().BoolVar(&collectStrict, "strict", false, "Fail when the export has no average value")
}
