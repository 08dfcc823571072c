/*
PURPOSE:
  Defines the configuration structure and loading logic for Frame Runner.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Benchmark tool executable, its output directory, and its capture hotkey are required.
  - Timings of the scripted session are tunable.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Readiness polling must be bounded (max_wait / max_polls).

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine, internal/output
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Missing config file or missing required key -> model.ConfigurationMissing.
  - Invalid file contents or values -> model.ConfigurationMissing with the parse error.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should match the classic run (5s boot delay, 500ms polling, F11 hotkey).

USAGE:
  cfg, err := config.Load("frame_runner.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct, DefaultConfig() and Validate().

RELATED FILES:
  - internal/cli/run.go
  - internal/engine/runner.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/daryltucker/frame-runner/internal/desktop"
	"github.com/daryltucker/frame-runner/internal/model"
	"gopkg.in/yaml.v3"
)

// Stale-result policies for the benchmark tool's output directory.
const (
	StaleRemove  = "remove"
	StaleArchive = "archive"
)

// DefaultOutputDir is where screenshots and summaries go when -o is not given.
const DefaultOutputDir = "./test_results"

// DefaultFiles are searched, in order, when no --config is given.
var DefaultFiles = []string{"frame_runner.yaml", "runner.yaml", "config.yaml"}

// Config represents the full configuration for Frame Runner.
type Config struct {
	BenchmarkTool BenchmarkToolConfig `yaml:"benchmark_tool"`
	// LaunchArgs is appended to both the target and the benchmark tool command lines.
	LaunchArgs []string        `yaml:"launch_args"`
	Readiness  ReadinessConfig `yaml:"readiness"`
	Script     ScriptConfig    `yaml:"script"`
	Summary    SummaryConfig   `yaml:"summary"`
	// Display is the X display to drive; empty means $DISPLAY.
	Display string `yaml:"display"`

	// Set from the command line, not the file.
	TargetPath string `yaml:"-"`
	OutputDir  string `yaml:"-"`
}

// BenchmarkToolConfig describes the external frame-rate measurement tool.
type BenchmarkToolConfig struct {
	Path         string `yaml:"path"`
	OutputDir    string `yaml:"output_dir"`
	Hotkey       string `yaml:"hotkey"`
	StalePolicy  string `yaml:"stale_policy"`
	ExportExt    string `yaml:"export_ext"`
	AverageField string `yaml:"average_field"`
}

// ReadinessConfig tunes the loading-screen detector.
type ReadinessConfig struct {
	BootDelay      time.Duration `yaml:"boot_delay"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxWait        time.Duration `yaml:"max_wait"`
	MaxPolls       int           `yaml:"max_polls"` // 0 = bounded by MaxWait only
	LoadingPalette []int         `yaml:"loading_palette"`
	// SampleX/SampleY locate the sampled pixel; negative means screen center.
	SampleX int `yaml:"sample_x"`
	SampleY int `yaml:"sample_y"`
}

// ScriptConfig holds the fixed timings and keys of the scripted session.
type ScriptConfig struct {
	ToolSettle   time.Duration    `yaml:"tool_settle"`
	PromptDelay  time.Duration    `yaml:"prompt_delay"`
	PromptKeys   []string         `yaml:"prompt_keys"`
	CaptureDelay time.Duration    `yaml:"capture_delay"`
	HoldSteps    []model.HoldStep `yaml:"hold_steps"`
	KillGap      time.Duration    `yaml:"kill_gap"`
}

// SummaryConfig controls the one-line average summary.
type SummaryConfig struct {
	Strict bool   `yaml:"strict"`
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration. The three benchmark tool
// values have no sensible default, except the hotkey.
func DefaultConfig() *Config {
	return &Config{
		BenchmarkTool: BenchmarkToolConfig{
			Hotkey:       "f11",
			StalePolicy:  StaleRemove,
			ExportExt:    ".csv",
			AverageField: "Avg",
		},
		LaunchArgs: []string{"-f"},
		Readiness: ReadinessConfig{
			BootDelay:      5 * time.Second,
			PollInterval:   500 * time.Millisecond,
			MaxWait:        2 * time.Minute,
			LoadingPalette: []int{0, 255},
			SampleX:        -1,
			SampleY:        -1,
		},
		Script: ScriptConfig{
			ToolSettle:   1 * time.Second,
			PromptDelay:  1 * time.Second,
			PromptKeys:   []string{"esc", "enter"},
			CaptureDelay: 700 * time.Millisecond,
			HoldSteps: []model.HoldStep{
				{Key: "s", Hold: 5 * time.Second},
				{Key: "w", Hold: 5 * time.Second},
			},
			KillGap: 1 * time.Second,
		},
		Summary: SummaryConfig{
			File: "average_fps.txt",
		},
		OutputDir: DefaultOutputDir,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// A missing file is an error: the benchmark tool values are required.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, model.Wrap(model.ConfigurationMissing, "load config", err)
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return nil, model.Errorf(model.ConfigurationMissing, "load config",
				"no config file found (tried %s)", strings.Join(DefaultFiles, ", "))
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, model.Errorf(model.ConfigurationMissing, "load config",
			"failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration. TargetPath is not checked here; the
// CLI validates it against the filesystem.
func (c *Config) Validate() error {
	if c.BenchmarkTool.Path == "" {
		return missing("benchmark_tool.path is required")
	}
	if c.BenchmarkTool.OutputDir == "" {
		return missing("benchmark_tool.output_dir is required")
	}
	if c.BenchmarkTool.Hotkey == "" {
		return missing("benchmark_tool.hotkey is required")
	}
	if !desktop.KnownKey(c.BenchmarkTool.Hotkey) {
		return missing("benchmark_tool.hotkey %q is not a known key", c.BenchmarkTool.Hotkey)
	}
	switch c.BenchmarkTool.StalePolicy {
	case StaleRemove, StaleArchive:
	default:
		return missing("benchmark_tool.stale_policy must be %q or %q", StaleRemove, StaleArchive)
	}
	if !strings.HasPrefix(c.BenchmarkTool.ExportExt, ".") {
		return missing("benchmark_tool.export_ext must start with a dot")
	}
	if c.BenchmarkTool.AverageField == "" {
		return missing("benchmark_tool.average_field is required")
	}
	if c.Readiness.PollInterval <= 0 {
		return missing("readiness.poll_interval must be positive")
	}
	if c.Readiness.MaxWait <= 0 && c.Readiness.MaxPolls <= 0 {
		return missing("readiness needs max_wait or max_polls")
	}
	if len(c.Readiness.LoadingPalette) == 0 {
		return missing("readiness.loading_palette must not be empty")
	}
	for _, v := range c.Readiness.LoadingPalette {
		if v < 0 || v > 255 {
			return missing("readiness.loading_palette value %d is outside 0-255", v)
		}
	}
	for _, k := range c.Script.PromptKeys {
		if !desktop.KnownKey(k) {
			return missing("script.prompt_keys: %q is not a known key", k)
		}
	}
	for i, s := range c.Script.HoldSteps {
		if !desktop.KnownKey(s.Key) {
			return missing("script.hold_steps[%d]: %q is not a known key", i, s.Key)
		}
		if s.Hold < 0 {
			return missing("script.hold_steps[%d]: hold must not be negative", i)
		}
	}
	if c.Summary.File == "" {
		return missing("summary.file is required")
	}
	return nil
}

func missing(format string, args ...interface{}) error {
	return model.Errorf(model.ConfigurationMissing, "validate config", format, args...)
}

// Describe renders the effective configuration for debug logging.
func (c *Config) Describe() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return string(out)
}
