/*
PURPOSE:
  Defines the 'probe' subcommand.
  Helps debug readiness detection and display access.

REQUIREMENTS:
  User-specified:
  - Show what the readiness detector would see.

  Implementation-discovered:
  - Useful validation step before a full run (is $DISPLAY reachable, does
    XTEST load, which red value does the loading screen show).

ARCHITECTURE INTEGRATION:
  - Calls: internal/desktop.OpenX11()

ERROR HANDLING:
  - Display open, size and pixel read failures -> model.IOFailure.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  frame-runner probe --samples 10

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/readiness.go (SamplePoint is shared with the detector)

MAINTENANCE:
  - None.
*/

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/daryltucker/frame-runner/internal/config"
	"github.com/daryltucker/frame-runner/internal/desktop"
	"github.com/daryltucker/frame-runner/internal/engine"
	"github.com/daryltucker/frame-runner/internal/model"
	"github.com/spf13/cobra"
)

var (
	displayOverride string
	probeSamples    int
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print the screen size and the color at the readiness sample point",
	RunE: func(cmd *cobra.Command, args []string) error {
		// the probe only needs display and sample settings
		cfg, err := config.Load(cfgFile)
		if err != nil {
			if !errors.Is(err, model.ConfigurationMissing) {
				return err
			}
			cfg = config.DefaultConfig()
		}
		if displayOverride != "" {
			cfg.Display = displayOverride
		}

		x, err := desktop.OpenX11(cfg.Display)
		if err != nil {
			return model.Wrap(model.IOFailure, "probe", err)
		}
		defer x.Close()

		w, h, err := x.Size()
		if err != nil {
			return model.Wrap(model.IOFailure, "probe", err)
		}
		px, py := engine.SamplePoint(w, h, cfg.Readiness.SampleX, cfg.Readiness.SampleY)
		fmt.Printf("Display: %dx%d\n", w, h)
		fmt.Printf("Sample point: (%d,%d), loading palette: %v\n", px, py, cfg.Readiness.LoadingPalette)

		for i := 0; i < probeSamples; i++ {
			if i > 0 {
				time.Sleep(cfg.Readiness.PollInterval)
			}
			c, err := x.Pixel(px, py)
			if err != nil {
				return model.Wrap(model.IOFailure, "probe", err)
			}
			fmt.Printf("- rgb(%d,%d,%d)\n", c.R, c.G, c.B)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringVar(&displayOverride, "display", "", "X display to open (default $DISPLAY)")
	probeCmd.Flags().IntVarP(&probeSamples, "samples", "n", 1, "Number of samples, taken at the poll interval")
}
