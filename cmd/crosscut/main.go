// crosscut - Terminal 3D Cross-Section Explorer
// Slice solids with a movable plane and inspect the filled cut.
//
// Controls:
//
//	Mouse move  - Steer the plane position
//	Click       - Freeze the cut (camera mode); click again quickly to unfreeze
//	Drag        - Orbit the camera (camera mode) or tilt the plane (knife mode)
//	Scroll      - Zoom in/out
//	W/S A/D Q/E - Tilt the plane around X, Y and Z
//	1-9 0 -     - Select a solid
//	K           - Toggle camera/knife mode
//	F           - Freeze/unfreeze
//	V           - Align the view with the cut
//	R           - Reset plane and camera
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &exploreOptions{}
	cmd := &cobra.Command{
		Use:   "crosscut",
		Short: "Terminal 3D cross-section explorer",
		Long: `crosscut - Terminal 3D Cross-Section Explorer

Position and tilt a cutting plane through a solid and see the cut
rendered as a filled cap.

Controls:
  Mouse move  - Steer the plane
  Click       - Freeze (camera mode), double-click to unfreeze
  Drag        - Orbit (camera mode) / tilt plane (knife mode)
  Scroll      - Zoom
  W/S A/D Q/E - Tilt plane
  1-9 0 -     - Select solid
  K F V R     - Mode, freeze, align view, reset
  ?           - Toggle HUD
  Esc         - Quit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplore(cmd, opts)
		},
	}
	cmd.PersistentFlags().String("config", "", "Path to a TOML config file")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, verbose, info, warning, error)")
	opts.bind(cmd)

	explore := &cobra.Command{
		Use:   "explore",
		Short: "Open the interactive explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplore(cmd, opts)
		},
	}
	opts.bind(explore)

	cmd.AddCommand(explore, newRenderCmd(), newSectionCmd(), newExportCmd(), newConfigCmd(), newCatalogCmd())
	return cmd
}
