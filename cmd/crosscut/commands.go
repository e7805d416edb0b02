package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/crosscut/pkg/choreo"
	"github.com/taigrr/crosscut/pkg/config"
	"github.com/taigrr/crosscut/pkg/explorer"
	"github.com/taigrr/crosscut/pkg/geometry"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
	"github.com/taigrr/crosscut/pkg/render"
	"github.com/taigrr/crosscut/pkg/section"
)

func newRenderCmd() *cobra.Command {
	var (
		cut         cutOptions
		size        string
		out         string
		align       bool
		noIndicator bool
		axes        bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one cut to a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			w, h, err := parseSize(size)
			if err != nil {
				return fmt.Errorf("--size: %w", err)
			}
			mesh, pose, err := cut.resolve()
			if err != nil {
				return err
			}
			plane := pose.Plane()

			fb := render.NewFramebuffer(w, h)
			cam := render.NewCamera()
			cam.SetFOV(cfg.FOV())
			cam.SetAspectRatio(float64(w) / float64(h))
			opts := cfg.ChoreoOptions()
			eye := opts.DefaultEye
			if align {
				eye = choreo.AlignTarget(plane.Normal, opts.Standoff)
			}
			cam.SetPosition(eye)
			cam.LookAt(math3d.Zero3())

			sr := section.NewRenderer(render.NewRasterizer(cam, fb), cfg.SectionOptions())
			res := sr.Render(mesh, plane, !noIndicator)
			if axes {
				render.NewWireframe(sr.Rasterizer(), render.ColorWhite).DrawAxes(math3d.Zero3(), explorer.ModelRadius*1.25)
			}
			if err := fb.SavePNG(out); err != nil {
				return err
			}
			log.LogVf("passes: %+v", res.Passes)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d cap pixels)\n", out, w, h, res.CapPixels())
			return nil
		},
	}
	cut.bind(cmd)
	cmd.Flags().StringVar(&size, "size", "640x480", "Image size as WxH")
	cmd.Flags().StringVarP(&out, "out", "o", "crosscut.png", "Output PNG path")
	cmd.Flags().BoolVar(&align, "align", false, "View the cut face-on from the removed side")
	cmd.Flags().BoolVar(&noIndicator, "no-indicator", false, "Hide the plane outline, as when frozen")
	cmd.Flags().BoolVar(&axes, "axes", false, "Overlay the X, Y and Z axes")
	return cmd
}

func newSectionCmd() *cobra.Command {
	var (
		cut      cutOptions
		estimate bool
		res      int
	)
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Report the cross-section of one cut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadConfig(cmd, nil); err != nil {
				return err
			}
			mesh, pose, err := cut.resolve()
			if err != nil {
				return err
			}
			plane := pose.Plane()
			sec, err := section.Slice(mesh, plane)
			if err != nil {
				return fmt.Errorf("section %s: %w", mesh.Name, err)
			}
			w := cmd.OutOrStdout()
			printSection(w, mesh.Name, sec)
			if !estimate {
				return nil
			}
			if cut.model != "" {
				return errors.New("--estimate needs a catalog solid")
			}
			k, _ := geometry.ParseKind(cut.solid)
			s, err := geometry.SDF(k)
			if err != nil {
				return err
			}
			est := geometry.EstimateArea(s, plane, geometry.Extent(), res)
			fmt.Fprintf(w, "SDF area:   %s\n", estimateLine(est, sec.Area))
			return nil
		},
	}
	cut.bind(cmd)
	cmd.Flags().BoolVar(&estimate, "estimate", false, "Cross-check the area against the solid's distance field")
	cmd.Flags().IntVar(&res, "res", 400, "Sample grid resolution for --estimate")
	return cmd
}

// estimateLine formats the SDF estimate with its deviation from the mesh
// area. A zero mesh area has no meaningful ratio.
func estimateLine(est, area float64) string {
	if area == 0 {
		return fmt.Sprintf("%.4f", est)
	}
	return fmt.Sprintf("%.4f (%+.2f%%)", est, 100*(est-area)/area)
}

func printSection(w io.Writer, name string, sec *section.Section) {
	n, c := sec.Plane.Normal, sec.Centroid()
	fmt.Fprintf(w, "Solid:      %s\n", name)
	fmt.Fprintf(w, "Plane:      %.4fx %+.4fy %+.4fz %+.4f = 0\n", n.X, n.Y, n.Z, sec.Plane.D)
	fmt.Fprintf(w, "Contours:   %d\n", len(sec.Contours))
	if open := sec.Open(); open > 0 {
		fmt.Fprintf(w, "Open:       %d (mesh is not watertight, open contours have no area)\n", open)
	}
	fmt.Fprintf(w, "Area:       %.4f\n", sec.Area)
	fmt.Fprintf(w, "Perimeter:  %.4f\n", sec.Perimeter)
	fmt.Fprintf(w, "Centroid:   (%.3f, %.3f, %.3f)\n", c.X, c.Y, c.Z)
}

func newExportCmd() *cobra.Command {
	var (
		cut cutOptions
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the capped cut solid as STL or GLB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadConfig(cmd, nil); err != nil {
				return err
			}
			mesh, pose, err := cut.resolve()
			if err != nil {
				return err
			}
			solid, sec, err := section.CutSolid(mesh, pose.Plane())
			if err != nil {
				return err
			}
			if !solid.IsClosed() {
				log.Warnf("%s: cut solid is not watertight", solid.Name)
			}
			if err := models.SaveModel(out, solid); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d triangles, cap area %.4f, volume %.4f)\n",
				out, solid.TriangleCount(), sec.Area, solid.SignedVolume())
			return nil
		},
	}
	cut.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "cut.stl", "Output path (.stl or .glb)")
	return cmd
}

func newConfigCmd() *cobra.Command {
	opts := &exploreOptions{}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration the explorer would run with: defaults,
overridden by --config, overridden by flags. The output is a valid
config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	opts.bind(cmd)
	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the built-in solids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-4s %-14s %9s %9s %8s\n", "KEY", "SOLID", "TRIANGLES", "VOLUME", "AREA")
			for i, k := range geometry.Kinds() {
				m := geometry.Generate(k)
				fmt.Fprintf(w, "%-4c %-14s %9d %9.4f %8.4f\n",
					rune(explorer.SolidKeys[i]), k, m.TriangleCount(), math.Abs(m.SignedVolume()), m.SurfaceArea())
			}
			return nil
		},
	}
}
