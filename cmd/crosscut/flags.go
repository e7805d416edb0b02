package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/crosscut/pkg/config"
	"github.com/taigrr/crosscut/pkg/cutplane"
	"github.com/taigrr/crosscut/pkg/explorer"
	"github.com/taigrr/crosscut/pkg/geometry"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
)

// exploreOptions are the flags shared by the root and explore commands.
type exploreOptions struct {
	solid   string
	model   string
	mode    string
	fps     int
	noWatch bool
}

func (o *exploreOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.solid, "solid", "", "Initial solid ("+strings.Join(geometry.Names(), ", ")+")")
	f.StringVar(&o.model, "model", "", "STL, OBJ or GLB file to slice instead of a catalog solid")
	f.StringVar(&o.mode, "mode", "", "Initial interaction mode (camera or knife)")
	f.IntVar(&o.fps, "fps", 0, "Target FPS")
	f.BoolVar(&o.noWatch, "no-watch", false, "Do not reload --model when it changes")
}

// loadConfig reads --config and applies the flags the user set on top.
func loadConfig(cmd *cobra.Command, o *exploreOptions) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if o != nil {
		if f.Changed("solid") {
			cfg.Solid = o.solid
		}
		if f.Changed("model") {
			cfg.Model = o.model
		}
		if f.Changed("mode") {
			cfg.Mode = o.mode
		}
		if f.Changed("fps") {
			cfg.FPS = o.fps
		}
		if o.noWatch {
			cfg.Watch = false
		}
	}
	if lvl, _ := f.GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := log.SetLogLevelStr(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("log level: %w", err)
	}
	return cfg, nil
}

// cutOptions describe one static cut for the batch commands.
type cutOptions struct {
	solid    string
	model    string
	rot      string
	pos      string
	sdfCells int
}

func (o *cutOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.solid, "solid", geometry.Box.String(), "Solid ("+strings.Join(geometry.Names(), ", ")+")")
	f.StringVar(&o.model, "model", "", "STL, OBJ or GLB file instead of a catalog solid")
	f.StringVar(&o.rot, "rot", "0,0,0", "Plane orientation as X,Y,Z Euler angles in radians")
	f.StringVar(&o.pos, "pos", "0,0,0", "A point the plane passes through")
	f.IntVar(&o.sdfCells, "sdf-cells", 0, "Mesh the solid's distance field with this many marching cubes cells instead")
}

// resolve builds the mesh and the plane pose.
func (o *cutOptions) resolve() (*models.Mesh, cutplane.Model, error) {
	var pose cutplane.Model
	rot, err := parseVec3(o.rot)
	if err != nil {
		return nil, pose, fmt.Errorf("--rot: %w", err)
	}
	pos, err := parseVec3(o.pos)
	if err != nil {
		return nil, pose, fmt.Errorf("--pos: %w", err)
	}
	pose = cutplane.Model{Position: pos, Orientation: math3d.Euler{X: rot.X, Y: rot.Y, Z: rot.Z}}

	if o.model != "" {
		if o.sdfCells > 0 {
			return nil, pose, errors.New("--sdf-cells needs a catalog solid")
		}
		mesh, err := models.LoadModel(o.model, explorer.ModelRadius)
		if err != nil {
			return nil, pose, err
		}
		return mesh, pose, nil
	}
	k, ok := geometry.ParseKind(o.solid)
	if !ok {
		return nil, pose, fmt.Errorf("unknown solid %q (want one of %s)", o.solid, strings.Join(geometry.Names(), ", "))
	}
	if o.sdfCells > 0 {
		mesh, err := geometry.Tessellate(k, o.sdfCells)
		if err != nil {
			return nil, pose, err
		}
		log.LogVf("tessellated %s: %d triangles", k, mesh.TriangleCount())
		return mesh, pose, nil
	}
	return geometry.Generate(k), pose, nil
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("want WxH, got %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if width <= 0 || height <= 0 || width > 8192 || height > 8192 {
		return 0, 0, fmt.Errorf("size %dx%d out of range", width, height)
	}
	return width, height, nil
}
