package main

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/taigrr/crosscut/pkg/config"
	"github.com/taigrr/crosscut/pkg/geometry"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
	"github.com/taigrr/crosscut/pkg/session"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestParseVec3(t *testing.T) {
	v, err := parseVec3("1, -2.5,3e-1")
	if err != nil {
		t.Fatal(err)
	}
	if v != math3d.V3(1, -2.5, 0.3) {
		t.Errorf("parseVec3 = %v", v)
	}

	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c"} {
		if _, err := parseVec3(bad); err == nil {
			t.Errorf("parseVec3(%q) succeeded", bad)
		}
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("320X200")
	if err != nil {
		t.Fatal(err)
	}
	if w != 320 || h != 200 {
		t.Errorf("parseSize = %dx%d", w, h)
	}

	for _, bad := range []string{"320", "0x10", "ax10", "10xb", "10000x10"} {
		if _, _, err := parseSize(bad); err == nil {
			t.Errorf("parseSize(%q) succeeded", bad)
		}
	}
}

func TestCatalog(t *testing.T) {
	out := mustRun(t, "catalog")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(geometry.Kinds())+1 {
		t.Fatalf("%d lines, want header plus %d solids", len(lines), len(geometry.Kinds()))
	}
	if !strings.Contains(lines[1], "box") {
		t.Errorf("first row = %q, want box", lines[1])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "-") {
		t.Errorf("last row = %q, want key -", lines[len(lines)-1])
	}
}

func TestSectionReport(t *testing.T) {
	out := mustRun(t, "section", "--solid", "box", "--estimate", "--res", "200")
	for _, want := range []string{"Area:       2.5600", "Perimeter:  6.4000", "SDF area:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Open:") {
		t.Errorf("closed solid reported open contours:\n%s", out)
	}
}

func TestSectionReportsOpenMesh(t *testing.T) {
	box := geometry.Generate(geometry.Box)
	open := models.NewMesh("open")
	for i := range box.TriangleCount() {
		if box.FaceNormal(i).X > 0.5 {
			continue
		}
		a, b, c := box.Triangle(i)
		open.AddFlatTriangle(a, b, c)
	}
	path := filepath.Join(t.TempDir(), "open.stl")
	if err := models.SaveModel(path, open); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "section", "--model", path)
	if !strings.Contains(out, "Open:") || !strings.Contains(out, "Area:       0.0000") {
		t.Errorf("open mesh not reported:\n%s", out)
	}
}

func TestEstimateLine(t *testing.T) {
	if got := estimateLine(2, 0); got != "2.0000" {
		t.Errorf("zero area: %q, want no ratio", got)
	}
	if got := estimateLine(1.1, 1); got != "1.1000 (+10.00%)" {
		t.Errorf("estimateLine = %q", got)
	}
}

func TestSectionMiss(t *testing.T) {
	_, err := run(t, "section", "--solid", "sphere", "--pos", "0,4,0")
	if err == nil || !strings.Contains(err.Error(), "does not intersect") {
		t.Errorf("err = %v, want a miss", err)
	}
}

func TestSectionUnknownSolid(t *testing.T) {
	if _, err := run(t, "section", "--solid", "teapot"); err == nil {
		t.Error("unknown solid accepted")
	}
}

func TestSectionOfTessellatedSolid(t *testing.T) {
	out := mustRun(t, "section", "--solid", "sphere", "--sdf-cells", "48")
	if !strings.Contains(out, "sphere-sdf") {
		t.Errorf("tessellated mesh not used:\n%s", out)
	}

	_, err := run(t, "section", "--model", "part.stl", "--sdf-cells", "10")
	if err == nil {
		t.Error("--sdf-cells with --model accepted")
	}
}

func TestRenderWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.png")
	out := mustRun(t, "render", "--solid", "cylinder", "--rot", "0.3,0,0", "--size", "64x48", "--align", "--axes", "-o", path)
	if !strings.Contains(out, "64x48") {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("not a PNG")
	}
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cut.stl", "cut.glb"} {
		path := filepath.Join(dir, name)
		mustRun(t, "export", "--solid", "box", "--pos", "0,0.1,0", "-o", path)

		m, err := models.LoadModel(path, 0)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !m.IsClosed() {
			t.Errorf("%s: not closed", name)
		}
		if want := 1.6 * 1.6 * 0.7; math.Abs(m.SignedVolume()-want) > 1e-4 {
			t.Errorf("%s: volume = %v, want %v", name, m.SignedVolume(), want)
		}
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := run(t, "export", "-o", filepath.Join(t.TempDir(), "cut.obj"))
	if !errors.Is(err, models.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestConfigCommandPrintsLayeredConfig(t *testing.T) {
	out := mustRun(t, "config", "--solid", "torus", "--fps", "24")
	cfg := config.Default()
	if err := config.Decode([]byte(out), &cfg); err != nil {
		t.Fatalf("output is not a valid config: %v\n%s", err, out)
	}
	if cfg.SolidKind() != geometry.Torus || cfg.FPS != 24 {
		t.Errorf("solid=%v fps=%d", cfg.SolidKind(), cfg.FPS)
	}
}

func TestConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crosscut.toml")
	if err := os.WriteFile(path, []byte("solid = \"torus\"\nfps = 24\nmode = \"camera\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	load := func(args ...string) (config.Config, error) {
		opts := &exploreOptions{}
		cmd := &cobra.Command{Use: "explore"}
		cmd.Flags().String("config", "", "")
		cmd.Flags().String("log-level", "", "")
		opts.bind(cmd)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}
		return loadConfig(cmd, opts)
	}

	cfg, err := load("--config", path, "--fps", "30", "--mode", "knife")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SolidKind() != geometry.Torus {
		t.Errorf("solid = %v, file value should be kept", cfg.SolidKind())
	}
	if cfg.FPS != 30 || cfg.InitialMode() != session.ModeKnife {
		t.Errorf("fps=%d mode=%v, flags should beat the file", cfg.FPS, cfg.InitialMode())
	}
	if !cfg.Watch {
		t.Error("watch should default on")
	}

	cfg, err = load("--config", path, "--no-watch")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 24 || cfg.Watch {
		t.Errorf("fps=%d watch=%v", cfg.FPS, cfg.Watch)
	}

	if _, err := load("--mode", "scalpel"); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}
