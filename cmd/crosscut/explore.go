package main

import (
	"fmt"
	"time"

	"fortio.org/log"
	"fortio.org/terminal/ansipixels"
	"fortio.org/terminal/ansipixels/tcolor"
	"github.com/spf13/cobra"

	"github.com/taigrr/crosscut/pkg/explorer"
	"github.com/taigrr/crosscut/pkg/input"
	"github.com/taigrr/crosscut/pkg/render"
	"github.com/taigrr/crosscut/pkg/session"
	"github.com/taigrr/crosscut/pkg/watcher"
)

// termHost is the terminal side of pointer handling. Terminals have no
// pointer capture or cursor shapes.
type termHost struct{}

func (termHost) SetPointerCapture(int) error     { return nil }
func (termHost) ReleasePointerCapture(int) error { return nil }
func (termHost) SetCursor(c input.Cursor)        { log.Debugf("cursor %s", c) }

// HUD renders an overlay with the cut's state.
type HUD struct {
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw renders the HUD overlay. The status line is always shown.
func (h *HUD) Draw(ap *ansipixels.AnsiPixels, st explorer.Stats) {
	status := tcolor.Cyan.Foreground() + st.Mode.String()
	if st.Mode == session.ModeKnife {
		status = tcolor.BrightYellow.Foreground() + "knife"
	}
	if st.Frozen {
		status += tcolor.BrightRed.Foreground() + " ❄ frozen"
	}
	ap.WriteAt(0, ap.H-1, "%s%s", status, tcolor.Reset)
	if st.LoadError != nil {
		ap.WriteCentered(ap.H-1, "%sreload failed: %v%s", tcolor.Red.Foreground(), st.LoadError, tcolor.Reset)
	}
	ap.WriteRight(ap.H-1, "%s?: help%s", tcolor.Yellow.Foreground(), tcolor.Reset)

	if !h.show {
		return
	}
	// Top left: FPS
	ap.WriteAt(0, 0, tcolor.Green.Foreground()+"%.0f FPS "+tcolor.Reset, h.fps)
	// Top middle: solid
	ap.WriteCentered(0, "%s", st.Solid)
	// Top right: triangle count
	ap.WriteRight(0, tcolor.Cyan.Foreground()+"%d tris"+tcolor.Reset, st.Triangles)

	n := st.Plane.Normal
	ap.WriteAt(0, 1, "plane %.2fx %+.2fy %+.2fz %+.2f = 0", n.X, n.Y, n.Z, st.Plane.D)
	if st.Section != nil {
		line := fmt.Sprintf("area %.3f  perimeter %.3f  contours %d",
			st.Section.Area, st.Section.Perimeter, len(st.Section.Contours))
		if open := st.Section.Open(); open > 0 {
			line += fmt.Sprintf(" %s(%d open)%s", tcolor.Yellow.Foreground(), open, tcolor.Reset)
		}
		ap.WriteAt(0, 2, "%s", line)
	} else {
		ap.WriteAt(0, 2, "plane misses the solid")
	}
	ap.WriteAt(0, 3, "1-9 0 -: solid  k: mode  f: freeze  v: align  r: reset  wasdqe: tilt")
}

func runExplore(cmd *cobra.Command, o *exploreOptions) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	st := session.New(cfg.SolidKind())
	st.SetMode(cfg.InitialMode())

	ap := ansipixels.NewAnsiPixels(float64(cfg.FPS))
	if err := ap.Open(); err != nil {
		return fmt.Errorf("open ansipixels: %w", err)
	}
	defer func() {
		ap.ShowCursor()
		ap.MouseTrackingOff()
		ap.Out.Flush()
		ap.Restore()
	}()
	ap.SyncBackgroundColor()
	ap.MouseTrackingOn()
	ap.HideCursor()

	// Half-block characters give two pixels per cell vertically.
	fb := render.NewFramebuffer(ap.W, ap.H*2)
	fb.BG = render.RGB(ap.Background.R, ap.Background.G, ap.Background.B)

	e := explorer.New(fb, st, explorer.Options{
		FPS:        cfg.FPS,
		FOV:        cfg.FOV(),
		Thresholds: cfg.Thresholds(),
		Choreo:     cfg.ChoreoOptions(),
		Section:    cfg.SectionOptions(),
		Host:       termHost{},
	})
	// Terminals only report single clicks.
	e.Input.SynthesizeDoubleClick = true

	if cfg.Model != "" {
		if err := e.LoadModel(cfg.Model); err != nil {
			return err
		}
		if cfg.Watch {
			fw, err := watcher.NewFileWatcher(cfg.WatchDebounce())
			if err != nil {
				return err
			}
			defer fw.Close()
			if err := fw.Watch(cfg.Model); err != nil {
				return err
			}
			fw.Start()
			e.SetReloads(fw.Changes())
		}
	}
	log.Infof("exploring %s in %s mode", st.SolidName(), st.Mode)

	hud := NewHUD()

	ap.OnMouse = func() {
		ev := input.PointerEvent{
			ID:     1,
			Button: input.ButtonPrimary,
			X:      float64(ap.Mx),
			Y:      float64(ap.My * 2),
			Time:   time.Now(),
		}
		switch {
		case ap.MouseWheelUp():
			e.Wheel(1)
		case ap.MouseWheelDown():
			e.Wheel(-1)
		case ap.LeftClick():
			e.PointerDown(ev)
		case ap.LeftDrag():
			e.PointerMove(ev)
		case ap.MouseRelease():
			e.PointerUp(ev)
		default:
			e.PointerMove(ev)
		}
	}
	// Update framebuffer and camera aspect ratio on terminal resize
	ap.OnResize = func() error {
		e.Resize(ap.W, ap.H*2)
		return nil
	}

	err = ap.FPSTicks(func() bool {
		for _, b := range ap.Data {
			switch b {
			case 27: // Escape; longer sequences are arrow keys and the like
				if len(ap.Data) == 1 {
					return false
				}
			case 3, 4: // Ctrl-C, Ctrl-D
				return false
			case '?':
				hud.show = !hud.show
			default:
				if !e.Key(rune(b)) {
					log.LogVf("unbound key %q", b)
				}
			}
			if b == 27 {
				break
			}
		}

		stats := e.Frame(time.Now())

		ap.StartSyncMode()
		ap.ClearScreen()
		if err := ap.ShowScaledImage(fb.ToImage()); err != nil {
			log.Errf("show image: %v", err)
			return false
		}
		hud.UpdateFPS()
		hud.Draw(ap, stats)
		ap.EndSyncMode()
		return true
	})
	if err != nil {
		return fmt.Errorf("main loop: %w", err)
	}
	return nil
}
