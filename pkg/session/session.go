// Package session owns the explorer's mutable state: the cut plane, the
// interaction mode, the freeze flag, the current solid and the one-shot
// trigger counters. Components receive a *State instead of sharing globals.
package session

import (
	"strings"

	"fortio.org/log"

	"github.com/taigrr/crosscut/pkg/cutplane"
	"github.com/taigrr/crosscut/pkg/geometry"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
)

// Mode decides which pointer buttons rotate the plane and which orbit the view.
type Mode int

const (
	ModeCamera Mode = iota
	ModeKnife
)

func (m Mode) String() string {
	if m == ModeKnife {
		return "knife"
	}
	return "camera"
}

// ParseMode accepts "camera" or "knife", case-insensitive.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "camera":
		return ModeCamera, true
	case "knife":
		return ModeKnife, true
	}
	return ModeCamera, false
}

// State is the session. It is not safe for concurrent use; the frame loop
// and the input handlers share one goroutine.
type State struct {
	Plane  cutplane.Model
	Mode   Mode
	Frozen bool

	Solid geometry.Kind
	Mesh  *models.Mesh
	// Source names an imported model file; empty for catalog solids.
	Source string

	// Edge-triggered counters. Zero means never fired.
	AlignTrigger uint64
	ResetTrigger uint64
}

// New starts a session on solid k with the identity plane in camera mode.
func New(k geometry.Kind) *State {
	s := &State{}
	s.SelectSolid(k)
	return s
}

// SelectSolid regenerates the mesh and resets the plane pose. The previous
// mesh is released.
func (s *State) SelectSolid(k geometry.Kind) {
	if !k.Valid() {
		k = geometry.Box
	}
	s.replaceMesh(geometry.Generate(k))
	s.Solid = k
	s.Source = ""
}

// SetModel installs an imported mesh as if a new solid had been selected.
func (s *State) SetModel(source string, mesh *models.Mesh) {
	s.replaceMesh(mesh)
	s.Source = source
}

func (s *State) replaceMesh(mesh *models.Mesh) {
	old := s.Mesh
	s.Mesh = mesh
	if old != nil && old != mesh {
		old.Release()
	}
	s.Plane.Reset()
}

// SolidName is the catalog name or the imported model's source.
func (s *State) SolidName() string {
	if s.Source != "" {
		return s.Source
	}
	return s.Solid.String()
}

// SetMode switches the interaction mode.
func (s *State) SetMode(m Mode) {
	s.Mode = m
}

// ToggleMode flips between camera and knife.
func (s *State) ToggleMode() {
	if s.Mode == ModeKnife {
		s.Mode = ModeCamera
	} else {
		s.Mode = ModeKnife
	}
}

// RequestAlign fires the align trigger.
func (s *State) RequestAlign() {
	s.AlignTrigger++
}

// Reset restores the identity plane, camera mode and an unfrozen cut, and
// fires the reset trigger so the camera snaps back too.
func (s *State) Reset() {
	s.Plane.Reset()
	s.Mode = ModeCamera
	s.Frozen = false
	s.ResetTrigger++
}

// Equation derives the current plane equation.
func (s *State) Equation() math3d.Plane {
	return s.Plane.Plane()
}

// Edge turns a monotonically increasing counter into one-shot events.
type Edge struct {
	seen uint64
}

// Changed reports whether v differs from the last value seen and records it.
// Zero never fires.
func (e *Edge) Changed(v uint64) bool {
	if v == 0 || v == e.seen {
		return false
	}
	e.seen = v
	return true
}

// Dispatch applies a menu event.
func (s *State) Dispatch(ev Event) {
	ev.apply(s)
	log.S(log.Info, "session event",
		log.Str("event", ev.String()),
		log.Str("solid", s.SolidName()),
		log.Str("mode", s.Mode.String()),
		log.Attr("frozen", s.Frozen))
}
