package session

import "github.com/taigrr/crosscut/pkg/geometry"

// Event is a discrete menu action.
type Event interface {
	apply(s *State)
	String() string
}

// SelectSolidEvent switches the solid.
type SelectSolidEvent struct{ Kind geometry.Kind }

// ToggleFreezeEvent flips the freeze gate.
type ToggleFreezeEvent struct{}

// ResetEvent resets the plane, mode, freeze flag and camera.
type ResetEvent struct{}

// AlignViewEvent moves the camera to face the cap.
type AlignViewEvent struct{}

// SetModeEvent picks the interaction mode.
type SetModeEvent struct{ Mode Mode }

// ToggleModeEvent flips between camera and knife.
type ToggleModeEvent struct{}

func (e SelectSolidEvent) apply(s *State) { s.SelectSolid(e.Kind) }
func (ToggleFreezeEvent) apply(s *State)  { s.ToggleFreeze() }
func (ResetEvent) apply(s *State)         { s.Reset() }
func (AlignViewEvent) apply(s *State)     { s.RequestAlign() }
func (e SetModeEvent) apply(s *State)     { s.SetMode(e.Mode) }
func (ToggleModeEvent) apply(s *State)    { s.ToggleMode() }

func (e SelectSolidEvent) String() string { return "select " + e.Kind.String() }
func (ToggleFreezeEvent) String() string  { return "toggle-freeze" }
func (ResetEvent) String() string         { return "reset" }
func (AlignViewEvent) String() string     { return "align" }
func (e SetModeEvent) String() string     { return "mode " + e.Mode.String() }
func (ToggleModeEvent) String() string    { return "toggle-mode" }
