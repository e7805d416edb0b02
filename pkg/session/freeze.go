package session

// Freeze locks the cut. Knife mode is left for camera mode so no new plane
// drag can start; orientation is otherwise untouched.
func (s *State) Freeze() {
	s.Frozen = true
	s.Mode = ModeCamera
}

// Unfreeze releases the cut. The plane pose is not modified.
func (s *State) Unfreeze() {
	s.Frozen = false
}

// ToggleFreeze flips the freeze gate.
func (s *State) ToggleFreeze() {
	if s.Frozen {
		s.Unfreeze()
	} else {
		s.Freeze()
	}
}

// CanMutate reports whether input may change the plane.
func (s *State) CanMutate() bool {
	return !s.Frozen
}
