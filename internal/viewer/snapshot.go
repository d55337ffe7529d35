package viewer

import (
	"fmt"

	"github.com/Faultbox/ev-configurator/internal/viewer/section"
	"github.com/Faultbox/ev-configurator/internal/viewer/viewmode"
)

// Snapshot is everything the control panel displays, read in one call.
type Snapshot struct {
	Mode           viewmode.Mode
	ExplodeFactor  float64
	AnimationSpeed float64
	SectionOffset  float32
	SectionAxis    section.Axis
	LODLevel       int
	FPS            int
	Playing        bool
	Sequence       string
	CurrentStep    int
	Selected       string
	CameraMoving   bool
	CameraPreset   string
}

// Snapshot returns the current display state.
func (v *Viewer) Snapshot() Snapshot {
	s := Snapshot{
		Mode:           v.modes.Mode(),
		ExplodeFactor:  v.modes.Animator().Factor(),
		AnimationSpeed: v.modes.Animator().Speed(),
		SectionOffset:  v.section.Offset(),
		SectionAxis:    v.section.Axis(),
		LODLevel:       v.detail.Level(),
		FPS:            v.detail.FPS(),
		Playing:        v.sequencer.IsPlaying(),
		Sequence:       v.sequencer.Name(),
		CurrentStep:    v.sequencer.CurrentStep(),
		Selected:       v.selected,
	}
	if t := v.cameras.Active(); t != nil {
		s.CameraMoving = true
		s.CameraPreset = t.End.Name
	}
	return s
}

// Status formats the snapshot as a one-line summary for the window title.
// The fps segment is left out unless showFPS is set.
func (s Snapshot) Status(showFPS bool) string {
	line := fmt.Sprintf("%s %3.0f%%", s.Mode, s.ExplodeFactor*100)
	if showFPS {
		line += fmt.Sprintf(" | fps %d", s.FPS)
	}
	line += fmt.Sprintf(" | lod %d", s.LODLevel)
	if s.Mode == viewmode.CrossSection {
		line += fmt.Sprintf(" | plane %s=%.1f", s.SectionAxis, s.SectionOffset)
	}
	if s.Playing {
		line += fmt.Sprintf(" | %s step %d", s.Sequence, s.CurrentStep+1)
	}
	if s.Selected != "" {
		line += " | " + s.Selected
	}
	return line
}
