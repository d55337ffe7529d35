package viewer

import (
	"github.com/Faultbox/ev-configurator/internal/viewer/explode"
	"github.com/Faultbox/ev-configurator/pkg/math"
)

// Backend is the render side the viewer drives. The viewer registers exactly
// one frame callback and writes group positions and the camera pose from it.
type Backend interface {
	explode.NodeWriter
	SetCameraPose(position, target math.Vec3)
	OnFrame(func(dt float64))
}

// SectionRenderer is implemented by backends that can clip the model with
// the cross-section plane.
type SectionRenderer interface {
	SetClipPlane(plane [4]float32, enabled bool)
}

// DetailRenderer is implemented by backends that honour the adaptive detail
// level.
type DetailRenderer interface {
	SetDetailLevel(level int)
}

// HighlightRenderer is implemented by backends that can mark the focused
// subsystem.
type HighlightRenderer interface {
	SetHighlight(id string)
}
