// Package section holds the cross-section plane state.
package section

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/ev-configurator/pkg/math"
)

// Plane offset limits, matching the control panel slider.
const (
	MinOffset = -3.0
	MaxOffset = 3.0
)

// ErrUnknownAxis is returned when parsing an axis name fails.
var ErrUnknownAxis = errors.New("section: unknown axis")

// Axis selects the world axis the section plane is perpendicular to.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Valid reports whether a is X, Y or Z.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Normal returns the unit vector along the axis.
func (a Axis) Normal() math.Vec3 {
	switch a {
	case AxisY:
		return math.Vec3{Y: 1}
	case AxisZ:
		return math.Vec3{Z: 1}
	}
	return math.Vec3{X: 1}
}

// ParseAxis converts "x", "y" or "z" (any case) to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// State is the plane offset and axis. The zero value is the X plane through
// the origin.
type State struct {
	offset float32
	axis   Axis
}

// Offset returns the plane position along the axis.
func (s *State) Offset() float32 {
	return s.offset
}

// SetOffset moves the plane, clamped to [MinOffset, MaxOffset].
func (s *State) SetOffset(offset float32) {
	if offset != offset { // NaN
		return
	}
	s.offset = math.Clamp(offset, MinOffset, MaxOffset)
}

// Axis returns the selected axis.
func (s *State) Axis() Axis {
	return s.axis
}

// SetAxis selects the axis. Invalid values are ignored and false is returned.
func (s *State) SetAxis(a Axis) bool {
	if !a.Valid() {
		return false
	}
	s.axis = a
	return true
}

// Point returns the position of the plane's anchor in world space.
func (s *State) Point() math.Vec3 {
	return s.axis.Normal().Scale(s.offset)
}

// ClipPlane returns the plane as (nx, ny, nz, d) such that points with
// n·p + d >= 0 are kept. The kept half-space is the one below the offset, so
// moving the plane forward reveals more of the model.
func (s *State) ClipPlane() [4]float32 {
	n := s.axis.Normal().Scale(-1)
	return [4]float32{n.X, n.Y, n.Z, s.offset}
}
