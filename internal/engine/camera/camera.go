// Package camera provides the orbit camera rig, the named preset registry and
// the eased preset transition engine.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/ev-configurator/pkg/math"
)

// Rig is anything holding a camera pose: an eye position and a look-at target.
type Rig interface {
	Pose() (position, target math.Vec3)
	SetPose(position, target math.Vec3)
}

// OrbitCamera orbits around a look-at target. The pose is stored directly so
// presets round-trip exactly; drag and zoom work in spherical coordinates
// derived from it.
type OrbitCamera struct {
	Eye    math.Vec3
	Target math.Vec3

	// Constraints
	MinDistance float32
	MaxDistance float32
	MaxPitch    float32 // absolute pitch limit, radians

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings, looking at
// the origin from the overview position.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Eye:             math.Vec3{X: 8, Y: 6, Z: 8},
		MinDistance:     1.5,
		MaxDistance:     40.0,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Pose returns the eye position and look-at target.
func (c *OrbitCamera) Pose() (position, target math.Vec3) {
	return c.Eye, c.Target
}

// SetPose places the camera. No constraints are applied, so preset poses such
// as the straight-down top view are reproduced exactly.
func (c *OrbitCamera) SetPose(position, target math.Vec3) {
	c.Eye = position
	c.Target = target
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye, c.Target, math.Vec3{Y: 1})
}

// spherical returns distance, pitch and yaw of the eye relative to the target.
func (c *OrbitCamera) spherical() (dist, pitch, yaw float32) {
	off := c.Eye.Sub(c.Target)
	dist = off.Length()
	if dist == 0 {
		return 0, 0, 0
	}
	pitch = math32.Asin(math.Clamp(off.Y/dist, -1, 1))
	yaw = math32.Atan2(off.X, off.Z)
	return dist, pitch, yaw
}

func (c *OrbitCamera) setSpherical(dist, pitch, yaw float32) {
	c.Eye = math.Vec3{
		X: c.Target.X + dist*math32.Cos(pitch)*math32.Sin(yaw),
		Y: c.Target.Y + dist*math32.Sin(pitch),
		Z: c.Target.Z + dist*math32.Cos(pitch)*math32.Cos(yaw),
	}
}

// HandleDrag orbits the eye around the target based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	dist, pitch, yaw := c.spherical()
	if dist == 0 {
		return
	}
	yaw -= deltaX * c.DragSensitivity
	pitch = math.Clamp(pitch+deltaY*c.DragSensitivity, -c.MaxPitch, c.MaxPitch)
	c.setSpherical(dist, pitch, yaw)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	dist, pitch, yaw := c.spherical()
	if dist == 0 {
		return
	}
	dist -= delta * dist * c.ZoomSensitivity
	dist = math.Clamp(dist, c.MinDistance, c.MaxDistance)
	c.setSpherical(dist, pitch, yaw)
}

// HandleMovement pans eye and target together on the ground plane.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	dist, _, yaw := c.spherical()
	// Speed scales with distance for consistent feel
	speed := dist * 0.01

	dirX, dirZ := math32.Sin(yaw), math32.Cos(yaw)
	rightX, rightZ := math32.Cos(yaw), -math32.Sin(yaw)

	// Negate forward so moving forward goes "into" the scene
	d := math.Vec3{
		X: (-dirX*forward + rightX*right) * speed,
		Y: up * speed,
		Z: (-dirZ*forward + rightZ*right) * speed,
	}
	c.Eye = c.Eye.Add(d)
	c.Target = c.Target.Add(d)
}
