// Package picking casts rays from the cursor into the scene.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/ev-configurator/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB builds a box from two opposite corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)},
		Max: math.Vec3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)},
	}
}

// BoxAround returns the box centred on center with the given half-size.
func BoxAround(center, extents math.Vec3) AABB {
	return NewAABB(center.Sub(extents), center.Add(extents))
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	near := unproject(invViewProj, ndcX, ndcY, -1)
	far := unproject(invViewProj, ndcX, ndcY, 1)
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// unproject maps an NDC point back to world space.
func unproject(invViewProj math.Mat4, x, y, z float32) math.Vec3 {
	p := invViewProj.TransformPoint([3]float32{x, y, z})
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectAABB tests the ray against box with the slab method. It returns
// the entry distance, or the exit distance when the ray starts inside.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin, dir := r.Origin.Array(), r.Direction.Array()
	lo, hi := box.Min.Array(), box.Max.Array()
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectPlane intersects the ray with the plane n·p + d = 0, as produced
// by a cross-section clip plane.
func (r Ray) IntersectPlane(plane [4]float32) (math.Vec3, bool) {
	n := math.Vec3{X: plane[0], Y: plane[1], Z: plane[2]}
	denom := n.Dot(r.Direction)
	if math32.Abs(denom) < 1e-4 {
		return math.Vec3{}, false // parallel
	}
	t := -(n.Dot(r.Origin) + plane[3]) / denom
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}
