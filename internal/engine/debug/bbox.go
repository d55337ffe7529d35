// Package debug provides wireframe geometry and screenshot capture for the
// viewer.
package debug

import "github.com/Faultbox/ev-configurator/pkg/math"

// BoxVertexCount is the number of vertices in a box wireframe (12 edges × 2).
const BoxVertexCount = 24

// HighlightPadding is how far the selection outline sits outside a group's
// box.
const HighlightPadding = 0.08

// BoxLines creates line vertices for a wireframe box between min and max.
// Format: [x, y, z] per vertex.
func BoxLines(min, max math.Vec3) []float32 {
	minX, minY, minZ := min.X, min.Y, min.Z
	maxX, maxY, maxZ := max.X, max.Y, max.Z
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// UnitBoxLines is the wireframe of the box from (-1,-1,-1) to (1,1,1). Scaled
// by a group's extents and translated to its position it outlines the group.
func UnitBoxLines() []float32 {
	return BoxLines(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
}

// GridLines generates a square ground grid on the plane y = height, from
// -half to +half on X and Z, one line every spacing units.
// Format: [x, y, z] per vertex.
func GridLines(half, spacing, height float32) []float32 {
	if spacing <= 0 || half <= 0 {
		return nil
	}
	n := int(half / spacing)
	vertices := make([]float32, 0, (2*n+1)*12)
	for i := -n; i <= n; i++ {
		c := float32(i) * spacing
		vertices = append(vertices,
			c, height, -half, c, height, half, // along Z
			-half, height, c, half, height, c, // along X
		)
	}
	return vertices
}

// GridSpacing returns the ground grid spacing for a detail level. Coarser
// levels draw fewer lines.
func GridSpacing(level int) float32 {
	switch {
	case level <= 0:
		return 0.5
	case level == 1:
		return 1
	default:
		return 2
	}
}
