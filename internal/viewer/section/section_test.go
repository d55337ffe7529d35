package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ev-configurator/pkg/math"
)

func TestZeroValue(t *testing.T) {
	var s State
	assert.Equal(t, AxisX, s.Axis())
	assert.Equal(t, float32(0), s.Offset())
}

func TestSetOffsetClamps(t *testing.T) {
	var s State
	s.SetOffset(1.5)
	assert.Equal(t, float32(1.5), s.Offset())
	s.SetOffset(10)
	assert.Equal(t, float32(MaxOffset), s.Offset())
	s.SetOffset(-10)
	assert.Equal(t, float32(MinOffset), s.Offset())

	nan := float32(0)
	nan = nan / nan
	s.SetOffset(nan)
	assert.Equal(t, float32(MinOffset), s.Offset(), "NaN leaves the plane where it was")
}

func TestSetAxis(t *testing.T) {
	var s State
	assert.True(t, s.SetAxis(AxisZ))
	assert.False(t, s.SetAxis(Axis(7)))
	assert.Equal(t, AxisZ, s.Axis())
}

func TestParseAxis(t *testing.T) {
	for in, want := range map[string]Axis{"x": AxisX, "Y": AxisY, " z ": AxisZ} {
		got, err := ParseAxis(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAxis("w")
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestPointAndClipPlane(t *testing.T) {
	var s State
	s.SetAxis(AxisY)
	s.SetOffset(2)
	assert.Equal(t, math.Vec3{Y: 2}, s.Point())

	plane := s.ClipPlane()
	keep := func(p math.Vec3) bool {
		return plane[0]*p.X+plane[1]*p.Y+plane[2]*p.Z+plane[3] >= 0
	}
	assert.True(t, keep(math.Vec3{Y: 1}))
	assert.False(t, keep(math.Vec3{Y: 2.5}))
}
