package math

import "github.com/chewxy/math32"

// EaseInOutCosine maps linear progress in [0,1] to a blend weight with zero
// slope at both ends: 0.5 - 0.5*cos(t*pi). Input is clamped.
func EaseInOutCosine(t float32) float32 {
	t = Clamp01(t)
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return 0.5 - 0.5*math32.Cos(t*math32.Pi)
}

// Clamp01 clamps t to [0,1]. NaN clamps to 0.
func Clamp01(t float32) float32 {
	if !(t > 0) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Clamp clamps v to [lo,hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
