package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3LerpEndpoints(t *testing.T) {
	a := Vec3{0.1, -3.3, 7.7}
	b := Vec3{8, 6, 8}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	mid := Vec3{0, 0, 0}.Lerp(Vec3{2, 4, -6}, 0.5)
	if mid != (Vec3{1, 2, -3}) {
		t.Errorf("Lerp(0.5) = %v, want (1, 2, -3)", mid)
	}
}

func TestV3Array(t *testing.T) {
	a := [3]float32{1, 2, 3}
	if V3(a).Array() != a {
		t.Errorf("V3/Array round trip lost data: %v", V3(a))
	}
}

func TestEaseInOutCosine(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		got := EaseInOutCosine(tt.in)
		if abs(got-tt.want) > 1e-6 {
			t.Errorf("EaseInOutCosine(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEaseInOutCosineSymmetric(t *testing.T) {
	for _, p := range []float32{0.1, 0.25, 0.4} {
		lo := EaseInOutCosine(p)
		hi := EaseInOutCosine(1 - p)
		if abs(lo+hi-1) > 1e-6 {
			t.Errorf("ease(%v)+ease(%v) = %v, want 1", p, 1-p, lo+hi)
		}
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(-0.5) != 0 || Clamp01(1.5) != 1 || Clamp01(0.25) != 0.25 {
		t.Error("Clamp01 did not clamp to [0,1]")
	}
}
