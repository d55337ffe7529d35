// Package explode drives the explode factor and positions exploded part
// groups from it.
package explode

import gomath "math"

// DefaultSpeed is the explode ramp rate in factor units per second.
const DefaultSpeed = 1.0

// Animator ramps the explode factor linearly toward 0 or 1.
//
// The progress accumulator is clamped to [0,1] on every update, so reversing
// direction always starts from the displayed factor.
type Animator struct {
	progress  float64
	speed     float64
	exploding bool
}

// NewAnimator creates an animator at factor 0 heading toward assembled.
// Non-positive speeds fall back to DefaultSpeed.
func NewAnimator(speed float64) *Animator {
	a := &Animator{speed: DefaultSpeed}
	a.SetSpeed(speed)
	return a
}

// SetExploding selects the direction of the ramp: toward 1 when true,
// toward 0 otherwise.
func (a *Animator) SetExploding(exploding bool) {
	a.exploding = exploding
}

// Exploding reports whether the factor is being driven toward 1.
func (a *Animator) Exploding() bool {
	return a.exploding
}

// SetSpeed changes the ramp rate, effective on the next Advance. Speeds that
// are not strictly positive are ignored and false is returned.
func (a *Animator) SetSpeed(speed float64) bool {
	if !(speed > 0) || gomath.IsInf(speed, 1) {
		return false
	}
	a.speed = speed
	return true
}

// Speed returns the ramp rate.
func (a *Animator) Speed() float64 {
	return a.speed
}

// Advance moves the factor by dt*speed toward the target and returns it.
// Negative dt is treated as zero.
func (a *Animator) Advance(dt float64) float64 {
	if !(dt > 0) {
		return a.progress
	}
	step := dt * a.speed
	if a.exploding {
		a.progress = gomath.Min(a.progress+step, 1)
	} else {
		a.progress = gomath.Max(a.progress-step, 0)
	}
	return a.progress
}

// Factor returns the current explode factor in [0,1].
func (a *Animator) Factor() float64 {
	return a.progress
}

// SetFactor jumps the factor to f (clamped). The ramp direction is unchanged,
// so the next Advance continues toward the current target from f.
func (a *Animator) SetFactor(f float64) {
	switch {
	case gomath.IsNaN(f), f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	a.progress = f
}

// Settled reports whether the factor has reached the bound it is heading to.
func (a *Animator) Settled() bool {
	if a.exploding {
		return a.progress >= 1
	}
	return a.progress <= 0
}
