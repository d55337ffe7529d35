// Package viewmode holds the assembled / exploded / cross-section state
// machine of the configurator view.
package viewmode

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/logger"
	"github.com/Faultbox/ev-configurator/internal/viewer/explode"
)

// Mode is the current presentation of the model.
type Mode int

const (
	Assembled Mode = iota
	Exploded
	CrossSection
)

// String returns the name used by the control panel.
func (m Mode) String() string {
	switch m {
	case Assembled:
		return "assembled"
	case Exploded:
		return "exploded"
	case CrossSection:
		return "cross-section"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the three modes.
func (m Mode) Valid() bool {
	return m >= Assembled && m <= CrossSection
}

// Parse converts a panel name back to a Mode.
func Parse(s string) (Mode, error) {
	switch s {
	case "assembled":
		return Assembled, nil
	case "exploded":
		return Exploded, nil
	case "cross-section", "crosssection", "section":
		return CrossSection, nil
	}
	return Assembled, fmt.Errorf("viewmode: unknown mode %q", s)
}

// Machine owns the current mode and the explode animator it steers.
type Machine struct {
	mode     Mode
	animator *explode.Animator
	log      *zap.Logger
}

// New creates a machine in Assembled mode driving animator.
func New(animator *explode.Animator, log *zap.Logger) *Machine {
	if animator == nil {
		animator = explode.NewAnimator(explode.DefaultSpeed)
	}
	m := &Machine{
		mode:     Assembled,
		animator: animator,
		log:      logger.OrNop(log),
	}
	m.animator.SetExploding(false)
	return m
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Animator returns the explode animator the machine steers.
func (m *Machine) Animator() *explode.Animator {
	return m.animator
}

// SetMode switches to mode unconditionally. Exploded drives the factor toward
// 1; every other mode drives it back to 0, so parts re-assemble before a
// cross-section is shown. Out-of-range values are ignored.
func (m *Machine) SetMode(mode Mode) {
	if !mode.Valid() {
		m.log.Warn("ignoring invalid view mode", zap.Int("mode", int(mode)))
		return
	}
	if mode != m.mode {
		m.log.Debug("view mode changed",
			zap.Stringer("from", m.mode),
			zap.Stringer("to", mode),
		)
	}
	m.mode = mode
	m.animator.SetExploding(mode == Exploded)
}

// ToggleExploded flips between Exploded and Assembled.
func (m *Machine) ToggleExploded() {
	if m.mode == Exploded {
		m.SetMode(Assembled)
		return
	}
	m.SetMode(Exploded)
}

// ToggleCrossSection flips between CrossSection and Assembled.
func (m *Machine) ToggleCrossSection() {
	if m.mode == CrossSection {
		m.SetMode(Assembled)
		return
	}
	m.SetMode(CrossSection)
}

// Advance routes a frame update to the animator and returns the new factor.
func (m *Machine) Advance(dt float64) float64 {
	return m.animator.Advance(dt)
}
