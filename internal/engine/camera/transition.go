package camera

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/clock"
	"github.com/Faultbox/ev-configurator/internal/logger"
	"github.com/Faultbox/ev-configurator/pkg/math"
)

// DefaultTransitionDuration is used when a preset is requested without an
// explicit duration.
const DefaultTransitionDuration = 2 * time.Second

var (
	// ErrUnknownPreset is reported when a preset name is not registered.
	ErrUnknownPreset = errors.New("camera: unknown preset")
	// ErrNoCamera is reported when no rig has been attached yet.
	ErrNoCamera = errors.New("camera: no camera attached")
)

// Transition is one in-flight move toward a preset.
type Transition struct {
	StartPosition math.Vec3
	StartTarget   math.Vec3
	End           Preset
	Start         time.Time
	Duration      time.Duration
}

// Progress returns linear progress in [0,1] at now. Non-positive durations
// are complete immediately.
func (t *Transition) Progress(now time.Time) float32 {
	if t.Duration <= 0 {
		return 1
	}
	elapsed := now.Sub(t.Start)
	return math.Clamp01(float32(float64(elapsed) / float64(t.Duration)))
}

// PoseAt returns the interpolated pose at linear progress p.
func (t *Transition) PoseAt(p float32) (position, target math.Vec3) {
	eased := math.EaseInOutCosine(p)
	return t.StartPosition.Lerp(t.End.Position, eased), t.StartTarget.Lerp(t.End.Target, eased)
}

// Engine animates a Rig toward named presets using wall-clock time, so the
// motion takes the same time regardless of frame rate. At most one
// transition is active; a new request supersedes the running one.
type Engine struct {
	presets *Registry
	rig     Rig
	clock   clock.Clock
	log     *zap.Logger

	active *Transition
}

// NewEngine creates a transition engine. rig may be nil and attached later.
func NewEngine(presets *Registry, rig Rig, clk clock.Clock, log *zap.Logger) *Engine {
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{
		presets: presets,
		rig:     rig,
		clock:   clk,
		log:     logger.OrNop(log),
	}
}

// SetRig attaches (or detaches, with nil) the camera being driven. Detaching
// cancels any running transition.
func (e *Engine) SetRig(r Rig) {
	e.rig = r
	if r == nil {
		e.active = nil
	}
}

// SetPresets swaps the preset registry. A running transition keeps its
// captured end pose.
func (e *Engine) SetPresets(r *Registry) {
	e.presets = r
}

// Presets returns the registry in use.
func (e *Engine) Presets() *Registry {
	return e.presets
}

// AnimateToPreset starts a transition to the named preset over d. Unknown
// presets and a missing camera are logged and ignored.
func (e *Engine) AnimateToPreset(name string, d time.Duration) {
	if err := e.TryAnimateToPreset(name, d); err != nil {
		e.log.Warn("preset transition ignored", zap.String("preset", name), zap.Error(err))
	}
}

// TryAnimateToPreset is AnimateToPreset reporting why a request was ignored.
func (e *Engine) TryAnimateToPreset(name string, d time.Duration) error {
	if e.rig == nil {
		return ErrNoCamera
	}
	preset, ok := e.presets.Lookup(name)
	if !ok {
		return ErrUnknownPreset
	}

	// Start from wherever the camera is right now, including mid-transition.
	pos, target := e.rig.Pose()
	if e.active != nil {
		e.log.Debug("superseding camera transition",
			zap.String("from", e.active.End.Name),
			zap.String("to", name),
		)
	}
	e.active = &Transition{
		StartPosition: pos,
		StartTarget:   target,
		End:           preset,
		Start:         e.clock.Now(),
		Duration:      d,
	}
	e.log.Debug("camera transition started",
		zap.String("preset", name),
		zap.Duration("duration", d),
	)
	e.Step()
	return nil
}

// Step writes the pose for the current wall-clock time into the rig and
// reports whether a transition is still running afterwards.
func (e *Engine) Step() bool {
	if e.active == nil || e.rig == nil {
		return false
	}
	p := e.active.Progress(e.clock.Now())
	pos, target := e.active.PoseAt(p)
	e.rig.SetPose(pos, target)
	if p >= 1 {
		e.log.Debug("camera transition finished", zap.String("preset", e.active.End.Name))
		e.active = nil
		return false
	}
	return true
}

// Cancel stops the running transition, leaving the camera where it is.
func (e *Engine) Cancel() {
	e.active = nil
}

// Active returns the running transition, or nil.
func (e *Engine) Active() *Transition {
	return e.active
}
