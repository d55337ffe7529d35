// Package viewer is the control layer of the configurator's 3D view. It ties
// the view-mode state machine, the explode animator, the group positioner,
// the camera transition engine, the sequencer and the LOD controller to a
// render backend, and exposes the operations the control panel calls.
//
// A Viewer is driven from a single frame loop and is not safe for concurrent
// use.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/clock"
	"github.com/Faultbox/ev-configurator/internal/engine/camera"
	"github.com/Faultbox/ev-configurator/internal/engine/picking"
	"github.com/Faultbox/ev-configurator/internal/logger"
	"github.com/Faultbox/ev-configurator/internal/scene"
	"github.com/Faultbox/ev-configurator/internal/viewer/explode"
	"github.com/Faultbox/ev-configurator/internal/viewer/lod"
	"github.com/Faultbox/ev-configurator/internal/viewer/section"
	"github.com/Faultbox/ev-configurator/internal/viewer/sequence"
	"github.com/Faultbox/ev-configurator/internal/viewer/viewmode"
	"github.com/Faultbox/ev-configurator/pkg/math"
)

// Options configures a Viewer. Zero values select the defaults.
type Options struct {
	Clock              clock.Clock
	Logger             *zap.Logger
	AnimationSpeed     float64
	TransitionDuration time.Duration
	LOD                lod.Config
	SectionAxis        section.Axis

	// OnStep, if set, is called for every sequence step after the viewer
	// has applied it to the step's group.
	OnStep func(sequence.Step)
}

// Viewer owns every piece of view state. Each component is the only writer
// of its own state; the viewer only routes calls and frames.
type Viewer struct {
	opts    Options
	backend Backend
	clock   clock.Clock
	log     *zap.Logger

	scene      *scene.Scene
	modes      *viewmode.Machine
	section    section.State
	positioner *explode.Positioner
	cameras    *camera.Engine
	rig        camera.Rig
	sequencer  *sequence.Sequencer
	detail     *lod.Controller

	selected   string
	lastMode   viewmode.Mode
	lastClip   [4]float32
	clipSent   bool
	lastPos    math.Vec3
	lastTarget math.Vec3
	poseSent   bool
}

// New builds a viewer for sc and registers its frame callback with backend.
// backend may be nil for headless use; call Frame directly then.
func New(backend Backend, sc *scene.Scene, opts Options) (*Viewer, error) {
	if sc == nil {
		sc = scene.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.AnimationSpeed <= 0 {
		opts.AnimationSpeed = explode.DefaultSpeed
	}
	if opts.TransitionDuration == 0 {
		opts.TransitionDuration = camera.DefaultTransitionDuration
	}
	if opts.LOD == (lod.Config{}) {
		opts.LOD = lod.DefaultConfig()
	}
	log := logger.OrNop(opts.Logger)

	positioner, err := explode.NewPositioner(sc.Groups, log.Named("explode"))
	if err != nil {
		return nil, fmt.Errorf("building part groups: %w", err)
	}

	v := &Viewer{
		opts:       opts,
		backend:    backend,
		clock:      opts.Clock,
		log:        log,
		scene:      sc,
		modes:      viewmode.New(explode.NewAnimator(opts.AnimationSpeed), log.Named("mode")),
		positioner: positioner,
		cameras:    camera.NewEngine(sc.Presets, nil, opts.Clock, log.Named("camera")),
		sequencer:  sequence.New(opts.Clock, log.Named("sequencer")),
		detail:     lod.New(opts.LOD, opts.Clock, log.Named("lod")),
	}
	v.section.SetAxis(opts.SectionAxis)

	if backend != nil {
		backend.OnFrame(v.Frame)
	}
	log.Info("viewer ready",
		zap.Int("groups", len(sc.Groups)),
		zap.Int("presets", sc.Presets.Len()),
		zap.Int("sequences", len(sc.Sequences)),
	)
	return v, nil
}

// AttachCamera hands the viewer the camera it animates. Preset requests made
// before a camera is attached are ignored.
func (v *Viewer) AttachCamera(rig camera.Rig) {
	v.rig = rig
	v.cameras.SetRig(rig)
	v.poseSent = false
}

// Frame advances every component by one rendered frame of dt seconds and
// writes the results to the backend.
func (v *Viewer) Frame(dt float64) {
	if !(dt > 0) {
		dt = 0
	}

	factor := v.modes.Advance(dt)
	v.sequencer.Update()

	// A mode switch always rewrites every group once, even if the factor
	// happens to be stationary.
	force := v.modes.Mode() != v.lastMode
	v.lastMode = v.modes.Mode()
	v.positioner.Advance(dt, float32(factor))
	v.positioner.Apply(float32(factor), v.backend, force)

	v.cameras.Step()
	v.syncCamera()
	v.syncSection()

	if v.detail.Frame() {
		if dr, ok := v.backend.(DetailRenderer); ok {
			dr.SetDetailLevel(v.detail.Level())
		}
	}
}

func (v *Viewer) syncCamera() {
	if v.rig == nil || v.backend == nil {
		return
	}
	pos, target := v.rig.Pose()
	if v.poseSent && pos == v.lastPos && target == v.lastTarget {
		return
	}
	v.backend.SetCameraPose(pos, target)
	v.lastPos, v.lastTarget, v.poseSent = pos, target, true
}

func (v *Viewer) syncSection() {
	sr, ok := v.backend.(SectionRenderer)
	if !ok {
		return
	}
	enabled := v.modes.Mode() == viewmode.CrossSection
	plane := v.section.ClipPlane()
	if !enabled {
		plane = [4]float32{}
	}
	if v.clipSent && plane == v.lastClip {
		return
	}
	sr.SetClipPlane(plane, enabled)
	v.lastClip, v.clipSent = plane, true
}

// SetMode switches the view mode. Groups a sequence moved glide back to the
// global explode factor at the animation speed.
func (v *Viewer) SetMode(m viewmode.Mode) {
	v.releaseGroups()
	v.modes.SetMode(m)
}

// ToggleExploded flips between exploded and assembled.
func (v *Viewer) ToggleExploded() {
	v.releaseGroups()
	v.modes.ToggleExploded()
}

// ToggleCrossSection flips between cross-section and assembled.
func (v *Viewer) ToggleCrossSection() {
	v.releaseGroups()
	v.modes.ToggleCrossSection()
}

func (v *Viewer) releaseGroups() {
	v.positioner.Release(float32(v.modes.Animator().Speed()))
}

// SetAnimationSpeed changes the explode ramp rate from the next frame.
// Non-positive values are ignored.
func (v *Viewer) SetAnimationSpeed(speed float64) {
	if !v.modes.Animator().SetSpeed(speed) {
		v.log.Warn("ignoring animation speed", zap.Float64("speed", speed))
	}
}

// SetExplodeFactor jumps the explode factor, e.g. from a panel slider. The
// current mode keeps driving it from there on the next frame.
func (v *Viewer) SetExplodeFactor(f float64) {
	v.modes.Animator().SetFactor(f)
}

// SetCrossSectionPlane moves the section plane along its axis.
func (v *Viewer) SetCrossSectionPlane(offset float32) {
	v.section.SetOffset(offset)
}

// SetCrossSectionAxis selects the section plane's axis.
func (v *Viewer) SetCrossSectionAxis(a section.Axis) {
	if !v.section.SetAxis(a) {
		v.log.Warn("ignoring section axis", zap.Int("axis", int(a)))
	}
}

// AnimateToPreset moves the camera to the named preset over the configured
// transition duration.
func (v *Viewer) AnimateToPreset(name string) {
	v.AnimateToPresetOver(name, v.opts.TransitionDuration)
}

// AnimateToPresetOver moves the camera to the named preset over d. A
// non-positive d snaps on the next frame.
func (v *Viewer) AnimateToPresetOver(name string, d time.Duration) {
	v.cameras.AnimateToPreset(name, d)
}

// CancelCameraTransition stops a running camera move where it is. User
// orbit input calls this.
func (v *Viewer) CancelCameraTransition() {
	v.cameras.Cancel()
}

// PlaySequence plays a sequence from the scene by name. Each step drives
// its subsystem's group toward exploded or assembled over the step's
// duration.
func (v *Viewer) PlaySequence(name string) {
	steps, ok := v.scene.Sequences[name]
	if !ok {
		v.log.Warn("unknown sequence", zap.String("sequence", name))
		return
	}
	v.PlaySteps(name, steps)
}

// PlaySteps plays a caller-defined sequence.
func (v *Viewer) PlaySteps(name string, steps []sequence.Step) {
	v.sequencer.Play(name, steps, v.applyStep)
}

func (v *Viewer) applyStep(st sequence.Step) {
	v.positioner.Drive(st.System, st.Action == sequence.Explode, st.Duration)
	if v.opts.OnStep != nil {
		v.opts.OnStep(st)
	}
}

// StopSequence cancels the running sequence. Groups stay where the
// sequence left them until the next mode change.
func (v *Viewer) StopSequence() {
	v.sequencer.Stop()
}

// FocusSystem selects a subsystem. If a camera preset shares its name, the
// camera moves there. Unknown names are ignored.
func (v *Viewer) FocusSystem(id string) {
	_, isGroup := v.positioner.Group(id)
	_, isPreset := v.cameras.Presets().Lookup(id)
	if !isGroup && !isPreset {
		v.log.Warn("ignoring focus on unknown system", zap.String("system", id))
		return
	}
	v.selected = id
	if hr, ok := v.backend.(HighlightRenderer); ok {
		hr.SetHighlight(id)
	}
	if isPreset {
		v.AnimateToPreset(id)
	}
}

// ClearFocus deselects the focused subsystem.
func (v *Viewer) ClearFocus() {
	v.selected = ""
	if hr, ok := v.backend.(HighlightRenderer); ok {
		hr.SetHighlight("")
	}
}

// Pick returns the nearest group hit by ray, using each group's current
// (possibly exploded) position.
func (v *Viewer) Pick(ray picking.Ray) (string, bool) {
	best := ""
	bestT := float32(0)
	for _, g := range v.positioner.Groups() {
		pos, _ := v.positioner.Position(g.ID)
		t, hit := ray.IntersectAABB(picking.BoxAround(pos, g.Extents))
		if hit && (best == "" || t < bestT) {
			best, bestT = g.ID, t
		}
	}
	return best, best != ""
}

// FocusAt focuses the group under ray, or clears the focus on a miss.
func (v *Viewer) FocusAt(ray picking.Ray) {
	if id, ok := v.Pick(ray); ok {
		v.FocusSystem(id)
		return
	}
	v.ClearFocus()
}

// ApplyScene swaps in a reloaded scene. Presets and sequences take effect
// immediately; groups are rebuilt and rewritten on the next frame. A scene
// whose groups cannot be built is rejected and the old one kept.
func (v *Viewer) ApplyScene(sc *scene.Scene) error {
	if sc == nil {
		return fmt.Errorf("nil scene")
	}
	positioner, err := explode.NewPositioner(sc.Groups, v.log.Named("explode"))
	if err != nil {
		return fmt.Errorf("rebuilding part groups: %w", err)
	}
	v.scene = sc
	v.positioner = positioner
	v.cameras.SetPresets(sc.Presets)
	if _, ok := positioner.Group(v.selected); !ok {
		if _, ok := sc.Presets.Lookup(v.selected); !ok {
			v.selected = ""
		}
	}
	v.log.Info("scene applied",
		zap.Int("groups", len(sc.Groups)),
		zap.Int("presets", sc.Presets.Len()),
	)
	return nil
}

// Scene returns the scene in use.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// ViewMode returns the current view mode.
func (v *Viewer) ViewMode() viewmode.Mode { return v.modes.Mode() }

// ExplodeFactor returns the global explode factor in [0,1].
func (v *Viewer) ExplodeFactor() float64 { return v.modes.Animator().Factor() }

// AnimationSpeed returns the explode ramp rate.
func (v *Viewer) AnimationSpeed() float64 { return v.modes.Animator().Speed() }

// CrossSectionPlane returns the section plane offset.
func (v *Viewer) CrossSectionPlane() float32 { return v.section.Offset() }

// CrossSectionAxis returns the section plane axis.
func (v *Viewer) CrossSectionAxis() section.Axis { return v.section.Axis() }

// LODLevel returns the adaptive detail level.
func (v *Viewer) LODLevel() int { return v.detail.Level() }

// FPS returns the frame count of the last completed measurement window.
func (v *Viewer) FPS() int { return v.detail.FPS() }

// IsPlaying reports whether a sequence is playing.
func (v *Viewer) IsPlaying() bool { return v.sequencer.IsPlaying() }

// CurrentStepIndex returns the index of the last fired sequence step.
func (v *Viewer) CurrentStepIndex() int { return v.sequencer.CurrentStep() }

// SelectedSystem returns the focused subsystem, or "".
func (v *Viewer) SelectedSystem() string { return v.selected }

// GroupPosition returns the position last written for a group.
func (v *Viewer) GroupPosition(id string) (math.Vec3, bool) { return v.positioner.Position(id) }
