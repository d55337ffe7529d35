// Package app runs the configurator window: it owns the SDL window, the GL
// renderer and the viewer, and feeds user input and scene reloads into the
// viewer once per frame.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/config"
	"github.com/Faultbox/ev-configurator/internal/engine/camera"
	"github.com/Faultbox/ev-configurator/internal/engine/debug"
	"github.com/Faultbox/ev-configurator/internal/engine/input"
	"github.com/Faultbox/ev-configurator/internal/engine/picking"
	"github.com/Faultbox/ev-configurator/internal/engine/renderer"
	"github.com/Faultbox/ev-configurator/internal/engine/window"
	"github.com/Faultbox/ev-configurator/internal/logger"
	"github.com/Faultbox/ev-configurator/internal/scene"
	"github.com/Faultbox/ev-configurator/internal/viewer"
)

const (
	title = "EV Configurator"

	// A press that moves less than this is a click, not a drag.
	clickSlop = 4

	titleInterval = 250 * time.Millisecond
)

// App is the running configurator.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	viewer   *viewer.Viewer
	watcher  *scene.Watcher
	shots    *debug.ScreenshotCapture

	pressX, pressY int
	dragged        bool
	lastTitle      time.Time
}

// New creates the window, renderer and viewer.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}

	sc, err := scene.Load(cfg.Scene.Path)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}

	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer must come after the window, which owns the GL context.
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Background: [3]float32{0.08, 0.09, 0.12},
	}, sc.Groups)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	opts, err := viewer.OptionsFromConfig(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	opts.Logger = logger.Named("viewer")
	a.viewer, err = viewer.New(a.renderer, sc, opts)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create viewer: %w", err)
	}

	a.camera = camera.NewOrbitCamera()
	if p, ok := sc.Presets.Lookup(cfg.Viewer.InitialPreset); ok {
		a.camera.SetPose(p.Position, p.Target)
	} else {
		a.log.Warn("initial preset not found", zap.String("preset", cfg.Viewer.InitialPreset))
	}
	a.viewer.AttachCamera(a.camera)

	if cfg.Scene.Watch && cfg.Scene.Path != "" {
		a.watcher, err = scene.Watch(cfg.Scene.Path, logger.Named("scene"))
		if err != nil {
			// The viewer still works with the scene it has.
			a.log.Warn("scene watch disabled", zap.String("path", cfg.Scene.Path), zap.Error(err))
		}
	}

	a.input = input.New()
	a.shots = debug.NewScreenshotCapture(cfg.Viewer.ScreenshotDir, "ev", nil)

	a.log.Info("configurator initialized",
		zap.String("scene", cfg.Scene.Path),
		zap.Bool("watch", a.watcher != nil),
	)
	return a, nil
}

// Run starts the main loop and returns when the window is closed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	var frameBudget time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	a.log.Info("starting frame loop")

	for a.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		if a.watcher != nil {
			if sc := a.watcher.Poll(); sc != nil {
				a.applyScene(sc)
			}
		}

		a.renderer.Render(dt)
		a.window.SwapBuffers()
		a.updateTitle(frameStart)

		if frameBudget > 0 {
			if spare := frameBudget - time.Since(frameStart); spare > 0 {
				time.Sleep(spare)
			}
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			a.renderer.Resize(a.window.DrawableSize())

		case input.EventKeyDown:
			if ev.Repeat {
				continue
			}
			a.handleKey(ev.Key)

		case input.EventMouseDown:
			if ev.Button == sdl.BUTTON_LEFT {
				a.pressX, a.pressY = ev.MouseX, ev.MouseY
				a.dragged = false
			}

		case input.EventMouseMove:
			if !a.input.IsButtonDown(sdl.BUTTON_LEFT) {
				continue
			}
			if abs(ev.MouseX-a.pressX)+abs(ev.MouseY-a.pressY) >= clickSlop {
				a.dragged = true
			}
			if a.dragged {
				a.viewer.CancelCameraTransition()
				a.camera.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			}

		case input.EventMouseUp:
			if ev.Button == sdl.BUTTON_LEFT && !a.dragged {
				a.viewer.FocusAt(a.rayAt(ev.MouseX, ev.MouseY))
			}

		case input.EventMouseWheel:
			a.viewer.CancelCameraTransition()
			a.camera.HandleZoom(float32(ev.DeltaY))
		}
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
		return
	case sdl.SCANCODE_F12:
		a.screenshot()
		return
	}

	if cmd, ok := bindings[key]; ok {
		a.viewer.Execute(cmd)
		return
	}
	if d, ok := panKeys[key]; ok {
		a.viewer.CancelCameraTransition()
		a.camera.HandleMovement(d[0], d[1], d[2])
	}
}

// rayAt casts a ray through a window coordinate.
func (a *App) rayAt(x, y int) picking.Ray {
	w, h := a.window.GetSize()
	inv := a.renderer.ViewProj().Inverse()
	return picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
}

func (a *App) applyScene(sc *scene.Scene) {
	if err := a.viewer.ApplyScene(sc); err != nil {
		a.log.Warn("scene reload rejected", zap.Error(err))
		return
	}
	a.renderer.SetGroups(sc.Groups)
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

func (a *App) updateTitle(now time.Time) {
	if now.Sub(a.lastTitle) < titleInterval {
		return
	}
	a.lastTitle = now
	a.window.SetTitle(title + " | " + a.viewer.Snapshot().Status(a.cfg.Viewer.ShowFPS))
}

// Close releases every resource. It is safe on a partially built App.
func (a *App) Close() {
	a.log.Info("closing configurator")

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing scene watcher", zap.Error(err))
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
