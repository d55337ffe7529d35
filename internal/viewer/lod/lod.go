// Package lod picks a rendering detail level from the measured frame rate.
package lod

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/clock"
	"github.com/Faultbox/ev-configurator/internal/logger"
)

// Detail levels. Higher numbers mean less detail.
const (
	High   = 0
	Medium = 1
	Low    = 2
)

// Config holds the hysteresis thresholds. Between LowFPS and HighFPS
// (inclusive) the level does not change.
type Config struct {
	LowFPS   int
	HighFPS  int
	MaxLevel int
	Window   time.Duration
}

// DefaultConfig returns the 30/50 fps thresholds over one-second windows.
func DefaultConfig() Config {
	return Config{
		LowFPS:   30,
		HighFPS:  50,
		MaxLevel: Low,
		Window:   time.Second,
	}
}

// Controller counts frames over a wall-clock window and moves the detail
// level by at most one step each time the window rolls over.
type Controller struct {
	cfg   Config
	clock clock.Clock
	log   *zap.Logger

	level       int
	fps         int
	frames      int
	windowStart time.Time
}

// New creates a controller at full detail. The first window starts now.
func New(cfg Config, clk clock.Clock, log *zap.Logger) *Controller {
	if clk == nil {
		clk = clock.System{}
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.MaxLevel < 0 {
		cfg.MaxLevel = 0
	}
	return &Controller{
		cfg:         cfg,
		clock:       clk,
		log:         logger.OrNop(log),
		fps:         60,
		windowStart: clk.Now(),
	}
}

// Frame records one rendered frame at the clock's current time.
func (c *Controller) Frame() bool {
	return c.FrameAt(c.clock.Now())
}

// FrameAt records one rendered frame at now and reports whether the detail
// level changed.
func (c *Controller) FrameAt(now time.Time) bool {
	c.frames++
	if now.Sub(c.windowStart) < c.cfg.Window {
		return false
	}

	c.fps = c.frames
	c.frames = 0
	c.windowStart = now

	prev := c.level
	switch {
	case c.fps < c.cfg.LowFPS && c.level < c.cfg.MaxLevel:
		c.level++
	case c.fps > c.cfg.HighFPS && c.level > 0:
		c.level--
	}
	if c.level == prev {
		return false
	}
	c.log.Info("detail level changed",
		zap.Int("fps", c.fps),
		zap.Int("from", prev),
		zap.Int("to", c.level),
	)
	return true
}

// Level returns the current detail level (0 = full detail).
func (c *Controller) Level() int {
	return c.level
}

// FPS returns the frame count of the last completed window.
func (c *Controller) FPS() int {
	return c.fps
}
