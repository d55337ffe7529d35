package sequence

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/clock"
	"github.com/Faultbox/ev-configurator/internal/logger"
)

var (
	// ErrAlreadyPlaying is reported when Play is called during playback.
	ErrAlreadyPlaying = errors.New("sequence: already playing")
	// ErrEmpty is reported when Play is called with no steps.
	ErrEmpty = errors.New("sequence: no steps")
)

// StepFunc is invoked when a step's scheduled time arrives.
type StepFunc func(Step)

// timer is one pending entry of the logical schedule.
type timer struct {
	at    time.Time
	index int
	step  Step
}

// Sequencer plays one sequence at a time against a logical schedule. Time
// only moves when Tick is called, so playback is deterministic under test.
type Sequencer struct {
	clock clock.Clock
	log   *zap.Logger

	name    string
	steps   int
	onStep  StepFunc
	started time.Time
	playing bool
	current int
	pending []timer // sorted by (at, index)
}

// New creates an idle sequencer.
func New(clk clock.Clock, log *zap.Logger) *Sequencer {
	if clk == nil {
		clk = clock.System{}
	}
	return &Sequencer{clock: clk, log: logger.OrNop(log)}
}

// Play schedules every step relative to now. A request while already playing
// (or with no steps) is logged and ignored.
func (s *Sequencer) Play(name string, steps []Step, onStep StepFunc) {
	if err := s.TryPlay(name, steps, onStep); err != nil {
		s.log.Warn("play request ignored",
			zap.String("sequence", name),
			zap.String("playing", s.name),
			zap.Error(err),
		)
	}
}

// TryPlay is Play reporting why a request was ignored.
func (s *Sequencer) TryPlay(name string, steps []Step, onStep StepFunc) error {
	if s.playing {
		return ErrAlreadyPlaying
	}
	if len(steps) == 0 {
		return ErrEmpty
	}

	// Leftover entries from a finished sequence whose last-listed step was
	// not its latest one are dropped before the new schedule starts.
	if n := len(s.pending); n > 0 {
		s.log.Debug("dropping stale timers", zap.Int("count", n))
	}
	s.pending = s.pending[:0]

	s.name = name
	s.steps = len(steps)
	s.onStep = onStep
	s.started = s.clock.Now()
	s.playing = true
	s.current = 0

	for i, st := range steps {
		delay := st.Delay
		if delay < 0 {
			delay = 0
		}
		s.pending = append(s.pending, timer{at: s.started.Add(delay), index: i, step: st})
	}
	sort.SliceStable(s.pending, func(a, b int) bool {
		if s.pending[a].at.Equal(s.pending[b].at) {
			return s.pending[a].index < s.pending[b].index
		}
		return s.pending[a].at.Before(s.pending[b].at)
	})

	s.log.Info("sequence started",
		zap.String("sequence", name),
		zap.Int("steps", len(steps)),
		zap.Duration("span", Span(steps)),
	)
	return nil
}

// Tick fires every pending step due at or before now, in schedule order.
// Handlers may call Stop or Play; a Stop inside a handler prevents any
// further step from firing.
func (s *Sequencer) Tick(now time.Time) int {
	fired := 0
	for len(s.pending) > 0 && !s.pending[0].at.After(now) {
		t := s.pending[0]
		s.pending = s.pending[1:]
		fired++

		s.current = t.index
		name := s.name
		last := t.index == s.steps-1
		if last {
			s.playing = false
		}
		s.log.Debug("sequence step",
			zap.String("sequence", name),
			zap.Int("index", t.index),
			zap.String("system", t.step.System),
			zap.Stringer("action", t.step.Action),
		)
		if s.onStep != nil {
			s.onStep(t.step)
		}
		if last {
			s.log.Info("sequence finished", zap.String("sequence", name))
		}
	}
	if len(s.pending) == 0 {
		s.pending = nil
	}
	return fired
}

// Update is Tick at the clock's current time.
func (s *Sequencer) Update() int {
	return s.Tick(s.clock.Now())
}

// Stop cancels every pending step and resets the step index to 0. It is
// safe to call when idle.
func (s *Sequencer) Stop() {
	if s.playing || len(s.pending) > 0 {
		s.log.Info("sequence stopped",
			zap.String("sequence", s.name),
			zap.Int("cancelled", len(s.pending)),
			zap.Int("last_step", s.current),
		)
	}
	s.pending = nil
	s.playing = false
	s.current = 0
}

// IsPlaying reports whether a sequence is in progress.
func (s *Sequencer) IsPlaying() bool {
	return s.playing
}

// CurrentStep returns the index of the most recently fired step.
func (s *Sequencer) CurrentStep() int {
	return s.current
}

// Name returns the name of the current or last played sequence.
func (s *Sequencer) Name() string {
	return s.name
}

// Pending returns the number of scheduled steps not yet fired.
func (s *Sequencer) Pending() int {
	return len(s.pending)
}

