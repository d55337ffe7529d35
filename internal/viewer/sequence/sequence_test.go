package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ev-configurator/internal/clock"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type recorder struct {
	systems []string
}

func (r *recorder) onStep(s Step) {
	r.systems = append(r.systems, s.System)
}

func TestCanonicalSequences(t *testing.T) {
	asm := Assembly()
	require.Len(t, asm, 6)
	for i, s := range asm {
		assert.Equal(t, time.Duration(i)*500*time.Millisecond, s.Delay)
		assert.Equal(t, time.Second, s.Duration)
		assert.Equal(t, Assemble, s.Action)
	}
	assert.Equal(t, "chassis", asm[0].System)
	assert.Equal(t, "interior", asm[5].System)

	dis := Disassembly()
	require.Len(t, dis, 6)
	want := []string{"interior", "body", "brakes", "motor", "battery", "chassis"}
	for i, s := range dis {
		assert.Equal(t, want[i], s.System)
		assert.Equal(t, time.Duration(i)*200*time.Millisecond, s.Delay)
		assert.Equal(t, Explode, s.Action)
	}
	assert.Equal(t, 2*time.Second, Span(dis))
	assert.Len(t, Canonical(), 2)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("Explode")
	require.NoError(t, err)
	assert.Equal(t, Explode, a)
	_, err = ParseAction("rotate")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDisassemblyFiresInOrder(t *testing.T) {
	clk := clock.NewManual(epoch)
	seq := New(clk, nil)
	rec := &recorder{}

	require.NoError(t, seq.TryPlay(DisassemblyName, Disassembly(), rec.onStep))
	assert.True(t, seq.IsPlaying())
	assert.Equal(t, 6, seq.Pending())

	// 50ms ticks: overlapping windows must not reorder the steps.
	var indices []int
	for i := 0; i < 30; i++ {
		if seq.Tick(clk.Now()) > 0 {
			indices = append(indices, seq.CurrentStep())
		}
		clk.Advance(50 * time.Millisecond)
	}

	assert.Equal(t, []string{"interior", "body", "brakes", "motor", "battery", "chassis"}, rec.systems)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, indices)
	assert.False(t, seq.IsPlaying(), "last step clears isPlaying regardless of its duration")
	assert.Equal(t, 0, seq.Pending())
}

func TestCoarseTickFiresAllDueSteps(t *testing.T) {
	clk := clock.NewManual(epoch)
	seq := New(clk, nil)
	rec := &recorder{}
	seq.Play(AssemblyName, Assembly(), rec.onStep)

	assert.Equal(t, 1, seq.Tick(clk.Now()))
	assert.Equal(t, 3, seq.Tick(clk.Advance(1500*time.Millisecond)))
	assert.Equal(t, 3, seq.CurrentStep())
	assert.True(t, seq.IsPlaying())

	assert.Equal(t, 2, seq.Tick(clk.Advance(time.Hour)))
	assert.False(t, seq.IsPlaying())
	assert.Equal(t, 5, seq.CurrentStep())
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	clk := clock.NewManual(epoch)
	seq := New(clk, nil)
	first := &recorder{}
	second := &recorder{}

	require.NoError(t, seq.TryPlay(AssemblyName, Assembly(), first.onStep))
	clk.Advance(600 * time.Millisecond)
	seq.Update()

	assert.ErrorIs(t, seq.TryPlay(DisassemblyName, Disassembly(), second.onStep), ErrAlreadyPlaying)
	seq.Play(DisassemblyName, Disassembly(), second.onStep)
	assert.True(t, seq.IsPlaying())
	assert.Equal(t, AssemblyName, seq.Name())

	clk.Advance(time.Hour)
	seq.Update()
	assert.Len(t, first.systems, 6)
	assert.Empty(t, second.systems)
}

func TestStopMidRun(t *testing.T) {
	clk := clock.NewManual(epoch)
	seq := New(clk, nil)
	rec := &recorder{}
	seq.Play(DisassemblyName, Disassembly(), rec.onStep)

	seq.Tick(clk.Advance(450 * time.Millisecond))
	require.Equal(t, 2, seq.CurrentStep())

	seq.Stop()
	assert.False(t, seq.IsPlaying())
	assert.Equal(t, 0, seq.CurrentStep())
	assert.Equal(t, 0, seq.Pending(), "every pending timer is released")

	assert.Equal(t, 0, seq.Tick(clk.Advance(time.Hour)))
	assert.Len(t, rec.systems, 3, "no callback after stop")

	// Replay starts from index 0 again.
	require.NoError(t, seq.TryPlay(DisassemblyName, Disassembly(), rec.onStep))
	assert.Equal(t, 0, seq.CurrentStep())
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	seq := New(clock.NewManual(epoch), nil)
	seq.Stop()
	assert.False(t, seq.IsPlaying())
	assert.Equal(t, 0, seq.CurrentStep())
}

func TestStopFromHandler(t *testing.T) {
	clk := clock.NewManual(epoch)
	seq := New(clk, nil)
	var fired []string
	seq.Play("custom", Assembly(), func(s Step) {
		fired = append(fired, s.System)
		if s.System == "battery" {
			seq.Stop()
		}
	})

	seq.Tick(clk.Advance(time.Hour))
	assert.Equal(t, []string{"chassis", "battery"}, fired)
	assert.False(t, seq.IsPlaying())
	assert.Equal(t, 0, seq.CurrentStep())
}

func TestEmptySequenceRejected(t *testing.T) {
	seq := New(clock.NewManual(epoch), nil)
	assert.ErrorIs(t, seq.TryPlay("empty", nil, nil), ErrEmpty)
	assert.False(t, seq.IsPlaying())
}

func TestLastListedStepEndsPlayback(t *testing.T) {
	clk := clock.NewManual(epoch)
	seq := New(clk, nil)
	rec := &recorder{}
	steps := []Step{
		{System: "late", Delay: time.Second},
		{System: "early", Delay: 0},
	}
	seq.Play("custom", steps, rec.onStep)

	seq.Tick(clk.Now())
	assert.False(t, seq.IsPlaying(), "last listed step fired first")
	assert.Equal(t, 1, seq.Pending())

	seq.Tick(clk.Advance(time.Second))
	assert.Equal(t, []string{"early", "late"}, rec.systems)
	assert.Equal(t, 0, seq.Pending())
}

func TestNegativeDelayFiresImmediately(t *testing.T) {
	clk := clock.NewManual(epoch)
	seq := New(clk, nil)
	rec := &recorder{}
	seq.Play("custom", []Step{{System: "x", Delay: -time.Second}}, rec.onStep)
	assert.Equal(t, 1, seq.Tick(clk.Now()))
	assert.Equal(t, []string{"x"}, rec.systems)
}
