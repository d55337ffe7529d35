// Package sequence plays scripted, timed assembly and disassembly steps.
package sequence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownAction is returned when parsing an action name fails.
var ErrUnknownAction = errors.New("sequence: unknown action")

// Action is what a step does to its subsystem.
type Action int

const (
	Assemble Action = iota
	Explode
)

func (a Action) String() string {
	switch a {
	case Assemble:
		return "assemble"
	case Explode:
		return "explode"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction converts "assemble" or "explode" to an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assemble":
		return Assemble, nil
	case "explode":
		return Explode, nil
	}
	return Assemble, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Step is one timed unit of a sequence. Delay is measured from the start of
// the sequence, not from the previous step, so steps may overlap. Duration
// is informational: it tells the handler how long its own animation should
// take.
type Step struct {
	System   string
	Delay    time.Duration
	Duration time.Duration
	Action   Action
}

// Names of the canonical sequences.
const (
	AssemblyName    = "assembly"
	DisassemblyName = "disassembly"
)

// Assembly returns the canonical assembly sequence: six subsystems, 500ms
// apart, one second each.
func Assembly() []Step {
	return spaced(Assemble, 500*time.Millisecond,
		"chassis", "battery", "motor", "brakes", "body", "interior")
}

// Disassembly returns the canonical disassembly sequence: the reverse order,
// 200ms apart so the steps overlap.
func Disassembly() []Step {
	return spaced(Explode, 200*time.Millisecond,
		"interior", "body", "brakes", "motor", "battery", "chassis")
}

func spaced(action Action, gap time.Duration, systems ...string) []Step {
	steps := make([]Step, len(systems))
	for i, sys := range systems {
		steps[i] = Step{
			System:   sys,
			Delay:    time.Duration(i) * gap,
			Duration: time.Second,
			Action:   action,
		}
	}
	return steps
}

// Canonical returns the built-in sequences keyed by name.
func Canonical() map[string][]Step {
	return map[string][]Step{
		AssemblyName:    Assembly(),
		DisassemblyName: Disassembly(),
	}
}

// Span returns the time from sequence start until the last step's own
// animation would finish.
func Span(steps []Step) time.Duration {
	var end time.Duration
	for _, s := range steps {
		if e := s.Delay + s.Duration; e > end {
			end = e
		}
	}
	return end
}
