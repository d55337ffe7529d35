package viewer

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/viewer/section"
	"github.com/Faultbox/ev-configurator/internal/viewer/sequence"
	"github.com/Faultbox/ev-configurator/internal/viewer/viewmode"
)

// Op is a control panel action.
type Op int

const (
	OpNone Op = iota
	OpToggleExploded
	OpToggleCrossSection
	OpAssemble
	OpPlayAssembly
	OpPlayDisassembly
	OpStopSequence
	OpSectionForward
	OpSectionBack
	OpCycleSectionAxis
	OpFaster
	OpSlower
	OpClearFocus
	OpPreset // Index selects the preset in registry order
)

var opNames = map[Op]string{
	OpToggleExploded:     "explode",
	OpToggleCrossSection: "section",
	OpAssemble:           "assemble",
	OpPlayAssembly:       "play-assembly",
	OpPlayDisassembly:    "play-disassembly",
	OpStopSequence:       "stop",
	OpSectionForward:     "section+",
	OpSectionBack:        "section-",
	OpCycleSectionAxis:   "axis",
	OpFaster:             "faster",
	OpSlower:             "slower",
	OpClearFocus:         "unfocus",
	OpPreset:             "preset",
}

// Section plane and speed increments for the stepping commands.
const (
	SectionStep = 0.25
	SpeedFactor = 1.5
)

// Command is one control action. Index is only used by OpPreset.
type Command struct {
	Op    Op
	Index int
}

func (c Command) String() string {
	name, ok := opNames[c.Op]
	if !ok {
		return fmt.Sprintf("Op(%d)", int(c.Op))
	}
	if c.Op == OpPreset {
		return fmt.Sprintf("%s %d", name, c.Index)
	}
	return name
}

// ParseCommand parses the String form of a command, e.g. "explode" or
// "preset 3".
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	for op, name := range opNames {
		if name != fields[0] {
			continue
		}
		if op != OpPreset {
			if len(fields) != 1 {
				return Command{}, fmt.Errorf("command %q takes no argument", name)
			}
			return Command{Op: op}, nil
		}
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("command %q needs a preset index", name)
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil || i < 0 {
			return Command{}, fmt.Errorf("bad preset index %q", fields[1])
		}
		return Command{Op: op, Index: i}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}

// Execute performs a control action.
func (v *Viewer) Execute(c Command) {
	v.log.Debug("command", zap.Stringer("command", c))
	switch c.Op {
	case OpToggleExploded:
		v.ToggleExploded()
	case OpToggleCrossSection:
		v.ToggleCrossSection()
	case OpAssemble:
		v.SetMode(viewmode.Assembled)
	case OpPlayAssembly:
		v.PlaySequence(sequence.AssemblyName)
	case OpPlayDisassembly:
		v.PlaySequence(sequence.DisassemblyName)
	case OpStopSequence:
		v.StopSequence()
	case OpSectionForward:
		v.SetCrossSectionPlane(v.CrossSectionPlane() + SectionStep)
	case OpSectionBack:
		v.SetCrossSectionPlane(v.CrossSectionPlane() - SectionStep)
	case OpCycleSectionAxis:
		v.SetCrossSectionAxis((v.CrossSectionAxis() + 1) % (section.AxisZ + 1))
	case OpFaster:
		v.SetAnimationSpeed(v.AnimationSpeed() * SpeedFactor)
	case OpSlower:
		v.SetAnimationSpeed(v.AnimationSpeed() / SpeedFactor)
	case OpClearFocus:
		v.ClearFocus()
	case OpPreset:
		names := v.cameras.Presets().Names()
		if c.Index < 0 || c.Index >= len(names) {
			v.log.Warn("no preset at index", zap.Int("index", c.Index))
			return
		}
		v.AnimateToPreset(names[c.Index])
	default:
		v.log.Warn("ignoring unknown command", zap.Int("op", int(c.Op)))
	}
}
