// Package scene loads the configurator's scene description: camera presets,
// scripted sequences and the explodable part groups.
//
// A scene file is YAML and is merged over the built-in defaults, so a file
// only needs to list what it changes.
package scene

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/ev-configurator/internal/engine/camera"
	"github.com/Faultbox/ev-configurator/internal/viewer/explode"
	"github.com/Faultbox/ev-configurator/internal/viewer/sequence"
	"github.com/Faultbox/ev-configurator/pkg/math"
)

// ErrDuplicateID is returned when a file repeats a preset or group name.
var ErrDuplicateID = errors.New("scene: duplicate id")

// Scene is the resolved description handed to the viewer.
type Scene struct {
	Presets   *camera.Registry
	Sequences map[string][]sequence.Step
	Groups    []explode.Group
}

// File is the on-disk YAML layout.
type File struct {
	Presets   []PresetDef          `yaml:"presets"`
	Sequences map[string][]StepDef `yaml:"sequences"`
	Groups    []GroupDef           `yaml:"groups"`
}

// PresetDef is a camera preset as written in YAML.
type PresetDef struct {
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

// StepDef is a sequence step as written in YAML.
type StepDef struct {
	System   string        `yaml:"system"`
	Delay    time.Duration `yaml:"delay"`
	Duration time.Duration `yaml:"duration"`
	Action   string        `yaml:"action"`
}

// GroupDef is an explodable group as written in YAML.
type GroupDef struct {
	ID        string     `yaml:"id"`
	Label     string     `yaml:"label"`
	Origin    [3]float32 `yaml:"origin"`
	Direction [3]float32 `yaml:"direction"`
	Distance  float32    `yaml:"distance"`
	Extents   [3]float32 `yaml:"extents"`
	Color     [3]float32 `yaml:"color"`
}

// Default returns the built-in EV scene: the standard presets, the assembly
// and disassembly sequences, and one group per subsystem.
func Default() *Scene {
	return &Scene{
		Presets:   camera.DefaultPresets(),
		Sequences: sequence.Canonical(),
		Groups:    DefaultGroups(),
	}
}

// DefaultGroups returns the EV subsystems laid out around the origin.
func DefaultGroups() []explode.Group {
	v := func(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }
	return []explode.Group{
		{ID: "chassis", Label: "Chassis", Origin: v(0, -1.2, 0), Direction: v(0, -1, 0), Distance: 1.5,
			Extents: v(2.2, 0.1, 1.0), Color: [3]float32{0.55, 0.55, 0.6}},
		{ID: "battery", Label: "Battery System", Origin: v(0, -1.0, 0), Direction: v(0, -1, 0), Distance: 3.0,
			Extents: v(1.6, 0.12, 0.85), Color: [3]float32{0.23, 0.51, 0.96}},
		{ID: "motor", Label: "Motor System", Origin: v(1.8, -0.4, 0), Direction: v(1, 0, 0), Distance: 2.0,
			Extents: v(0.35, 0.3, 0.35), Color: [3]float32{0.13, 0.77, 0.37}},
		{ID: "brakes", Label: "Braking System", Origin: v(0, -0.6, 0), Direction: v(0, 0, 1), Distance: 2.0,
			Extents: v(2.0, 0.35, 1.1), Color: [3]float32{0.94, 0.27, 0.27}},
		{ID: "body", Label: "Body & Exterior", Origin: v(0, 0.2, 0), Direction: v(0, 1, 0), Distance: 2.5,
			Extents: v(2.4, 0.6, 1.1), Color: [3]float32{0.39, 0.4, 0.95}},
		{ID: "interior", Label: "Interior", Origin: v(0, 0.3, 0), Direction: v(-1, 0.5, 0), Distance: 2.0,
			Extents: v(1.0, 0.35, 0.8), Color: [3]float32{0.96, 0.62, 0.04}},
		{ID: "cooling-system", Label: "Cooling", Origin: v(2.0, -0.2, 0), Direction: v(1, 0.3, 0), Distance: 1.5,
			Extents: v(0.1, 0.3, 0.7), Color: [3]float32{0.02, 0.71, 0.83}},
	}
}

// Load reads a scene file and merges it over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Scene, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes YAML and merges it over the defaults.
func Parse(data []byte) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return f.Resolve(Default())
}

// Resolve validates the file and merges it over base. Presets and sequences
// are overridden by name; a non-empty group list replaces base's groups.
func (f *File) Resolve(base *Scene) (*Scene, error) {
	out := &Scene{
		Presets:   base.Presets,
		Sequences: make(map[string][]sequence.Step, len(base.Sequences)+len(f.Sequences)),
		Groups:    base.Groups,
	}

	if len(f.Presets) > 0 {
		seen := make(map[string]bool, len(f.Presets))
		presets := make([]camera.Preset, 0, len(f.Presets))
		for _, p := range f.Presets {
			if p.Name == "" {
				return nil, fmt.Errorf("preset with empty name")
			}
			if seen[p.Name] {
				return nil, fmt.Errorf("%w: preset %q", ErrDuplicateID, p.Name)
			}
			seen[p.Name] = true
			presets = append(presets, camera.Preset{
				Name:     p.Name,
				Position: math.V3(p.Position),
				Target:   math.V3(p.Target),
			})
		}
		out.Presets = base.Presets.Merge(camera.NewRegistry(presets...))
	}

	for name, steps := range base.Sequences {
		out.Sequences[name] = steps
	}
	for name, defs := range f.Sequences {
		steps, err := resolveSteps(defs)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", name, err)
		}
		out.Sequences[name] = steps
	}

	if len(f.Groups) > 0 {
		seen := make(map[string]bool, len(f.Groups))
		groups := make([]explode.Group, 0, len(f.Groups))
		for _, g := range f.Groups {
			if g.ID == "" {
				return nil, fmt.Errorf("group with empty id")
			}
			if seen[g.ID] {
				return nil, fmt.Errorf("%w: group %q", ErrDuplicateID, g.ID)
			}
			seen[g.ID] = true
			groups = append(groups, explode.Group{
				ID:        g.ID,
				Label:     g.Label,
				Origin:    math.V3(g.Origin),
				Direction: math.V3(g.Direction),
				Distance:  g.Distance,
				Extents:   math.V3(g.Extents),
				Color:     g.Color,
			})
		}
		out.Groups = groups
	}

	return out, nil
}

func resolveSteps(defs []StepDef) ([]sequence.Step, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("no steps")
	}
	steps := make([]sequence.Step, len(defs))
	for i, d := range defs {
		if d.System == "" {
			return nil, fmt.Errorf("step %d: empty system", i)
		}
		if d.Delay < 0 || d.Duration < 0 {
			return nil, fmt.Errorf("step %d: negative delay or duration", i)
		}
		action, err := sequence.ParseAction(d.Action)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps[i] = sequence.Step{
			System:   d.System,
			Delay:    d.Delay,
			Duration: d.Duration,
			Action:   action,
		}
	}
	return steps, nil
}

// SequenceNames returns the sequence names in a stable order: the canonical
// ones first, then the rest alphabetically.
func (s *Scene) SequenceNames() []string {
	names := make([]string, 0, len(s.Sequences))
	for _, n := range []string{sequence.AssemblyName, sequence.DisassemblyName} {
		if _, ok := s.Sequences[n]; ok {
			names = append(names, n)
		}
	}
	var rest []string
	for n := range s.Sequences {
		if n != sequence.AssemblyName && n != sequence.DisassemblyName {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
