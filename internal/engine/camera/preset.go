package camera

import (
	"github.com/Faultbox/ev-configurator/pkg/math"
)

// Preset is a named, immutable camera viewpoint.
type Preset struct {
	Name     string
	Position math.Vec3
	Target   math.Vec3
}

// Registry is the fixed set of presets available to the viewer. Lookup order
// follows registration order so UIs can bind presets to number keys.
type Registry struct {
	presets map[string]Preset
	order   []string
}

// NewRegistry builds a registry from presets. A later preset with the same
// name replaces the earlier one but keeps its position in the order.
func NewRegistry(presets ...Preset) *Registry {
	r := &Registry{presets: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		r.add(p)
	}
	return r
}

func (r *Registry) add(p Preset) {
	if _, ok := r.presets[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.presets[p.Name] = p
}

// Lookup returns the preset registered under name.
func (r *Registry) Lookup(name string) (Preset, bool) {
	if r == nil {
		return Preset{}, false
	}
	p, ok := r.presets[name]
	return p, ok
}

// Names returns preset names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Len returns the number of presets.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Merge returns a new registry holding r's presets overridden by other's.
func (r *Registry) Merge(other *Registry) *Registry {
	out := NewRegistry()
	for _, name := range r.Names() {
		out.add(r.presets[name])
	}
	for _, name := range other.Names() {
		out.add(other.presets[name])
	}
	return out
}

// DefaultPresets returns the configurator's standard viewpoints.
func DefaultPresets() *Registry {
	v := func(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }
	origin := v(0, 0, 0)
	return NewRegistry(
		Preset{Name: "overview", Position: v(8, 6, 8), Target: origin},
		Preset{Name: "frontView", Position: v(6, 0, 0), Target: origin},
		Preset{Name: "rearView", Position: v(-6, 0, 0), Target: origin},
		Preset{Name: "topView", Position: v(0, 8, 0), Target: origin},
		Preset{Name: "bottomView", Position: v(0, -8, 0), Target: origin},
		Preset{Name: "leftView", Position: v(0, 0, 6), Target: origin},
		Preset{Name: "rightView", Position: v(0, 0, -6), Target: origin},
		Preset{Name: "battery", Position: v(0, -3, 4), Target: v(0, -1, 0)},
		Preset{Name: "motor", Position: v(4, 0, 4), Target: v(1.8, -0.4, 0)},
		Preset{Name: "interior", Position: v(2, 1, 2), Target: v(0, 0.5, 0)},
		Preset{Name: "chassis", Position: v(6, -2, 6), Target: v(0, -1, 0)},
	)
}
