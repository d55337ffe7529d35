package explode

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/logger"
	"github.com/Faultbox/ev-configurator/pkg/math"
)

// ErrDuplicateGroup is returned when two groups share an ID.
var ErrDuplicateGroup = errors.New("explode: duplicate group id")

// Group is one separately explodable subsystem of the model.
type Group struct {
	ID        string
	Label     string
	Origin    math.Vec3 // authored position
	Direction math.Vec3 // explosion direction, usually unit length
	Distance  float32   // how far the group travels at factor 1
	Extents   math.Vec3 // half-size of the group's bounding box
	Color     [3]float32
}

// Offset returns the displacement of a group at the given explode factor:
// direction * distance * factor, per axis.
func Offset(factor float32, direction math.Vec3, distance float32) math.Vec3 {
	return direction.Scale(distance * factor)
}

// NodeWriter receives group positions. The render backend implements it.
type NodeWriter interface {
	SetNodeTransform(id string, position math.Vec3)
}

// track animates a single group independently of the global factor. Sequence
// steps use it to move one subsystem at a time.
type track struct {
	factor  float32
	target  float32
	rate    float32 // factor units per second, 0 means snap
	release bool    // chasing the global factor, dropped on reaching it
}

func (t *track) advance(dt float32) {
	if t.factor == t.target {
		return
	}
	if t.rate <= 0 {
		t.factor = t.target
		return
	}
	step := t.rate * dt
	if t.target > t.factor {
		t.factor = math.Clamp(t.factor+step, t.factor, t.target)
	} else {
		t.factor = math.Clamp(t.factor-step, t.target, t.factor)
	}
}

// record is the arena slot for one group.
type record struct {
	group   Group
	track   *track
	factor  float32
	written math.Vec3
	valid   bool // written holds what the backend last received
}

// Positioner owns the transform records of every exploded group, keyed by
// group ID, and writes their positions to a NodeWriter.
type Positioner struct {
	records []record
	index   map[string]int
	log     *zap.Logger
}

// NewPositioner builds the arena. Group IDs must be unique and non-empty.
func NewPositioner(groups []Group, log *zap.Logger) (*Positioner, error) {
	p := &Positioner{
		records: make([]record, 0, len(groups)),
		index:   make(map[string]int, len(groups)),
		log:     logger.OrNop(log),
	}
	for _, g := range groups {
		if g.ID == "" {
			return nil, fmt.Errorf("explode: group with empty id")
		}
		if _, dup := p.index[g.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, g.ID)
		}
		p.index[g.ID] = len(p.records)
		p.records = append(p.records, record{group: g})
	}
	return p, nil
}

// Groups returns the groups in arena order.
func (p *Positioner) Groups() []Group {
	out := make([]Group, len(p.records))
	for i := range p.records {
		out[i] = p.records[i].group
	}
	return out
}

// Group returns the group registered under id.
func (p *Positioner) Group(id string) (Group, bool) {
	i, ok := p.index[id]
	if !ok {
		return Group{}, false
	}
	return p.records[i].group, true
}

// Drive moves a single group toward exploded (or assembled) over d,
// overriding the global factor for that group until Release. The move starts
// from the group's current factor. Unknown IDs return false.
func (p *Positioner) Drive(id string, exploded bool, d time.Duration) bool {
	i, ok := p.index[id]
	if !ok {
		p.log.Debug("drive: unknown group", zap.String("group", id))
		return false
	}
	r := &p.records[i]
	t := &track{factor: r.factor}
	if exploded {
		t.target = 1
	}
	if d > 0 {
		t.rate = float32(time.Second) / float32(d)
	}
	r.track = t
	return true
}

// Release hands every driven group back to the global factor. Each one
// chases the global factor at rate factor units per second and rejoins it
// once they meet. A non-positive rate hands them back on the next Advance.
func (p *Positioner) Release(rate float32) {
	released := 0
	for i := range p.records {
		if t := p.records[i].track; t != nil {
			t.release = true
			t.rate = rate
			released++
		}
	}
	if released > 0 {
		p.log.Debug("releasing driven groups", zap.Int("count", released), zap.Float32("rate", rate))
	}
}

// Overridden reports whether a group is currently driven by its own track.
func (p *Positioner) Overridden(id string) bool {
	i, ok := p.index[id]
	return ok && p.records[i].track != nil
}

// Advance steps every per-group track by dt seconds. Released tracks move
// toward global and are dropped once they reach it.
func (p *Positioner) Advance(dt float64, global float32) {
	if !(dt > 0) {
		dt = 0
	}
	global = math.Clamp01(global)
	for i := range p.records {
		t := p.records[i].track
		if t == nil {
			continue
		}
		if t.release {
			t.target = global
		}
		if dt > 0 || (t.release && t.rate <= 0) {
			t.advance(float32(dt))
		}
		if t.release && t.factor == global {
			p.records[i].track = nil
		}
	}
}

// Apply resolves each group's factor (its track if any, otherwise global)
// and writes origin+offset to w. Groups whose position has not changed since
// the last write are skipped unless force is set.
func (p *Positioner) Apply(global float32, w NodeWriter, force bool) int {
	global = math.Clamp01(global)
	written := 0
	for i := range p.records {
		r := &p.records[i]
		r.factor = global
		if r.track != nil {
			r.factor = r.track.factor
		}
		pos := r.group.Origin.Add(Offset(r.factor, r.group.Direction, r.group.Distance))
		if !force && r.valid && pos == r.written {
			continue
		}
		if w != nil {
			w.SetNodeTransform(r.group.ID, pos)
		}
		r.written = pos
		r.valid = true
		written++
	}
	return written
}

// Invalidate forces the next Apply to write every group.
func (p *Positioner) Invalidate() {
	for i := range p.records {
		p.records[i].valid = false
	}
}

// Position returns the last position computed for a group.
func (p *Positioner) Position(id string) (math.Vec3, bool) {
	i, ok := p.index[id]
	if !ok {
		return math.Vec3{}, false
	}
	r := &p.records[i]
	if !r.valid {
		return r.group.Origin, true
	}
	return r.written, true
}

// Factor returns the last resolved factor for a group.
func (p *Positioner) Factor(id string) (float32, bool) {
	i, ok := p.index[id]
	if !ok {
		return 0, false
	}
	return p.records[i].factor, true
}
