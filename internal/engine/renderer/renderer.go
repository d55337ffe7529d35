// Package renderer draws the configurator scene with OpenGL. It implements
// the viewer's backend: one wireframe box per part group, a ground grid whose
// density follows the detail level, a highlight outline for the focused
// group and a hardware clip plane for the cross-section view.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/engine/debug"
	"github.com/Faultbox/ev-configurator/internal/engine/shader"
	"github.com/Faultbox/ev-configurator/internal/logger"
	"github.com/Faultbox/ev-configurator/internal/viewer/explode"
	"github.com/Faultbox/ev-configurator/pkg/math"
)

const (
	groundHeight = -3.0
	gridHalfSize = 12.0
	nearPlane    = 0.1
	farPlane     = 200.0
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	FOV        float32 // vertical field of view, radians
	Background [3]float32
}

type groupMesh struct {
	id      string
	extents math.Vec3
	color   [3]float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program

	boxVAO uint32
	boxVBO uint32

	gridVAO      uint32
	gridVBO      uint32
	gridVertices int32
	gridLevel    int

	groups    []groupMesh
	positions map[string]math.Vec3
	highlight string

	eye    math.Vec3
	target math.Vec3

	clipPlane [4]float32
	clipOn    bool

	onFrame func(dt float64)
}

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uViewProj;
uniform vec4 uClipPlane;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	gl_ClipDistance[0] = dot(world, uClipPlane);
	gl_Position = uViewProj * world;
}
`

const fragmentShader = `
#version 410 core

uniform vec3 uColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, groups []explode.Group) (*Renderer, error) {
	if cfg.FOV <= 0 {
		cfg.FOV = 0.785
	}
	r := &Renderer{
		config:    cfg,
		log:       logger.Named("renderer"),
		positions: make(map[string]math.Vec3),
		gridLevel: -1,
		eye:       math.Vec3{X: 8, Y: 6, Z: 8},
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	var err error
	r.program, err = shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.boxVAO, r.boxVBO = uploadLines(debug.UnitBoxLines())
	r.SetGroups(groups)
	r.SetDetailLevel(0)

	return r, nil
}

// uploadLines creates a VAO holding [x, y, z] line vertices.
func uploadLines(vertices []float32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, vao := range []*uint32{&r.boxVAO, &r.gridVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.boxVBO, &r.gridVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// SetGroups replaces the drawn part groups, e.g. after a scene reload. Each
// group is drawn at its origin until its first transform arrives.
func (r *Renderer) SetGroups(groups []explode.Group) {
	r.groups = r.groups[:0]
	r.positions = make(map[string]math.Vec3, len(groups))
	for _, g := range groups {
		r.groups = append(r.groups, groupMesh{id: g.ID, extents: g.Extents, color: g.Color})
		r.positions[g.ID] = g.Origin
	}
	r.log.Debug("groups set", zap.Int("count", len(groups)))
}

// SetNodeTransform moves a group.
func (r *Renderer) SetNodeTransform(id string, position math.Vec3) {
	r.positions[id] = position
}

// SetCameraPose sets the eye and look-at target.
func (r *Renderer) SetCameraPose(position, target math.Vec3) {
	r.eye, r.target = position, target
}

// OnFrame registers the callback run at the start of every Render.
func (r *Renderer) OnFrame(fn func(dt float64)) {
	r.onFrame = fn
}

// SetClipPlane enables or disables the section clip plane. Geometry where
// dot(plane, p) < 0 is cut away.
func (r *Renderer) SetClipPlane(plane [4]float32, enabled bool) {
	r.clipPlane, r.clipOn = plane, enabled
}

// SetDetailLevel rebuilds the ground grid for a detail level.
func (r *Renderer) SetDetailLevel(level int) {
	if level == r.gridLevel {
		return
	}
	r.gridLevel = level
	if r.gridVAO != 0 {
		gl.DeleteVertexArrays(1, &r.gridVAO)
		gl.DeleteBuffers(1, &r.gridVBO)
	}
	vertices := debug.GridLines(gridHalfSize, debug.GridSpacing(level), groundHeight)
	r.gridVAO, r.gridVBO = uploadLines(vertices)
	r.gridVertices = int32(len(vertices) / 3)
	r.log.Debug("grid rebuilt", zap.Int("level", level), zap.Int32("vertices", r.gridVertices))
}

// SetHighlight outlines a group. An empty or unknown id clears it.
func (r *Renderer) SetHighlight(id string) {
	r.highlight = id
}

// Resize handles window resize. width and height are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// ViewProj returns the combined view-projection matrix for the current pose.
func (r *Renderer) ViewProj() math.Mat4 {
	aspect := float32(1)
	if r.config.Height > 0 {
		aspect = float32(r.config.Width) / float32(r.config.Height)
	}
	proj := math.Perspective(r.config.FOV, aspect, nearPlane, farPlane)
	view := math.LookAt(r.eye, r.target, math.Vec3{Y: 1})
	return proj.Mul(view)
}

// Render runs the frame callback and draws the scene.
func (r *Renderer) Render(dt float64) {
	if r.onFrame != nil {
		r.onFrame(dt)
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()

	viewProj := r.ViewProj()
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())

	// The grid is never sectioned.
	gl.Disable(gl.CLIP_DISTANCE0)
	r.setClip([4]float32{})
	identity := math.Identity()
	gl.UniformMatrix4fv(r.program.Uniform("uModel"), 1, false, identity.Ptr())
	gl.Uniform3f(r.program.Uniform("uColor"), 0.3, 0.3, 0.35)
	gl.BindVertexArray(r.gridVAO)
	gl.DrawArrays(gl.LINES, 0, r.gridVertices)

	if r.clipOn {
		gl.Enable(gl.CLIP_DISTANCE0)
		r.setClip(r.clipPlane)
	}
	gl.BindVertexArray(r.boxVAO)
	for _, g := range r.groups {
		pos := r.positions[g.id]
		r.drawBox(pos, g.extents, g.color)
		if g.id == r.highlight {
			pad := math.Vec3{X: debug.HighlightPadding, Y: debug.HighlightPadding, Z: debug.HighlightPadding}
			r.drawBox(pos, g.extents.Add(pad), [3]float32{1, 1, 1})
		}
	}
	gl.BindVertexArray(0)
	gl.Disable(gl.CLIP_DISTANCE0)
}

func (r *Renderer) setClip(p [4]float32) {
	gl.Uniform4f(r.program.Uniform("uClipPlane"), p[0], p[1], p[2], p[3])
}

func (r *Renderer) drawBox(pos, extents math.Vec3, color [3]float32) {
	model := math.Translate(pos.X, pos.Y, pos.Z).Mul(math.Scale(extents.X, extents.Y, extents.Z))
	gl.UniformMatrix4fv(r.program.Uniform("uModel"), 1, false, model.Ptr())
	gl.Uniform3f(r.program.Uniform("uColor"), color[0], color[1], color[2])
	gl.DrawArrays(gl.LINES, 0, debug.BoxVertexCount)
}

// ReadPixels reads back the framebuffer as RGBA, bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
