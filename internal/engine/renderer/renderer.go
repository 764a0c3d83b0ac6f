// Package renderer provides the OpenGL render context.
//
// All GL state changes made by the engine go through a Context, which remembers
// what is bound and skips redundant binds. Textures are created through Context
// methods too, so upload binds are undone against the same bookkeeping. Nothing
// outside this package calls gl.UseProgram, gl.BindVertexArray or gl.BindTexture.
package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/engine/mesh"
	"github.com/Faultbox/jf2/internal/engine/model"
	"github.com/Faultbox/jf2/internal/engine/texunit"
	"github.com/Faultbox/jf2/internal/logger"
)

// Render context errors.
var (
	ErrUnknownMesh = errors.New("unknown mesh handle")
	ErrEmptyMesh   = errors.New("mesh has no vertices or indices")
	ErrGL          = errors.New("OpenGL error")
)

// Config holds render context configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor mgl32.Vec4
	// Debug enables glGetError checks after uploads and draws.
	Debug bool
}

// Stats holds per-frame counters.
type Stats struct {
	DrawCalls     int
	Instances     int
	Binds         int
	ElidedBinds   int
	MeshUploads   int
	LiveMeshes    int
	BoundTextures int
}

var _ mesh.Device = (*Context)(nil)

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// Context tracks GL bindings and owns uploaded mesh buffers.
type Context struct {
	config Config

	program  uint32
	vao      uint32
	textures *texunit.Table

	depthFunc uint32
	frontFace uint32

	meshes     map[mesh.Handle]gpuMesh
	nextHandle mesh.Handle

	stats Stats
}

// New creates a render context.
// Must be called after the OpenGL context is created and current.
func New(cfg Config) (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	c := &Context{
		config:   cfg,
		textures: texunit.NewTable(),
		meshes:   make(map[mesh.Handle]gpuMesh),
	}
	c.DefaultSettings()
	c.SetViewport(cfg.Width, cfg.Height)
	return c, nil
}

// DefaultSettings enables depth testing, back-face culling, alpha blending and multisampling.
func (c *Context) DefaultSettings() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	c.depthFunc = gl.LESS

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	c.frontFace = gl.CCW

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.Enable(gl.MULTISAMPLE)

	cc := c.config.ClearColor
	gl.ClearColor(cc[0], cc[1], cc[2], cc[3])
}

// Close releases every mesh still owned by the context.
func (c *Context) Close() {
	logger.Info("closing render context", zap.Int("meshes", len(c.meshes)))
	for h := range c.meshes {
		c.DeleteMesh(h)
	}
}

// SetViewport handles window resize.
func (c *Context) SetViewport(width, height int) {
	c.config.Width = width
	c.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("viewport set", zap.Int("width", width), zap.Int("height", height))
}

// Viewport returns the current viewport size.
func (c *Context) Viewport() (int, int) {
	return c.config.Width, c.config.Height
}

// SetClearColor changes the color used by Clear.
func (c *Context) SetClearColor(color mgl32.Vec4) {
	c.config.ClearColor = color
	gl.ClearColor(color[0], color[1], color[2], color[3])
}

// ClearMask selects the buffers cleared by Clear.
type ClearMask uint32

// Clear masks.
const (
	ClearColor ClearMask = gl.COLOR_BUFFER_BIT
	ClearDepth ClearMask = gl.DEPTH_BUFFER_BIT
	ClearAll             = ClearColor | ClearDepth
)

// Clear clears the selected buffers.
func (c *Context) Clear(mask ClearMask) {
	gl.Clear(uint32(mask))
}

// PolygonMode switches between wireframe and filled rasterization.
func (c *Context) PolygonMode(wireframe bool) {
	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// UseProgram binds a shader program, skipping the call if it is already bound.
func (c *Context) UseProgram(program uint32) {
	if c.program == program {
		c.stats.ElidedBinds++
		return
	}
	gl.UseProgram(program)
	c.program = program
	c.stats.Binds++
}

// BindVertexArray binds a vertex array, skipping the call if it is already bound.
func (c *Context) BindVertexArray(vao uint32) {
	if c.vao == vao {
		c.stats.ElidedBinds++
		return
	}
	gl.BindVertexArray(vao)
	c.vao = vao
	c.stats.Binds++
}

// TextureBinder is anything that can be bound to a texture unit.
type TextureBinder interface {
	ID() uint32
	Target() uint32
}

// BindTexture binds tex to the given unit and returns a func that unbinds it.
//
//	defer ctx.BindTexture(0, tex)()
func (c *Context) BindTexture(unit uint32, tex TextureBinder) func() {
	want := texunit.Binding{Target: tex.Target(), ID: tex.ID()}
	if c.textures.Bind(unit, want) {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(want.Target, want.ID)
		c.stats.Binds++
	} else {
		c.stats.ElidedBinds++
	}

	return func() {
		if !c.textures.Release(unit, want) {
			return
		}
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(want.Target, 0)
	}
}

// withUpload binds texture id on unit 0 while fn fills it, then puts back
// whatever unit 0 had bound on target.
func (c *Context) withUpload(target, id uint32, fn func()) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(target, id)
	fn()
	gl.BindTexture(target, c.textures.Restore(0, target))
	c.stats.Binds++
}

// State holds fixed-function overrides applied by WithState.
// Zero fields leave the current setting unchanged.
type State struct {
	DepthFunc uint32
	FrontFace uint32
}

// Depth functions and winding orders accepted in State.
const (
	DepthLess   uint32 = gl.LESS
	DepthLEqual uint32 = gl.LEQUAL
	WindingCCW  uint32 = gl.CCW
	WindingCW   uint32 = gl.CW
)

// WithState applies s, runs fn, and restores the previous state.
func (c *Context) WithState(s State, fn func()) {
	prevDepth, prevFront := c.depthFunc, c.frontFace

	if s.DepthFunc != 0 && s.DepthFunc != prevDepth {
		gl.DepthFunc(s.DepthFunc)
		c.depthFunc = s.DepthFunc
	}
	if s.FrontFace != 0 && s.FrontFace != prevFront {
		gl.FrontFace(s.FrontFace)
		c.frontFace = s.FrontFace
	}

	defer func() {
		if c.depthFunc != prevDepth {
			gl.DepthFunc(prevDepth)
			c.depthFunc = prevDepth
		}
		if c.frontFace != prevFront {
			gl.FrontFace(prevFront)
			c.frontFace = prevFront
		}
	}()

	fn()
}

// CreateMesh uploads vertices and indices into a new VAO/VBO/EBO.
func (c *Context) CreateMesh(vertices []model.Vertex, indices []uint32) (mesh.Handle, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return 0, ErrEmptyMesh
	}

	var m gpuMesh
	gl.GenVertexArrays(1, &m.vao)
	c.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*model.VertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexSize, model.PositionOffset)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, model.VertexSize, model.NormalOffset)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, model.VertexSize, model.TexCoordOffset)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	m.indexCount = int32(len(indices))
	c.BindVertexArray(0)

	if err := c.CheckError("mesh upload"); err != nil {
		c.deleteBuffers(m)
		return 0, err
	}

	c.nextHandle++
	c.meshes[c.nextHandle] = m
	c.stats.MeshUploads++
	return c.nextHandle, nil
}

// DeleteMesh releases the buffers behind h. Unknown handles are ignored.
func (c *Context) DeleteMesh(h mesh.Handle) {
	m, ok := c.meshes[h]
	if !ok {
		return
	}
	if c.vao == m.vao {
		c.BindVertexArray(0)
	}
	c.deleteBuffers(m)
	delete(c.meshes, h)
}

func (c *Context) deleteBuffers(m gpuMesh) {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
}

// DrawInstanced draws indexCount indices of h, instances times, with program.
func (c *Context) DrawInstanced(program uint32, h mesh.Handle, indexCount, instances int32) error {
	m, ok := c.meshes[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMesh, h)
	}
	if indexCount > m.indexCount {
		indexCount = m.indexCount
	}

	c.UseProgram(program)
	c.BindVertexArray(m.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil, instances)

	c.stats.DrawCalls++
	c.stats.Instances += int(instances)
	return c.CheckError("draw")
}

// CheckError returns the pending GL error when the context runs in debug mode.
func (c *Context) CheckError(op string) error {
	if !c.config.Debug {
		return nil
	}
	if code := gl.GetError(); code != gl.NO_ERROR {
		err := fmt.Errorf("%w: %s: 0x%04X", ErrGL, op, code)
		logger.Warn("gl error", zap.String("op", op), zap.Uint32("code", code))
		return err
	}
	return nil
}

// Stats returns the counters collected since the last ResetStats.
func (c *Context) Stats() Stats {
	s := c.stats
	s.LiveMeshes = len(c.meshes)
	s.BoundTextures = c.textures.Len()
	return s
}

// ResetStats clears the per-frame counters.
func (c *Context) ResetStats() {
	c.stats = Stats{}
}

// ReadPixels reads the current framebuffer as bottom-up RGBA rows.
func (c *Context) ReadPixels() ([]byte, int, int) {
	w, h := c.config.Width, c.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
