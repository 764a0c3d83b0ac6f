// Package mesh provides a drawable mesh loaded from an OBJ file.
//
// A Mesh owns its CPU-side geometry description and a GPU handle obtained from a
// Device. The Device is the only way the mesh talks to the graphics API.
package mesh

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/engine/model"
	"github.com/Faultbox/jf2/internal/logger"
	"github.com/Faultbox/jf2/pkg/formats"
)

// Mesh errors.
var (
	ErrNotLoaded        = errors.New("mesh not loaded")
	ErrInvalidInstances = errors.New("instance count must be at least 1")
	ErrNoProgram        = errors.New("no shader program for draw")
)

// Handle identifies geometry uploaded to a Device.
type Handle uint32

// Device uploads and draws indexed triangle geometry.
type Device interface {
	// CreateMesh uploads vertices and indices and returns a handle to them.
	CreateMesh(vertices []model.Vertex, indices []uint32) (Handle, error)
	// DeleteMesh releases the buffers behind h.
	DeleteMesh(h Handle)
	// DrawInstanced issues one instanced indexed draw of h with program.
	DrawInstanced(program uint32, h Handle, indexCount, instances int32) error
}

// Mesh is a renderable model.
type Mesh struct {
	dev     Device
	program uint32
	opts    model.BuildOptions

	handle      Handle
	uploaded    bool
	loaded      bool
	indexCount  int32
	vertexCount int
	bounds      model.Bounds
	source      string
}

// New creates an empty mesh that draws with program unless overridden.
func New(dev Device, program uint32) *Mesh {
	return &Mesh{dev: dev, program: program}
}

// SetBuildOptions changes how subsequent loads build geometry.
func (m *Mesh) SetBuildOptions(opts model.BuildOptions) {
	m.opts = opts
}

// Load parses the OBJ file at path and uploads it.
//
// Loading an already loaded mesh replaces its geometry. The new file is fully
// parsed and uploaded before the old buffers are released, so on error the
// mesh keeps drawing what it had.
func (m *Mesh) Load(path string, mode formats.FaceMode) error {
	obj, err := formats.ParseOBJFile(path, mode)
	if err != nil {
		return fmt.Errorf("loading mesh %s: %w", path, err)
	}

	built, err := model.BuildMesh(obj, m.opts)
	if err != nil {
		return fmt.Errorf("loading mesh %s: %w", path, err)
	}

	if err := m.LoadMesh(built); err != nil {
		return fmt.Errorf("loading mesh %s: %w", path, err)
	}
	m.source = path

	logger.Debug("mesh loaded",
		zap.String("path", path),
		zap.Stringer("mode", mode),
		zap.Int("vertices", m.vertexCount),
		zap.Int32("indices", m.indexCount),
		zap.Int("skipped", obj.Skipped),
	)
	return nil
}

// LoadMesh uploads already built geometry, with the same replace semantics as Load.
// Geometry without indices is accepted but never reaches the Device; drawing
// such a mesh does nothing.
func (m *Mesh) LoadMesh(built *model.Mesh) error {
	var h Handle
	if len(built.Indices) > 0 {
		var err error
		h, err = m.dev.CreateMesh(built.Vertices, built.Indices)
		if err != nil {
			return fmt.Errorf("uploading: %w", err)
		}
	}

	if m.uploaded {
		m.dev.DeleteMesh(m.handle)
	}

	m.handle = h
	m.uploaded = len(built.Indices) > 0
	m.loaded = true
	m.indexCount = int32(len(built.Indices))
	m.vertexCount = len(built.Vertices)
	m.bounds = built.Bounds
	m.source = ""
	return nil
}

// DrawOption customizes a single Draw call.
type DrawOption func(*drawParams)

type drawParams struct {
	program   uint32
	instances int
}

// WithProgram draws with program instead of the mesh's own.
// A zero program keeps the mesh's own.
func WithProgram(program uint32) DrawOption {
	return func(p *drawParams) {
		if program != 0 {
			p.program = program
		}
	}
}

// Instances sets how many instances are drawn. The default is 1.
func Instances(n int) DrawOption {
	return func(p *drawParams) {
		p.instances = n
	}
}

// Draw issues a single instanced draw of the mesh.
func (m *Mesh) Draw(opts ...DrawOption) error {
	p := drawParams{program: m.program, instances: 1}
	for _, opt := range opts {
		opt(&p)
	}

	if !m.loaded {
		return ErrNotLoaded
	}
	if p.instances < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidInstances, p.instances)
	}
	if p.program == 0 {
		return ErrNoProgram
	}
	if m.indexCount == 0 {
		return nil
	}

	return m.dev.DrawInstanced(p.program, m.handle, m.indexCount, int32(p.instances))
}

// Destroy releases the GPU buffers. The mesh can be loaded again afterwards.
func (m *Mesh) Destroy() {
	if !m.loaded {
		return
	}
	if m.uploaded {
		m.dev.DeleteMesh(m.handle)
	}
	m.handle = 0
	m.uploaded = false
	m.loaded = false
	m.indexCount = 0
	m.vertexCount = 0
	m.bounds = model.Bounds{}
	m.source = ""
}

// Loaded reports whether geometry has been loaded, even if it has no faces.
func (m *Mesh) Loaded() bool { return m.loaded }

// IndexCount returns the number of indices drawn per instance.
func (m *Mesh) IndexCount() int32 { return m.indexCount }

// VertexCount returns the number of uploaded vertices.
func (m *Mesh) VertexCount() int { return m.vertexCount }

// Bounds returns the bounding box of the loaded geometry.
func (m *Mesh) Bounds() model.Bounds { return m.bounds }

// Source returns the path of the last loaded file, if any.
func (m *Mesh) Source() string { return m.source }

// Program returns the mesh's own shader program.
func (m *Mesh) Program() uint32 { return m.program }
