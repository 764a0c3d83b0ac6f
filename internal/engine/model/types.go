// Package model builds flat GPU-ready vertex/index buffers from parsed model files.
package model

import "github.com/go-gl/mathgl/mgl32"

// VertexSize is the size in bytes of one Vertex as laid out in a vertex buffer.
const VertexSize = 8 * 4

// Attribute byte offsets within a Vertex.
const (
	PositionOffset = 0
	NormalOffset   = 3 * 4
	TexCoordOffset = 6 * 4
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Mesh holds the flattened vertex and index buffers ready for GPU upload.
// Indices are grouped in triangles and always reference Vertices.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// TriangleCount returns the number of triangles described by the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the center of the bounding box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the bounding box on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// GenerateNormals fills missing normals with the flat face normal.
	GenerateNormals bool
	// Center moves the mesh so its bounding box is centered on the origin.
	Center bool
}
