package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/jf2/pkg/formats"
)

// ErrIndexOutOfRange is returned when a face references a missing attribute.
var ErrIndexOutOfRange = errors.New("face index out of range")

// BuildMesh flattens a parsed OBJ model into vertex and index buffers.
// Every face corner produces its own vertex; vertices are not deduplicated.
// Faces with more than three corners are split into a triangle fan.
// A model without faces builds an empty mesh.
func BuildMesh(obj *formats.OBJ, opts BuildOptions) (*Mesh, error) {
	var corners, triangles int
	for _, face := range obj.Faces {
		corners += len(face.Corners)
		if len(face.Corners) > 2 {
			triangles += len(face.Corners) - 2
		}
	}

	vertices := make([]Vertex, 0, corners)
	indices := make([]uint32, 0, triangles*3)

	for _, face := range obj.Faces {
		base := uint32(len(vertices))

		for _, corner := range face.Corners {
			v, err := resolveCorner(obj, corner)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", face.Line, err)
			}
			vertices = append(vertices, v)
		}

		if opts.GenerateNormals && !face.Type.HasNormals() {
			applyFaceNormal(vertices[base:])
		}

		n := uint32(len(face.Corners))
		for k := uint32(1); k+1 < n; k++ {
			indices = append(indices, base, base+k, base+k+1)
		}
	}

	mesh := &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   ComputeBounds(vertices),
	}
	if opts.Center {
		CenterMesh(mesh)
	}
	return mesh, nil
}

// resolveCorner converts 1-based file references into a Vertex.
// Absent texture coordinates and normals are left as zero.
func resolveCorner(obj *formats.OBJ, c formats.OBJCorner) (Vertex, error) {
	var v Vertex

	pi := c.Position.Index - 1
	if pi < 0 || pi >= len(obj.Positions) {
		return v, fmt.Errorf("%w: position %d of %d", ErrIndexOutOfRange, c.Position.Index, len(obj.Positions))
	}
	v.Position = obj.Positions[pi]

	if c.TexCoord.Present {
		ti := c.TexCoord.Index - 1
		if ti < 0 || ti >= len(obj.TexCoords) {
			return v, fmt.Errorf("%w: texcoord %d of %d", ErrIndexOutOfRange, c.TexCoord.Index, len(obj.TexCoords))
		}
		v.TexCoord = obj.TexCoords[ti]
	}

	if c.Normal.Present {
		ni := c.Normal.Index - 1
		if ni < 0 || ni >= len(obj.Normals) {
			return v, fmt.Errorf("%w: normal %d of %d", ErrIndexOutOfRange, c.Normal.Index, len(obj.Normals))
		}
		v.Normal = obj.Normals[ni]
	}

	return v, nil
}

// applyFaceNormal sets the flat normal of the polygon formed by its first three vertices.
// Degenerate faces keep a zero normal.
func applyFaceNormal(face []Vertex) {
	if len(face) < 3 {
		return
	}
	e1 := face[1].Position.Sub(face[0].Position)
	e2 := face[2].Position.Sub(face[0].Position)
	n := e1.Cross(e2)
	if n.Len() < 1e-6 {
		return
	}
	n = n.Normalize()
	for i := range face {
		face[i].Normal = n
	}
}

// ComputeBounds returns the bounding box of the given vertices.
func ComputeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}

	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			if v.Position[axis] < b.Min[axis] {
				b.Min[axis] = v.Position[axis]
			}
			if v.Position[axis] > b.Max[axis] {
				b.Max[axis] = v.Position[axis]
			}
		}
	}
	return b
}

// CenterMesh translates the mesh so its bounding box is centered on the origin.
// Returns the offset that was subtracted.
func CenterMesh(m *Mesh) mgl32.Vec3 {
	center := m.Bounds.Center()
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(center)
	}
	m.Bounds.Min = m.Bounds.Min.Sub(center)
	m.Bounds.Max = m.Bounds.Max.Sub(center)
	return center
}

// UnitQuad returns a textured quad covering [0,1]x[0,1] on the XY plane,
// with texture coordinates flipped so V=0 is the top edge.
func UnitQuad() *Mesh {
	vertices := []Vertex{
		{Position: mgl32.Vec3{1, 0, 0}, TexCoord: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{0, 0, 0}, TexCoord: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{0, 1, 0}, TexCoord: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{1, 1, 0}, TexCoord: mgl32.Vec2{1, 0}},
	}
	for i := range vertices {
		vertices[i].Normal = mgl32.Vec3{0, 0, 1}
	}
	return &Mesh{
		Vertices: vertices,
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
		Bounds:   ComputeBounds(vertices),
	}
}

// Cube returns a 2×2×2 cube centered on the origin with outward normals.
// Faces are wound counter-clockwise seen from outside.
func Cube() *Mesh {
	faces := [6]struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	m := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: f.normal, TexCoord: uvs[i]})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	m.Bounds = ComputeBounds(m.Vertices)
	return m
}
