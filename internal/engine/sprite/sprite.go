// Package sprite describes screen-space sprites: placement, rotation and instancing.
package sprite

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxOffsets is the number of extra instances a sprite can carry.
// It matches the size of the offset uniform array in the sprite shader.
const MaxOffsets = 8

// ErrTooManyOffsets is returned when a sprite has more than MaxOffsets offsets.
var ErrTooManyOffsets = errors.New("too many sprite instance offsets")

// Sprite is a textured quad in screen pixels, origin at the top-left corner.
type Sprite struct {
	Position mgl32.Vec2
	Size     mgl32.Vec2
	// Rotation in degrees, clockwise on screen, about the sprite's center.
	Rotation float32
	Color    mgl32.Vec3
	// Offsets adds one extra instance per entry, displaced from Position.
	Offsets []mgl32.Vec2
}

// New returns a white sprite at pos with the given size.
func New(pos, size mgl32.Vec2) *Sprite {
	return &Sprite{Position: pos, Size: size, Color: mgl32.Vec3{1, 1, 1}}
}

// Model returns the sprite's model matrix.
func (s *Sprite) Model() mgl32.Mat4 {
	return ModelMatrix(s.Position, s.Size, s.Rotation)
}

// Instances returns the number of quads drawn for the sprite.
func (s *Sprite) Instances() (int, error) {
	if len(s.Offsets) > MaxOffsets {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooManyOffsets, len(s.Offsets), MaxOffsets)
	}
	return len(s.Offsets) + 1, nil
}

// OffsetUniform returns the shader uniform name holding offset i.
func OffsetUniform(i int) string {
	return fmt.Sprintf("offset[%d]", i)
}

// ModelMatrix maps the unit quad onto a size-sized rectangle at pos, rotated
// by rotateDeg about its center.
func ModelMatrix(pos, size mgl32.Vec2, rotateDeg float32) mgl32.Mat4 {
	half := size.Mul(0.5)
	return mgl32.Translate3D(pos[0], pos[1], 0).
		Mul4(mgl32.Translate3D(half[0], half[1], 0)).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotateDeg))).
		Mul4(mgl32.Translate3D(-half[0], -half[1], 0)).
		Mul4(mgl32.Scale3D(size[0], size[1], 1))
}

// Projection returns an orthographic projection in screen pixels with y pointing down.
func Projection(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}
