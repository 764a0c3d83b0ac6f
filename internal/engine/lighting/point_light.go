// Package lighting describes the scene's light source and its motion.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PointLight is a single point light uploaded to the mesh shader.
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// NewPointLight returns a white light at pos.
func NewPointLight(pos mgl32.Vec3) PointLight {
	return PointLight{Position: pos, Color: mgl32.Vec3{1, 1, 1}}
}

// Orbit moves a light in a horizontal circle around Center.
type Orbit struct {
	Center mgl32.Vec3
	Radius float32
	Speed  float32 // radians per second
}

// At returns the position on the orbit t seconds after start.
// At t=0 the light sits on +Z of Center.
func (o Orbit) At(t float32) mgl32.Vec3 {
	sin, cos := math32.Sincos(t * o.Speed)
	return o.Center.Add(mgl32.Vec3{o.Radius * sin, 0, o.Radius * cos})
}

// Apply moves l onto the orbit at time t.
func (o Orbit) Apply(l *PointLight, t float32) {
	l.Position = o.At(t)
}
