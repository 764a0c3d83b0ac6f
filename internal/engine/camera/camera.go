// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Field of view limits in degrees.
const (
	MinFov     = 1.0
	MaxFov     = 45.0
	DefaultFov = 45.0
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a controllable view into the scene.
type Camera interface {
	// Position returns the eye position in world space.
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	// Projection returns a perspective projection using the camera's field of view.
	Projection(aspect, near, far float32) mgl32.Mat4
	// Move applies keyboard movement; each axis is in [-1, 1].
	Move(forward, right, up, dt float32)
	// Look applies a mouse movement in pixels.
	Look(dx, dy float32)
	// Zoom applies a scroll wheel delta.
	Zoom(delta float32)
}

// SkyboxView strips the translation from view so the skybox stays centered on the eye.
func SkyboxView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}

func perspective(fovDeg, aspect, near, far float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
}

// FPSCamera is a free-flying first person camera.
type FPSCamera struct {
	Pos   mgl32.Vec3
	Yaw   float32 // degrees
	Pitch float32 // degrees
	Fov   float32 // degrees

	Speed       float32 // units per second
	Sensitivity float32 // degrees per pixel

	front, right, up mgl32.Vec3

	// skipLook drops the next Look call. Set after the cursor is grabbed,
	// where the first delta is the jump from wherever the cursor was.
	skipLook bool
}

// NewFPSCamera creates a camera at pos looking down -Z.
func NewFPSCamera(pos mgl32.Vec3) *FPSCamera {
	c := &FPSCamera{
		Pos:         pos,
		Yaw:         -90,
		Fov:         DefaultFov,
		Speed:       2.5,
		Sensitivity: 0.1,
		skipLook:    true,
	}
	c.updateVectors()
	return c
}

// Position returns the camera position in world space.
func (c *FPSCamera) Position() mgl32.Vec3 { return c.Pos }

// Front returns the normalized view direction.
func (c *FPSCamera) Front() mgl32.Vec3 { return c.front }

// ViewMatrix returns the view matrix for this camera.
func (c *FPSCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Pos, c.Pos.Add(c.front), c.up)
}

// Projection returns the perspective projection for the current field of view.
func (c *FPSCamera) Projection(aspect, near, far float32) mgl32.Mat4 {
	return perspective(c.Fov, aspect, near, far)
}

// Move moves along the view direction, the right vector and world up.
func (c *FPSCamera) Move(forward, right, up, dt float32) {
	v := c.Speed * dt
	c.Pos = c.Pos.
		Add(c.front.Mul(forward * v)).
		Add(c.right.Mul(right * v)).
		Add(worldUp.Mul(up * v))
}

// Look turns the camera. Pitch is clamped so the view never flips.
func (c *FPSCamera) Look(dx, dy float32) {
	if c.skipLook {
		c.skipLook = false
		return
	}
	c.Yaw += dx * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch-dy*c.Sensitivity, -89, 89)
	c.updateVectors()
}

// ResetLook discards the next Look delta.
func (c *FPSCamera) ResetLook() { c.skipLook = true }

// Zoom narrows or widens the field of view, clamped to [MinFov, MaxFov].
func (c *FPSCamera) Zoom(delta float32) {
	c.Fov = mgl32.Clamp(c.Fov-delta, MinFov, MaxFov)
}

func (c *FPSCamera) updateVectors() {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)

	c.front = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians
	Yaw      float32 // radians
	Fov      float32 // degrees

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        8,
		Pitch:           0.4,
		Fov:             DefaultFov,
		MinDistance:     1,
		MaxDistance:     100,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return c.Center.Add(mgl32.Vec3{
		c.Distance * cp * math32.Sin(c.Yaw),
		c.Distance * math32.Sin(c.Pitch),
		c.Distance * cp * math32.Cos(c.Yaw),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, worldUp)
}

// Projection returns the perspective projection for the camera's field of view.
func (c *OrbitCamera) Projection(aspect, near, far float32) mgl32.Mat4 {
	return perspective(c.Fov, aspect, near, far)
}

// Look rotates around the center based on a mouse drag delta.
func (c *OrbitCamera) Look(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// Zoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// Move pans the center point on the XZ plane relative to the view direction.
func (c *OrbitCamera) Move(forward, right, up, dt float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * dt

	sin, cos := math32.Sincos(c.Yaw)
	dir := mgl32.Vec3{-sin, 0, -cos}
	side := mgl32.Vec3{cos, 0, -sin}

	c.Center = c.Center.
		Add(dir.Mul(forward * speed)).
		Add(side.Mul(right * speed)).
		Add(worldUp.Mul(up * speed))
}

// FitToBounds centers the camera on a bounding box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(min, max mgl32.Vec3) {
	c.Center = min.Add(max).Mul(0.5)
	radius := max.Sub(min).Len() * 0.5
	halfFov := mgl32.DegToRad(c.Fov) * 0.5
	c.Distance = mgl32.Clamp(radius/math32.Sin(halfFov), c.MinDistance, c.MaxDistance)
}
