// Package scene draws the world: lit meshes, a skybox, sprites and text.
package scene

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/engine/camera"
	"github.com/Faultbox/jf2/internal/engine/lighting"
	"github.com/Faultbox/jf2/internal/engine/mesh"
	"github.com/Faultbox/jf2/internal/engine/renderer"
	"github.com/Faultbox/jf2/internal/engine/shader"
	"github.com/Faultbox/jf2/internal/logger"
)

// ErrDuplicateObject is returned when an object name is already in the scene.
var ErrDuplicateObject = errors.New("object already in scene")

// Object is a mesh placed in the world.
type Object struct {
	Name    string
	Mesh    *mesh.Mesh
	Texture renderer.TextureBinder // nil draws with a plain white texture
	Model   mgl32.Mat4
	// Instances drawn in one call. Extra instances are shifted along X by the
	// scene's instance offsets. Zero means 1.
	Instances int
	Hidden    bool
}

// Config contains scene configuration options.
type Config struct {
	Near float32
	Far  float32
	// InstanceOffsets are the X shifts of instances 1 and 2.
	InstanceOffsets [2]float32
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Near:            0.1,
		Far:             100,
		InstanceOffsets: [2]float32{-3, 3},
	}
}

// Scene holds the meshes drawn with the lit mesh program, plus an optional skybox.
type Scene struct {
	ctx     *renderer.Context
	config  Config
	program *shader.Program

	Light lighting.PointLight

	objects  []*Object
	skybox   *SkyboxRenderer
	fallback *renderer.Texture

	drawErrs logger.Once
}

// New creates a scene that draws objects with program.
func New(ctx *renderer.Context, program *shader.Program, cfg Config) (*Scene, error) {
	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(white.Pix, []uint8{255, 255, 255, 255})
	fallback, err := ctx.NewTexture2D(white, renderer.TextureOptions{Nearest: true})
	if err != nil {
		return nil, fmt.Errorf("creating fallback texture: %w", err)
	}

	s := &Scene{
		ctx:      ctx,
		config:   cfg,
		fallback: fallback,
		Light:    lighting.NewPointLight(mgl32.Vec3{0, 2, 4}),
	}

	s.SetProgram(program)
	return s, nil
}

// Program returns the program objects are drawn with.
func (s *Scene) Program() *shader.Program { return s.program }

// SetProgram switches the program objects are drawn with. The program must
// accept the same uniforms as the lit mesh program; inactive ones are ignored.
func (s *Scene) SetProgram(program *shader.Program) {
	s.program = program
	program.SetInt("u_texture", 0)
	program.SetFloat("xoffset[0]", s.config.InstanceOffsets[0])
	program.SetFloat("xoffset[1]", s.config.InstanceOffsets[1])
}

// Add places obj in the scene.
func (s *Scene) Add(obj *Object) error {
	if s.Object(obj.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateObject, obj.Name)
	}
	s.objects = append(s.objects, obj)
	return nil
}

// Object returns the object called name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Objects returns the scene's objects in draw order.
func (s *Scene) Objects() []*Object { return s.objects }

// SetSkybox sets the skybox drawn after the objects. The scene takes ownership.
func (s *Scene) SetSkybox(sb *SkyboxRenderer) {
	if s.skybox != nil {
		s.skybox.Destroy()
	}
	s.skybox = sb
}

// Render draws every visible object and then the skybox from cam's point of view.
// Draw failures are logged once and the rest of the scene is still drawn.
func (s *Scene) Render(cam camera.Camera) {
	w, h := s.ctx.Viewport()
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	view := cam.ViewMatrix()
	projection := cam.Projection(aspect, s.config.Near, s.config.Far)

	s.program.SetMat4("u_view", view)
	s.program.SetMat4("u_projection", projection)
	s.program.SetVec3("u_view_pos", cam.Position())
	s.program.SetVec3("u_light_pos", s.Light.Position)
	s.program.SetVec3("u_light_color", s.Light.Color)

	for _, o := range s.objects {
		if o.Hidden || o.Mesh == nil || !o.Mesh.Loaded() {
			continue
		}
		s.drawErrs.Error("mesh draw failed", s.draw(o), zap.String("object", o.Name))
	}

	if s.skybox != nil {
		s.drawErrs.Error("skybox draw failed", s.skybox.Render(view, projection))
	}
}

func (s *Scene) draw(o *Object) error {
	var tex renderer.TextureBinder = s.fallback
	if o.Texture != nil {
		tex = o.Texture
	}
	instances := o.Instances
	if instances == 0 {
		instances = 1
	}

	s.program.SetMat4("u_model", o.Model)
	defer s.ctx.BindTexture(0, tex)()
	return o.Mesh.Draw(mesh.WithProgram(s.program.ID()), mesh.Instances(instances))
}

// Destroy releases the skybox, the fallback texture and every object's mesh.
// Object textures and the program belong to the caller.
func (s *Scene) Destroy() {
	for _, o := range s.objects {
		if o.Mesh != nil {
			o.Mesh.Destroy()
		}
	}
	s.objects = nil
	if s.skybox != nil {
		s.skybox.Destroy()
		s.skybox = nil
	}
	s.fallback.Delete()
}
