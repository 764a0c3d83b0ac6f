package scene

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/jf2/internal/engine/camera"
	"github.com/Faultbox/jf2/internal/engine/mesh"
	"github.com/Faultbox/jf2/internal/engine/model"
	"github.com/Faultbox/jf2/internal/engine/renderer"
	"github.com/Faultbox/jf2/internal/engine/shader"
	"github.com/Faultbox/jf2/internal/engine/shader/shaders"
)

// SkyboxRenderer draws a cubemap around the camera.
type SkyboxRenderer struct {
	ctx     *renderer.Context
	program *shader.Program
	cube    *mesh.Mesh
	cubemap *renderer.Texture
}

// NewSkyboxRenderer uploads faces, given in texture.CubemapFaces order, as a cubemap.
func NewSkyboxRenderer(ctx *renderer.Context, faces []*image.RGBA) (*SkyboxRenderer, error) {
	cubemap, err := ctx.NewCubemap(faces)
	if err != nil {
		return nil, fmt.Errorf("skybox cubemap: %w", err)
	}

	program, err := shader.NewProgram("cubemap", shaders.CubemapVertexShader, shaders.CubemapFragmentShader)
	if err != nil {
		cubemap.Delete()
		return nil, fmt.Errorf("skybox shader: %w", err)
	}

	cube := mesh.New(ctx, program.ID())
	if err := cube.LoadMesh(model.Cube()); err != nil {
		program.Delete()
		cubemap.Delete()
		return nil, fmt.Errorf("skybox cube: %w", err)
	}

	program.SetInt("skybox", 0)
	return &SkyboxRenderer{ctx: ctx, program: program, cube: cube, cubemap: cubemap}, nil
}

// Render draws the skybox. The translation of view is discarded.
// It should be drawn after opaque geometry; it only fills pixels still at the far plane.
func (sr *SkyboxRenderer) Render(view, projection mgl32.Mat4) error {
	sr.program.SetMat4("view", camera.SkyboxView(view))
	sr.program.SetMat4("projection", projection)

	var err error
	// The camera sits inside the cube, so its faces are seen clockwise.
	sr.ctx.WithState(renderer.State{DepthFunc: renderer.DepthLEqual, FrontFace: renderer.WindingCW}, func() {
		defer sr.ctx.BindTexture(0, sr.cubemap)()
		err = sr.cube.Draw()
	})
	return err
}

// Destroy releases all resources.
func (sr *SkyboxRenderer) Destroy() {
	sr.cube.Destroy()
	sr.cubemap.Delete()
	sr.program.Delete()
}
