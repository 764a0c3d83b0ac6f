package scene

import (
	"fmt"

	"github.com/Faultbox/jf2/internal/engine/mesh"
	"github.com/Faultbox/jf2/internal/engine/model"
	"github.com/Faultbox/jf2/internal/engine/renderer"
	"github.com/Faultbox/jf2/internal/engine/shader"
	"github.com/Faultbox/jf2/internal/engine/shader/shaders"
	"github.com/Faultbox/jf2/internal/engine/sprite"
)

// SpriteRenderer draws screen-space sprites as instanced unit quads.
type SpriteRenderer struct {
	ctx     *renderer.Context
	program *shader.Program
	quad    *mesh.Mesh
}

// NewSpriteRenderer creates a sprite renderer for a width×height viewport.
func NewSpriteRenderer(ctx *renderer.Context, width, height int) (*SpriteRenderer, error) {
	program, err := shader.NewProgram("sprite", shaders.SpriteVertexShader, shaders.SpriteFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sprite shader: %w", err)
	}

	quad := mesh.New(ctx, program.ID())
	if err := quad.LoadMesh(model.UnitQuad()); err != nil {
		program.Delete()
		return nil, fmt.Errorf("sprite quad: %w", err)
	}

	sr := &SpriteRenderer{ctx: ctx, program: program, quad: quad}
	program.SetInt("image_sampler", 0)
	sr.Resize(width, height)
	return sr, nil
}

// Resize updates the projection for a new viewport size.
func (sr *SpriteRenderer) Resize(width, height int) {
	sr.program.SetMat4("projection", sprite.Projection(width, height))
}

// Draw renders s with tex, once plus once per offset.
func (sr *SpriteRenderer) Draw(tex renderer.TextureBinder, s *sprite.Sprite) error {
	instances, err := s.Instances()
	if err != nil {
		return err
	}

	sr.program.SetMat4("model", s.Model())
	sr.program.SetVec3("sprite_color", s.Color)
	for i, off := range s.Offsets {
		sr.program.SetVec2(sprite.OffsetUniform(i), off)
	}

	defer sr.ctx.BindTexture(0, tex)()
	return sr.quad.Draw(mesh.Instances(instances))
}

// Destroy releases all resources.
func (sr *SpriteRenderer) Destroy() {
	sr.quad.Destroy()
	sr.program.Delete()
}
