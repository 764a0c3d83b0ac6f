package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/engine/renderer"
	"github.com/Faultbox/jf2/internal/engine/shader"
	"github.com/Faultbox/jf2/internal/engine/shader/shaders"
	"github.com/Faultbox/jf2/internal/engine/text"
	"github.com/Faultbox/jf2/internal/logger"
)

// TextRenderer draws strings from a glyph atlas, one draw call per string.
type TextRenderer struct {
	ctx     *renderer.Context
	program *shader.Program
	atlas   *text.Atlas
	texture *renderer.Texture
	buffer  *renderer.StreamBuffer
}

// NewTextRenderer uploads atlas and prepares a renderer for a width×height viewport.
func NewTextRenderer(ctx *renderer.Context, atlas *text.Atlas, width, height int) (*TextRenderer, error) {
	program, err := shader.NewProgram("text", shaders.TextVertexShader, shaders.TextFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("text shader: %w", err)
	}

	tex, err := ctx.NewAlphaTexture(atlas.Image)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("glyph atlas: %w", err)
	}

	tr := &TextRenderer{
		ctx:     ctx,
		program: program,
		atlas:   atlas,
		texture: tex,
		buffer:  ctx.NewStreamBuffer(text.FloatsPerVertex),
	}
	program.SetInt("text", 0)
	tr.Resize(width, height)

	logger.Debug("text renderer created",
		zap.Int("glyphs", len(atlas.Glyphs)),
		zap.Int("missing", atlas.Missing),
		zap.Stringer("atlas", atlas.Image.Rect.Size()),
	)
	return tr, nil
}

// Resize updates the projection for a new viewport size. The origin is the bottom-left corner.
func (tr *TextRenderer) Resize(width, height int) {
	tr.program.SetMat4("projection", mgl32.Ortho(0, float32(width), 0, float32(height), -1, 1))
}

// Draw renders s with its baseline starting at (x, y) in pixels.
func (tr *TextRenderer) Draw(s string, x, y, scale float32, color mgl32.Vec3) error {
	run := tr.atlas.Layout(s, x, y, scale)
	if run.Glyphs() == 0 {
		return nil
	}

	tr.program.SetVec3("text_color", color)
	defer tr.ctx.BindTexture(0, tr.texture)()
	return tr.ctx.DrawStream(tr.program.ID(), tr.buffer, run.Vertices)
}

// LineHeight returns the atlas line height in pixels.
func (tr *TextRenderer) LineHeight() int { return tr.atlas.LineHeight }

// Destroy releases all resources.
func (tr *TextRenderer) Destroy() {
	tr.ctx.DeleteStream(tr.buffer)
	tr.texture.Delete()
	tr.program.Delete()
}
