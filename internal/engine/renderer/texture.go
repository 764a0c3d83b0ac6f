package renderer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/engine/texture"
	"github.com/Faultbox/jf2/internal/logger"
)

// Texture errors.
var (
	ErrCubemapFaces = errors.New("cubemap needs six faces")
	ErrEmptyImage   = errors.New("texture image has no pixels")
)

// Texture is an uploaded GL texture.
type Texture struct {
	id     uint32
	target uint32
	width  int
	height int
}

// TextureOptions controls 2D texture sampling.
type TextureOptions struct {
	Mipmaps bool
	// Clamp uses CLAMP_TO_EDGE instead of REPEAT.
	Clamp bool
	// Nearest uses nearest-neighbour filtering.
	Nearest bool
}

// DefaultTextureOptions returns repeating, mipmapped, linearly filtered sampling.
func DefaultTextureOptions() TextureOptions {
	return TextureOptions{Mipmaps: true}
}

// NewTexture2D uploads img as a 2D texture.
func (c *Context) NewTexture2D(img *image.RGBA, opts TextureOptions) (*Texture, error) {
	if img.Rect.Empty() {
		return nil, ErrEmptyImage
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	t := &Texture{target: gl.TEXTURE_2D, width: w, height: h}
	gl.GenTextures(1, &t.id)
	c.withUpload(gl.TEXTURE_2D, t.id, func() {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

		wrap := int32(gl.REPEAT)
		if opts.Clamp {
			wrap = gl.CLAMP_TO_EDGE
		}
		minFilter, magFilter := int32(gl.LINEAR), int32(gl.LINEAR)
		if opts.Nearest {
			minFilter, magFilter = gl.NEAREST, gl.NEAREST
		}
		if opts.Mipmaps {
			gl.GenerateMipmap(gl.TEXTURE_2D)
			minFilter = gl.LINEAR_MIPMAP_LINEAR
			if opts.Nearest {
				minFilter = gl.NEAREST_MIPMAP_NEAREST
			}
		}
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	})

	return t, nil
}

// LoadTexture2D decodes data and uploads it, flipped so V=0 is the bottom row.
func (c *Context) LoadTexture2D(data []byte, name string, opts TextureOptions) (*Texture, error) {
	img, err := texture.Decode(data, name)
	if err != nil {
		return nil, err
	}
	texture.FlipVertical(img)
	t, err := c.NewTexture2D(img, opts)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", name, err)
	}
	logger.Debug("texture loaded", zap.String("name", name), zap.Int("width", t.width), zap.Int("height", t.height))
	return t, nil
}

// NewCubemap uploads six faces in texture.CubemapFaces order.
// Faces that differ in size from the first are rescaled to match it.
func (c *Context) NewCubemap(faces []*image.RGBA) (*Texture, error) {
	if len(faces) != 6 {
		return nil, fmt.Errorf("%w: got %d", ErrCubemapFaces, len(faces))
	}
	size := faces[0].Rect.Size()
	if size.X == 0 || size.Y == 0 {
		return nil, ErrEmptyImage
	}

	t := &Texture{target: gl.TEXTURE_CUBE_MAP, width: size.X, height: size.Y}
	gl.GenTextures(1, &t.id)
	c.withUpload(gl.TEXTURE_CUBE_MAP, t.id, func() {
		for i, face := range faces {
			if face.Rect.Size() != size {
				logger.Warn("cubemap face size mismatch, rescaling",
					zap.String("face", texture.CubemapFaces[i]),
					zap.Stringer("size", face.Rect.Size()),
					zap.Stringer("want", size),
				)
				face = texture.Resize(face, size.X, size.Y)
			}
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA, int32(size.X), int32(size.Y), 0,
				gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&face.Pix[0]))
		}

		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	})

	return t, nil
}

// NewAlphaTexture uploads a single-channel image into the RED channel of a 2D texture.
func (c *Context) NewAlphaTexture(img *image.Alpha) (*Texture, error) {
	if img.Rect.Empty() {
		return nil, ErrEmptyImage
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	t := &Texture{target: gl.TEXTURE_2D, width: w, height: h}
	gl.GenTextures(1, &t.id)
	c.withUpload(gl.TEXTURE_2D, t.id, func() {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	})

	return t, nil
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 { return t.id }

// Target returns the GL binding target.
func (t *Texture) Target() uint32 { return t.target }

// Size returns the texture dimensions in texels.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// Delete releases the texture.
func (t *Texture) Delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
