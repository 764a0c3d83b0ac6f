// Package text renders strings from a rasterized glyph atlas.
package text

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"
)

// Atlas errors.
var (
	ErrGlyphCount    = errors.New("glyph count must be in [1, 256]")
	ErrGlyphTooLarge = errors.New("glyph wider than atlas")
)

// Atlas layout.
const (
	AtlasWidth   = 512
	glyphPadding = 1
)

// FloatsPerVertex is the number of floats per laid out vertex: x, y, u, v.
const FloatsPerVertex = 4

// codePage maps atlas slots to runes. Slot i holds the glyph for byte i.
var codePage = charmap.Windows1252

// Glyph holds the metrics of one rasterized glyph, in pixels.
type Glyph struct {
	Rune rune
	// Size of the glyph bitmap. Zero for glyphs with no ink, such as space.
	Size image.Point
	// Bearing is the offset from the pen position to the bitmap's top-left corner, y up.
	Bearing image.Point
	// Advance is the horizontal distance to the next pen position.
	Advance int
	// UV is the bitmap rectangle in the atlas as {u0, v0, u1, v1}, v0 being the top row.
	UV [4]float32
}

// Atlas is a single-channel image holding every glyph of a font at one size.
type Atlas struct {
	Image      *image.Alpha
	Glyphs     []Glyph
	LineHeight int
	// Missing counts slots the face had no glyph for.
	Missing int
}

// LoadFace parses TrueType or OpenType data and returns a face at the given pixel size.
func LoadFace(data []byte, pixelSize float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    pixelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	return face, nil
}

// BuildAtlas rasterizes the first count code page slots of face into one atlas.
func BuildAtlas(face font.Face, count int) (*Atlas, error) {
	if count < 1 || count > 256 {
		return nil, fmt.Errorf("%w: %d", ErrGlyphCount, count)
	}

	a := &Atlas{
		Glyphs:     make([]Glyph, count),
		LineHeight: face.Metrics().Height.Ceil(),
	}

	masks := make([]*image.Alpha, count)
	for i := range a.Glyphs {
		r := codePage.DecodeByte(byte(i))
		g := Glyph{Rune: r}

		dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			a.Missing++
			a.Glyphs[i] = g
			continue
		}
		g.Advance = advance.Floor()

		if !dr.Empty() {
			// The face reuses its mask buffer, so copy it out before the next call.
			m := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
			draw.Draw(m, m.Bounds(), mask, maskp, draw.Src)
			masks[i] = m
			g.Size = dr.Size()
			g.Bearing = image.Pt(dr.Min.X, -dr.Min.Y)
		}
		a.Glyphs[i] = g
	}

	rects, height, err := pack(masks)
	if err != nil {
		return nil, err
	}

	a.Image = image.NewAlpha(image.Rect(0, 0, AtlasWidth, height))
	for i, m := range masks {
		if m == nil {
			continue
		}
		r := rects[i]
		draw.Draw(a.Image, r, m, image.Point{}, draw.Src)
		a.Glyphs[i].UV = [4]float32{
			float32(r.Min.X) / AtlasWidth,
			float32(r.Min.Y) / float32(height),
			float32(r.Max.X) / AtlasWidth,
			float32(r.Max.Y) / float32(height),
		}
	}

	return a, nil
}

// pack places bitmaps left to right in rows and returns their rectangles and the
// atlas height, rounded up to a power of two.
func pack(masks []*image.Alpha) ([]image.Rectangle, int, error) {
	rects := make([]image.Rectangle, len(masks))
	x, y, rowHeight := glyphPadding, glyphPadding, 0

	for i, m := range masks {
		if m == nil {
			continue
		}
		w, h := m.Rect.Dx(), m.Rect.Dy()
		if w+2*glyphPadding > AtlasWidth {
			return nil, 0, fmt.Errorf("%w: slot %d is %dpx", ErrGlyphTooLarge, i, w)
		}
		if x+w+glyphPadding > AtlasWidth {
			x = glyphPadding
			y += rowHeight + glyphPadding
			rowHeight = 0
		}
		rects[i] = image.Rect(x, y, x+w, y+h)
		x += w + glyphPadding
		if h > rowHeight {
			rowHeight = h
		}
	}

	height := 1
	for height < y+rowHeight+glyphPadding {
		height <<= 1
	}
	return rects, height, nil
}

// Run is the laid out geometry of one string.
type Run struct {
	// Vertices holds 6 vertices per visible glyph, each as x, y, u, v.
	Vertices []float32
	// Width is the total pen advance.
	Width float32
	// Skipped counts runes with no slot in the atlas.
	Skipped int
}

// Glyphs returns the number of quads in the run.
func (r Run) Glyphs() int {
	return len(r.Vertices) / (6 * FloatsPerVertex)
}

// Layout places s with its baseline starting at (x, y), y pointing up.
func (a *Atlas) Layout(s string, x, y, scale float32) Run {
	var run Run
	start := x

	for _, r := range s {
		b, ok := codePage.EncodeRune(r)
		if !ok || int(b) >= len(a.Glyphs) {
			run.Skipped++
			continue
		}
		g := a.Glyphs[b]

		if g.Size.X > 0 && g.Size.Y > 0 {
			xpos := x + float32(g.Bearing.X)*scale
			ypos := y - float32(g.Size.Y-g.Bearing.Y)*scale
			w := float32(g.Size.X) * scale
			h := float32(g.Size.Y) * scale
			u0, v0, u1, v1 := g.UV[0], g.UV[1], g.UV[2], g.UV[3]

			run.Vertices = append(run.Vertices,
				xpos, ypos+h, u0, v0,
				xpos, ypos, u0, v1,
				xpos+w, ypos, u1, v1,

				xpos, ypos+h, u0, v0,
				xpos+w, ypos, u1, v1,
				xpos+w, ypos+h, u1, v0,
			)
		}
		x += float32(g.Advance) * scale
	}

	run.Width = x - start
	return run
}
