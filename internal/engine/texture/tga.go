package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrTGA is returned for TGA files the decoder cannot handle.
var ErrTGA = errors.New("unsupported TGA")

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

const tgaHeaderSize = 18

// DecodeTGA decodes uncompressed or RLE compressed true-color and grayscale TGA images.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header truncated", ErrTGA)
	}

	idLength := int(data[0])
	if data[1] != 0 {
		return nil, fmt.Errorf("%w: color-mapped images", ErrTGA)
	}
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	gray := imageType == tgaGray || imageType == tgaGrayRLE
	rle := imageType == tgaTrueColorRLE || imageType == tgaGrayRLE
	switch {
	case imageType != tgaTrueColor && imageType != tgaTrueColorRLE && !gray:
		return nil, fmt.Errorf("%w: image type %d", ErrTGA, imageType)
	case gray && bpp != 8:
		return nil, fmt.Errorf("%w: %d-bit grayscale", ErrTGA, bpp)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: %d-bit color", ErrTGA, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: image id truncated", ErrTGA)
	}

	r := tgaReader{src: data[offset:], size: bpp / 8}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for i := 0; i < width*height; {
		var (
			count  = 1
			repeat = false
		)
		if rle {
			packet, ok := r.byte()
			if !ok {
				return nil, fmt.Errorf("%w: pixel data truncated", ErrTGA)
			}
			count = int(packet&0x7F) + 1
			repeat = packet&0x80 != 0
		}

		var c color.RGBA
		for k := 0; k < count && i < width*height; k++ {
			if k == 0 || !repeat {
				var ok bool
				if c, ok = r.pixel(); !ok {
					return nil, fmt.Errorf("%w: pixel data truncated", ErrTGA)
				}
			}
			x, y := i%width, i/width
			if !topToBottom {
				y = height - 1 - y
			}
			img.SetRGBA(x, y, c)
			i++
		}
	}

	return img, nil
}

// tgaReader reads BGR(A) or gray pixels from TGA pixel data.
type tgaReader struct {
	src  []byte
	pos  int
	size int
}

func (r *tgaReader) byte() (byte, bool) {
	if r.pos >= len(r.src) {
		return 0, false
	}
	b := r.src[r.pos]
	r.pos++
	return b, true
}

func (r *tgaReader) pixel() (color.RGBA, bool) {
	if r.pos+r.size > len(r.src) {
		return color.RGBA{}, false
	}
	p := r.src[r.pos : r.pos+r.size]
	r.pos += r.size

	switch r.size {
	case 1:
		return color.RGBA{R: p[0], G: p[0], B: p[0], A: 0xFF}, true
	case 3:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: 0xFF}, true
	default:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: p[3]}, true
	}
}
