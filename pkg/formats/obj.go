// Package formats provides parsers for the asset file formats loaded by the engine.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedFace    = errors.New("malformed OBJ face")
	ErrFaceArity        = errors.New("OBJ face corner count does not match face mode")
	ErrInvalidOBJNumber = errors.New("invalid OBJ number")
	ErrInvalidFaceMode  = errors.New("invalid OBJ face mode")
)

// FaceMode is the number of corners every face of a model is expected to have.
type FaceMode int

// Supported face modes.
const (
	Triangles FaceMode = 3
	Quads     FaceMode = 4
)

// String returns the face mode name.
func (m FaceMode) String() string {
	switch m {
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	default:
		return fmt.Sprintf("FaceMode(%d)", int(m))
	}
}

// FaceType describes which attributes the corners of a face reference.
type FaceType int

// Face types.
const (
	FaceUndefined FaceType = iota
	FaceV                  // f 1 2 3
	FaceVVN                // f 1//1 2//2 3//3
	FaceVVTVN              // f 1/1/1 2/2/2 3/3/3
)

// String returns a human-readable face type name.
func (t FaceType) String() string {
	switch t {
	case FaceV:
		return "v"
	case FaceVVN:
		return "v//vn"
	case FaceVVTVN:
		return "v/vt/vn"
	default:
		return "undefined"
	}
}

// HasNormals reports whether faces of this type reference normals.
func (t FaceType) HasNormals() bool {
	return t == FaceVVN || t == FaceVVTVN
}

// HasTexCoords reports whether faces of this type reference texture coordinates.
func (t FaceType) HasTexCoords() bool {
	return t == FaceVVTVN
}

// OBJRef is a 1-based reference into one of the OBJ attribute lists.
// Present is false when the corner token left the field empty.
type OBJRef struct {
	Index   int
	Present bool
}

// OBJCorner is one corner of a face.
type OBJCorner struct {
	Position OBJRef
	TexCoord OBJRef
	Normal   OBJRef
}

// OBJFace is a single face record.
type OBJFace struct {
	Type    FaceType
	Corners []OBJCorner
	Line    int
}

// OBJ represents a parsed Wavefront OBJ model.
// Attribute lists keep file order; faces reference them 1-based.
type OBJ struct {
	Mode      FaceMode
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Faces     []OBJFace

	// Skipped counts directive lines that were ignored.
	Skipped int
}

// ParseOBJ parses an OBJ model from raw bytes.
// Every face must have exactly mode corners and a well-defined FaceType.
func ParseOBJ(data []byte, mode FaceMode) (*OBJ, error) {
	if mode != Triangles && mode != Quads {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFaceMode, int(mode))
	}

	obj := &OBJ{Mode: mode}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text, _, _ := strings.Cut(scanner.Text(), "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: v: %w", line, err)
			}
			obj.Positions = append(obj.Positions, [3]float32{v[0], v[1], v[2]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vn: %w", line, err)
			}
			obj.Normals = append(obj.Normals, [3]float32{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: vt: %w", line, err)
			}
			obj.TexCoords = append(obj.TexCoords, [2]float32{v[0], v[1]})
		case "f":
			face, err := parseFace(fields[1:], mode)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			face.Line = line
			obj.Faces = append(obj.Faces, face)
		default:
			obj.Skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return obj, nil
}

// ParseOBJFile parses an OBJ model from disk.
func ParseOBJFile(path string, mode FaceMode) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data, mode)
}

// parseFloats parses the first n fields. Trailing fields (such as an optional w) are ignored.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: expected %d components, got %d", ErrInvalidOBJNumber, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOBJNumber, fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseFace(tokens []string, mode FaceMode) (OBJFace, error) {
	if len(tokens) != int(mode) {
		return OBJFace{}, fmt.Errorf("%w: got %d corners, want %d", ErrFaceArity, len(tokens), int(mode))
	}

	face := OBJFace{Corners: make([]OBJCorner, len(tokens))}
	for i, tok := range tokens {
		c, err := parseCorner(tok)
		if err != nil {
			return OBJFace{}, err
		}
		face.Corners[i] = c
	}

	face.Type = classifyFace(face.Corners)
	if face.Type == FaceUndefined {
		return OBJFace{}, fmt.Errorf("%w: %s", ErrMalformedFace, strings.Join(tokens, " "))
	}
	return face, nil
}

// parseCorner splits a "v", "v//vn", "v/vt/vn" or "v/vt" token.
func parseCorner(tok string) (OBJCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return OBJCorner{}, fmt.Errorf("%w: too many fields in %q", ErrMalformedFace, tok)
	}

	var refs [3]OBJRef
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return OBJCorner{}, fmt.Errorf("%w: bad index %q in %q", ErrMalformedFace, p, tok)
		}
		refs[i] = OBJRef{Index: n, Present: true}
	}

	if !refs[0].Present {
		return OBJCorner{}, fmt.Errorf("%w: missing position in %q", ErrMalformedFace, tok)
	}
	return OBJCorner{Position: refs[0], TexCoord: refs[1], Normal: refs[2]}, nil
}

// classifyFace returns the shared type of all corners, or FaceUndefined if they disagree.
func classifyFace(corners []OBJCorner) FaceType {
	if len(corners) == 0 {
		return FaceUndefined
	}
	t := classifyCorner(corners[0])
	for _, c := range corners[1:] {
		if classifyCorner(c) != t {
			return FaceUndefined
		}
	}
	return t
}

func classifyCorner(c OBJCorner) FaceType {
	switch {
	case !c.TexCoord.Present && !c.Normal.Present:
		return FaceV
	case !c.TexCoord.Present && c.Normal.Present:
		return FaceVVN
	case c.TexCoord.Present && c.Normal.Present:
		return FaceVVTVN
	default:
		return FaceUndefined
	}
}

// CountByType returns the number of faces of each type.
func (o *OBJ) CountByType() map[FaceType]int {
	counts := make(map[FaceType]int)
	for _, f := range o.Faces {
		counts[f.Type]++
	}
	return counts
}
