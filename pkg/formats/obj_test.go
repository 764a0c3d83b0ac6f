package formats

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const quadOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestParseOBJ_Quad(t *testing.T) {
	obj, err := ParseOBJ([]byte(quadOBJ), Quads)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.Positions) != 4 {
		t.Errorf("expected 4 positions, got %d", len(obj.Positions))
	}
	if len(obj.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(obj.Faces))
	}

	face := obj.Faces[0]
	if face.Type != FaceV {
		t.Errorf("expected face type v, got %s", face.Type)
	}
	if len(face.Corners) != 4 {
		t.Errorf("expected 4 corners, got %d", len(face.Corners))
	}
	if face.Line != 5 {
		t.Errorf("expected face on line 5, got %d", face.Line)
	}
	for i, c := range face.Corners {
		if c.Position.Index != i+1 || !c.Position.Present {
			t.Errorf("corner %d: expected position %d, got %+v", i, i+1, c.Position)
		}
	}
}

func TestParseOBJ_Attributes(t *testing.T) {
	src := `# comment
o cube
v 1.5 -2 3
vn 0 1 0
vt 0.25 0.75
vt 0.5 0.5 0.0
usemtl none
s off

f 1/1/1 1/2/1 1/1/1
`
	obj, err := ParseOBJ([]byte(src), Triangles)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if obj.Positions[0] != [3]float32{1.5, -2, 3} {
		t.Errorf("unexpected position %v", obj.Positions[0])
	}
	if obj.Normals[0] != [3]float32{0, 1, 0} {
		t.Errorf("unexpected normal %v", obj.Normals[0])
	}
	if len(obj.TexCoords) != 2 {
		t.Fatalf("expected 2 texcoords, got %d", len(obj.TexCoords))
	}
	if obj.TexCoords[1] != [2]float32{0.5, 0.5} {
		t.Errorf("unexpected texcoord %v", obj.TexCoords[1])
	}
	if obj.Skipped != 3 {
		t.Errorf("expected 3 skipped directives, got %d", obj.Skipped)
	}
	if obj.Faces[0].Type != FaceVVTVN {
		t.Errorf("expected v/vt/vn face, got %s", obj.Faces[0].Type)
	}
}

func TestParseOBJ_FaceTypes(t *testing.T) {
	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nvn 0 0 1\nvn 0 0 1\nvn 0 0 1\nvn 0 0 1\nvt 0 0\nvt 1 0\nvt 0 1\n"

	tests := []struct {
		name     string
		face     string
		expected FaceType
	}{
		{"position only", "f 1 2 3", FaceV},
		{"position and normal", "f 1//3 2//4 3//5", FaceVVN},
		{"position texcoord normal", "f 1/1/3 2/2/4 3/3/5", FaceVVTVN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ([]byte(header+tt.face+"\n"), Triangles)
			if err != nil {
				t.Fatalf("ParseOBJ failed: %v", err)
			}
			if got := obj.Faces[0].Type; got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParseOBJ_AbsentIsNotZero(t *testing.T) {
	obj, err := ParseOBJ([]byte("f 1//3 2//4 3//5\n"), Triangles)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	c := obj.Faces[0].Corners[0]
	if c.TexCoord.Present {
		t.Errorf("expected absent texcoord, got %+v", c.TexCoord)
	}
	if !c.Normal.Present || c.Normal.Index != 3 {
		t.Errorf("expected normal 3, got %+v", c.Normal)
	}
}

func TestParseOBJ_MalformedFaces(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"mixed shapes", "f 1//3 2/2/4 3//5", ErrMalformedFace},
		{"texcoord without normal", "f 1/1 2/2 3/3", ErrMalformedFace},
		{"missing position", "f /1/1 2/2/2 3/3/3", ErrMalformedFace},
		{"too many fields", "f 1/1/1/1 2/2/2 3/3/3", ErrMalformedFace},
		{"zero index", "f 0 1 2", ErrMalformedFace},
		{"negative index", "f -1 -2 -3", ErrMalformedFace},
		{"not a number", "f a b c", ErrMalformedFace},
		{"quad in triangle mode", "f 1 2 3 4", ErrFaceArity},
		{"empty face", "f", ErrFaceArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ([]byte(tt.src+"\n"), Triangles)
			if err == nil {
				t.Fatalf("expected error, got %d faces", len(obj.Faces))
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("expected line number in error, got %v", err)
			}
		})
	}
}

func TestParseOBJ_TriangleInQuadMode(t *testing.T) {
	_, err := ParseOBJ([]byte("f 1 2 3\n"), Quads)
	if !errors.Is(err, ErrFaceArity) {
		t.Errorf("expected ErrFaceArity, got %v", err)
	}
}

func TestParseOBJ_TrailingComments(t *testing.T) {
	src := `# exported by hand
v 0 0 0 # origin
v 1 0 0#x
vt 0.5 0.5 # center
vn 0 0 1
v 0 1 0
f 1/1/1 2/1/1 3/1/1 # tri
   # indented comment
`
	obj, err := ParseOBJ([]byte(src), Triangles)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(obj.Positions))
	}
	if obj.Positions[1] != [3]float32{1, 0, 0} {
		t.Errorf("position 2: got %v", obj.Positions[1])
	}
	if len(obj.TexCoords) != 1 {
		t.Errorf("expected 1 texcoord, got %d", len(obj.TexCoords))
	}
	if len(obj.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(obj.Faces))
	}
	if obj.Faces[0].Type != FaceVVTVN {
		t.Errorf("expected v/vt/vn face, got %v", obj.Faces[0].Type)
	}
	if obj.Faces[0].Line != 7 {
		t.Errorf("expected face on line 7, got %d", obj.Faces[0].Line)
	}
	if obj.Skipped != 0 {
		t.Errorf("expected no skipped lines, got %d", obj.Skipped)
	}
}

func TestParseOBJ_InvalidNumbers(t *testing.T) {
	tests := []string{
		"v 1 2",
		"vn 0 x 0",
		"vt 0.5",
	}

	for _, src := range tests {
		_, err := ParseOBJ([]byte(src+"\n"), Triangles)
		if !errors.Is(err, ErrInvalidOBJNumber) {
			t.Errorf("%q: expected ErrInvalidOBJNumber, got %v", src, err)
		}
	}
}

func TestParseOBJ_InvalidMode(t *testing.T) {
	_, err := ParseOBJ([]byte(quadOBJ), FaceMode(5))
	if !errors.Is(err, ErrInvalidFaceMode) {
		t.Errorf("expected ErrInvalidFaceMode, got %v", err)
	}
}

func TestParseOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0644); err != nil {
		t.Fatalf("failed to write test model: %v", err)
	}

	obj, err := ParseOBJFile(path, Quads)
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if counts := obj.CountByType(); counts[FaceV] != 1 {
		t.Errorf("expected 1 position-only face, got %v", counts)
	}
}

func TestParseOBJFile_Missing(t *testing.T) {
	_, err := ParseOBJFile(filepath.Join(t.TempDir(), "missing.obj"), Triangles)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestFaceModeString(t *testing.T) {
	if Triangles.String() != "triangles" || Quads.String() != "quads" {
		t.Errorf("unexpected names: %s, %s", Triangles, Quads)
	}
	if FaceMode(7).String() != "FaceMode(7)" {
		t.Errorf("unexpected name for unknown mode: %s", FaceMode(7))
	}
}
