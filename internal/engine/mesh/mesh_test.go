package mesh

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/jf2/internal/engine/model"
	"github.com/Faultbox/jf2/pkg/formats"
)

type drawCall struct {
	program    uint32
	handle     Handle
	indexCount int32
	instances  int32
}

// fakeDevice records uploads and draws instead of talking to a GPU.
type fakeDevice struct {
	next      Handle
	live      map[Handle]int
	uploads   int
	deletes   []Handle
	draws     []drawCall
	createErr error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{live: make(map[Handle]int)}
}

func (d *fakeDevice) CreateMesh(vertices []model.Vertex, indices []uint32) (Handle, error) {
	if d.createErr != nil {
		return 0, d.createErr
	}
	d.uploads++
	d.next++
	d.live[d.next] = len(indices)
	return d.next, nil
}

func (d *fakeDevice) DeleteMesh(h Handle) {
	delete(d.live, h)
	d.deletes = append(d.deletes, h)
}

func (d *fakeDevice) DrawInstanced(program uint32, h Handle, indexCount, instances int32) error {
	if _, ok := d.live[h]; !ok {
		return errors.New("draw of deleted handle")
	}
	d.draws = append(d.draws, drawCall{program, h, indexCount, instances})
	return nil
}

func writeOBJ(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const (
	quadSrc     = "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"
	triangleSrc = "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"
	mixedSrc    = "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nvt 0 0\nf 1//1 2/1/1 3//1\n"
)

func TestLoad_Quad(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 7)

	if err := m.Load(writeOBJ(t, "quad.obj", quadSrc), formats.Quads); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !m.Loaded() {
		t.Error("expected mesh to be loaded")
	}
	if m.VertexCount() != 4 || m.IndexCount() != 6 {
		t.Errorf("expected 4 vertices and 6 indices, got %d and %d", m.VertexCount(), m.IndexCount())
	}
	if dev.uploads != 1 {
		t.Errorf("expected 1 upload, got %d", dev.uploads)
	}
	if filepath.Base(m.Source()) != "quad.obj" {
		t.Errorf("unexpected source %q", m.Source())
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		mode formats.FaceMode
		err  error
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.obj") },
			mode: formats.Triangles,
			err:  fs.ErrNotExist,
		},
		{
			name: "mixed face shapes",
			path: func(t *testing.T) string { return writeOBJ(t, "mixed.obj", mixedSrc) },
			mode: formats.Triangles,
			err:  formats.ErrMalformedFace,
		},
		{
			name: "wrong arity",
			path: func(t *testing.T) string { return writeOBJ(t, "quad.obj", quadSrc) },
			mode: formats.Triangles,
			err:  formats.ErrFaceArity,
		},
		{
			name: "dangling index",
			path: func(t *testing.T) string { return writeOBJ(t, "bad.obj", "v 0 0 0\nf 1 2 3\n") },
			mode: formats.Triangles,
			err:  model.ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			m := New(dev, 1)

			err := m.Load(tt.path(t), tt.mode)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
			if m.Loaded() {
				t.Error("expected mesh to stay unloaded")
			}
			if dev.uploads != 0 {
				t.Errorf("expected no uploads, got %d", dev.uploads)
			}
		})
	}
}

func TestLoad_UploadError(t *testing.T) {
	dev := newFakeDevice()
	dev.createErr = errors.New("out of memory")
	m := New(dev, 1)

	err := m.Load(writeOBJ(t, "tri.obj", triangleSrc), formats.Triangles)
	if !errors.Is(err, dev.createErr) {
		t.Errorf("expected upload error, got %v", err)
	}
	if m.Loaded() {
		t.Error("expected mesh to stay unloaded")
	}
}

func TestDraw_BeforeLoad(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 1)

	if err := m.Draw(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if len(dev.draws) != 0 {
		t.Errorf("expected no draw calls, got %d", len(dev.draws))
	}
}

func TestDraw_Options(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 3)
	if err := m.Load(writeOBJ(t, "tri.obj", triangleSrc), formats.Triangles); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name     string
		opts     []DrawOption
		expected drawCall
	}{
		{"defaults", nil, drawCall{3, 1, 3, 1}},
		{"instanced", []DrawOption{Instances(3)}, drawCall{3, 1, 3, 3}},
		{"program override", []DrawOption{WithProgram(9)}, drawCall{9, 1, 3, 1}},
		{"both", []DrawOption{WithProgram(9), Instances(2)}, drawCall{9, 1, 3, 2}},
		{"zero program keeps own", []DrawOption{WithProgram(0)}, drawCall{3, 1, 3, 1}},
		{"zero program after override", []DrawOption{WithProgram(9), WithProgram(0)}, drawCall{9, 1, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev.draws = nil
			if err := m.Draw(tt.opts...); err != nil {
				t.Fatalf("Draw failed: %v", err)
			}
			if len(dev.draws) != 1 {
				t.Fatalf("expected exactly 1 draw call, got %d", len(dev.draws))
			}
			if dev.draws[0] != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, dev.draws[0])
			}
		})
	}
}

func TestDraw_InvalidInstances(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 1)
	if err := m.Load(writeOBJ(t, "tri.obj", triangleSrc), formats.Triangles); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, n := range []int{0, -1} {
		if err := m.Draw(Instances(n)); !errors.Is(err, ErrInvalidInstances) {
			t.Errorf("instances %d: expected ErrInvalidInstances, got %v", n, err)
		}
	}
	if len(dev.draws) != 0 {
		t.Errorf("expected no draw calls, got %d", len(dev.draws))
	}
}

func TestDraw_NoProgram(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 0)
	if err := m.Load(writeOBJ(t, "tri.obj", triangleSrc), formats.Triangles); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := m.Draw(); !errors.Is(err, ErrNoProgram) {
		t.Errorf("expected ErrNoProgram, got %v", err)
	}
	if err := m.Draw(WithProgram(0)); !errors.Is(err, ErrNoProgram) {
		t.Errorf("expected ErrNoProgram with zero override, got %v", err)
	}
	if err := m.Draw(WithProgram(4)); err != nil {
		t.Errorf("expected override to succeed, got %v", err)
	}
}

func TestLoad_NoFaces(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty file", ""},
		{"positions only", "v 0 0 0\nv 1 0 0\n"},
		{"comments only", "# nothing here\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			m := New(dev, 1)

			if err := m.Load(writeOBJ(t, "empty.obj", tt.src), formats.Triangles); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !m.Loaded() {
				t.Error("expected mesh to be loaded")
			}
			if m.IndexCount() != 0 || m.VertexCount() != 0 {
				t.Errorf("expected empty geometry, got %d indices and %d vertices", m.IndexCount(), m.VertexCount())
			}
			if dev.uploads != 0 {
				t.Errorf("expected no uploads, got %d", dev.uploads)
			}
			if err := m.Draw(Instances(4)); err != nil {
				t.Errorf("expected empty draw to succeed, got %v", err)
			}
			if len(dev.draws) != 0 {
				t.Errorf("expected no draw calls, got %d", len(dev.draws))
			}

			m.Destroy()
			if len(dev.deletes) != 0 {
				t.Errorf("expected no releases, got %v", dev.deletes)
			}
		})
	}
}

func TestReload_EmptyReleasesPrevious(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 1)

	if err := m.Load(writeOBJ(t, "quad.obj", quadSrc), formats.Quads); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first := m.handle

	if err := m.Load(writeOBJ(t, "empty.obj", "v 0 0 0\n"), formats.Quads); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(dev.deletes) != 1 || dev.deletes[0] != first {
		t.Errorf("expected old handle %d to be released, got %v", first, dev.deletes)
	}
	if len(dev.live) != 0 {
		t.Errorf("expected no live buffers, got %d", len(dev.live))
	}
	if err := m.Draw(); err != nil {
		t.Errorf("expected empty draw to succeed, got %v", err)
	}

	if err := m.Load(writeOBJ(t, "tri.obj", triangleSrc), formats.Triangles); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(dev.deletes) != 1 {
		t.Errorf("expected no further releases, got %v", dev.deletes)
	}
	if err := m.Draw(); err != nil || len(dev.draws) != 1 {
		t.Errorf("expected one draw after reload, got %d (err %v)", len(dev.draws), err)
	}
}

func TestReload(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 1)

	if err := m.Load(writeOBJ(t, "tri.obj", triangleSrc), formats.Triangles); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first := m.handle

	if err := m.Load(writeOBJ(t, "quad.obj", quadSrc), formats.Quads); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if m.IndexCount() != 6 {
		t.Errorf("expected reloaded index count 6, got %d", m.IndexCount())
	}
	if len(dev.deletes) != 1 || dev.deletes[0] != first {
		t.Errorf("expected old handle %d to be released, got %v", first, dev.deletes)
	}
	if len(dev.live) != 1 {
		t.Errorf("expected 1 live buffer set, got %d", len(dev.live))
	}
}

func TestReload_FailureKeepsPrevious(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 1)

	if err := m.Load(writeOBJ(t, "quad.obj", quadSrc), formats.Quads); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	source := m.Source()

	err := m.Load(writeOBJ(t, "mixed.obj", mixedSrc), formats.Triangles)
	if !errors.Is(err, formats.ErrMalformedFace) {
		t.Fatalf("expected ErrMalformedFace, got %v", err)
	}

	if !m.Loaded() || m.IndexCount() != 6 || m.Source() != source {
		t.Errorf("expected previous geometry to survive, got loaded=%v indices=%d source=%q",
			m.Loaded(), m.IndexCount(), m.Source())
	}
	if len(dev.deletes) != 0 {
		t.Errorf("expected no releases, got %v", dev.deletes)
	}
	if err := m.Draw(); err != nil {
		t.Errorf("expected previous geometry to draw, got %v", err)
	}
}

func TestDestroy(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 1)
	if err := m.Load(writeOBJ(t, "tri.obj", triangleSrc), formats.Triangles); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m.Destroy()
	m.Destroy()

	if m.Loaded() {
		t.Error("expected mesh to be unloaded")
	}
	if len(dev.deletes) != 1 {
		t.Errorf("expected a single release, got %d", len(dev.deletes))
	}
	if err := m.Draw(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded after Destroy, got %v", err)
	}
}

func TestLoadMesh_UnitQuad(t *testing.T) {
	dev := newFakeDevice()
	m := New(dev, 1)

	if err := m.LoadMesh(model.UnitQuad()); err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if m.IndexCount() != 6 || m.Source() != "" {
		t.Errorf("unexpected state: indices=%d source=%q", m.IndexCount(), m.Source())
	}
	if err := m.LoadMesh(&model.Mesh{}); err != nil {
		t.Fatalf("LoadMesh of empty geometry failed: %v", err)
	}
	if !m.Loaded() || m.IndexCount() != 0 {
		t.Errorf("expected loaded empty mesh, got loaded=%v indices=%d", m.Loaded(), m.IndexCount())
	}
	if len(dev.live) != 0 {
		t.Errorf("expected quad buffers to be released, got %d live", len(dev.live))
	}
}
