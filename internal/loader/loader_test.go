package loader

import (
	"os"
	"path/filepath"
	"testing"

	"PlateCandle/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const quadOBJ = `# unit quad in the xz plane
mtllib quad.mtl
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
usemtl wax
f 1/1/1 4/4/1 3/3/1 2/2/1
`

const quadMTL = `newmtl wax
Kd 0.8 0.7 0.6
Ks 0.5 0.5 0.5
Ns 900
d 1
map_Kd wax.png
`

func TestLoadModelQuad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.mtl", quadMTL)
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	model, err := LoadModel(path, false)
	require.NoError(t, err)

	assert.Equal(t, "quad", model.Name)
	assert.Equal(t, 2, model.TriangleCount())
	assert.Equal(t, 4, model.VertexCount(), "shared corners should be unified")

	for i := 0; i < model.VertexCount(); i++ {
		_, _, n := model.Vertex(uint32(i))
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, n)
	}

	groups := model.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "wax", groups[0].Material.Name)
	assert.Equal(t, int32(6), groups[0].IndexCount)
	assert.Equal(t, float32(900), groups[0].Material.Shininess)
	assert.Equal(t, filepath.Join(dir, "wax.png"), groups[0].Material.TexturePath)

	assert.InDelta(t, 0.5, model.BoundingSphereCenter[0], 1e-6)
	assert.InDelta(t, 0.5, model.BoundingSphereCenter[2], 1e-6)
	assert.InDelta(t, 0.7071, model.BoundingSphereRadius, 1e-3)
}

func TestLoadModelRecalculatesMissingNormals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	model, err := LoadModel(path, false)
	require.NoError(t, err)
	require.Equal(t, 3, model.VertexCount())

	_, uv, n := model.Vertex(0)
	assert.Equal(t, mgl32.Vec2{0, 0}, uv)
	assert.True(t, n.ApproxEqual(mgl32.Vec3{0, 0, 1}), "normal %v", n)
	assert.Equal(t, renderer.DefaultMaterial, model.Groups()[0].Material)
}

func TestLoadModelNegativeIndices(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "neg.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf -3//-1 -2//-1 -1//-1\n")

	model, err := LoadModel(path, false)
	require.NoError(t, err)
	pos, _, _ := model.Vertex(model.Indices[2])
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, pos)
}

func TestLoadModelErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModel(filepath.Join(dir, "missing.obj"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadModel(writeFile(t, dir, "empty.obj", "# nothing\nv 0 0 0\n"), false)
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = LoadModel(writeFile(t, dir, "range.obj", "v 0 0 0\nv 1 0 0\nf 1 2 3\n"), false)
	assert.ErrorContains(t, err, "range.obj:3")

	_, err = LoadModel(writeFile(t, dir, "short.obj", "v 0 0\n"), false)
	assert.ErrorContains(t, err, "vertex needs 3 components")
}

func TestParseFaceFanTriangulation(t *testing.T) {
	face, err := parseFace([]string{"1", "2", "3", "4", "5"}, [3]int{5, 0, 0})
	require.NoError(t, err)
	require.Len(t, face, 9)
	for tri := 0; tri < 3; tri++ {
		assert.Equal(t, int32(0), face[tri*3].VertexIdx, "fan triangles share the first corner")
		assert.Equal(t, int32(-1), face[tri*3].TexCoordIdx)
	}
}

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		in      string
		count   int
		want    int32
		wantErr bool
	}{
		{"1", 3, 0, false},
		{"3", 3, 2, false},
		{"-1", 3, 2, false},
		{"-3", 3, 0, false},
		{"0", 3, 0, true},
		{"4", 3, 0, true},
		{"-4", 3, 0, true},
		{"x", 3, 0, true},
	}
	for _, tt := range tests {
		got, err := resolveIndex(tt.in, tt.count)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLoadMaterialsMissingFile(t *testing.T) {
	materials := LoadMaterials(filepath.Join(t.TempDir(), "none.mtl"))
	require.Contains(t, materials, "default")
	assert.Same(t, renderer.DefaultMaterial, materials["default"])
}

func TestRecalculateNormalsSkipsBadIndices(t *testing.T) {
	vertices := []float32{0, 0, 0, 1, 0, 0, 0, 0, -1}
	normals := RecalculateNormals(vertices, []int32{0, 1, 2, 0, 1, 9})
	require.Len(t, normals, 9)
	n := mgl32.Vec3{normals[0], normals[1], normals[2]}
	assert.True(t, n.ApproxEqual(mgl32.Vec3{0, 1, 0}), "normal %v", n)
}
