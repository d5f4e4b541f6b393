package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved layout [x,y,z,u,v,nx,ny,nz].
const FloatsPerVertex = 8

// DefaultMaterial provides a basic material to fall back on
var DefaultMaterial = &Material{
	Name:          "default",
	DiffuseColor:  [3]float32{1.0, 1.0, 1.0},
	SpecularColor: [3]float32{0.0, 0.0, 0.0},
	Shininess:     0.0,
	Alpha:         1.0,
}

// MaterialGroup represents a submesh with a single material
type MaterialGroup struct {
	Material   *Material // Material for this group
	IndexStart int32     // Starting index in the index buffer
	IndexCount int32     // Number of indices for this group
}

// Model is mesh data as parsed from a file, not yet uploaded anywhere.
type Model struct {
	InterleavedData []float32       // Combined vertex data
	Indices         []uint32        // Triangle list into InterleavedData
	Material        *Material       // Material used when there are no groups
	MaterialGroups  []MaterialGroup // For multi-material models

	BoundingSphereCenter mgl32.Vec3
	BoundingSphereRadius float32

	Name       string // Model name
	SourcePath string // Original file path
}

type Material struct {
	DiffuseColor  [3]float32 // Base color for lighting
	SpecularColor [3]float32 // Specular highlight color
	Shininess     float32    // Specular exponent
	Alpha         float32    // Transparency (0.0 = transparent, 1.0 = opaque)

	Name        string // Material name for debugging
	TexturePath string // map_Kd, kept for reference; scene meshes draw untextured
}

func (m *Model) VertexCount() int {
	return len(m.InterleavedData) / FloatsPerVertex
}

func (m *Model) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns position, texture coordinate and normal of vertex i.
func (m *Model) Vertex(i uint32) (pos mgl32.Vec3, uv mgl32.Vec2, normal mgl32.Vec3) {
	d := m.InterleavedData[int(i)*FloatsPerVertex:]
	return mgl32.Vec3{d[0], d[1], d[2]}, mgl32.Vec2{d[3], d[4]}, mgl32.Vec3{d[5], d[6], d[7]}
}

// Groups returns the material groups, or one group spanning every index with
// the model material when the file declared none.
func (m *Model) Groups() []MaterialGroup {
	if len(m.MaterialGroups) > 0 {
		return m.MaterialGroups
	}
	mat := m.Material
	if mat == nil {
		mat = DefaultMaterial
	}
	return []MaterialGroup{{Material: mat, IndexStart: 0, IndexCount: int32(len(m.Indices))}}
}

// CalculateBoundingSphere centers the sphere on the vertex centroid.
func (m *Model) CalculateBoundingSphere() {
	n := m.VertexCount()
	if n == 0 {
		m.BoundingSphereCenter = mgl32.Vec3{}
		m.BoundingSphereRadius = 0
		return
	}

	var center mgl32.Vec3
	for i := 0; i < n; i++ {
		p, _, _ := m.Vertex(uint32(i))
		center = center.Add(p)
	}
	center = center.Mul(1.0 / float32(n))

	var maxDistanceSq float32
	for i := 0; i < n; i++ {
		p, _, _ := m.Vertex(uint32(i))
		if d := p.Sub(center).LenSqr(); d > maxDistanceSq {
			maxDistanceSq = d
		}
	}

	m.BoundingSphereCenter = center
	m.BoundingSphereRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}

// Bind applies the material terms the color material does not drive:
// ambient and diffuse follow the current color, so only specular and
// shininess come from the file.
func (mat *Material) Bind(ctx Context) {
	s := mat.SpecularColor
	ctx.Material(MaterialSpecular, mgl32.Vec4{s[0], s[1], s[2], 1})
	ctx.Materialf(MaterialShininess, clampShininess(mat.Shininess))
}

// clampShininess keeps the exponent in the [0,128] range fixed-function GL
// accepts; OBJ files commonly carry Ns up to 1000.
func clampShininess(ns float32) float32 {
	return mgl32.Clamp(ns, 0, 128)
}
