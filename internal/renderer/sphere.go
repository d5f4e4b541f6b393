package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type SphereMaterial struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Shininess float32
}

// Sphere is a quadric-style sphere: slices around the Z axis, stacks from the
// +Z pole to the -Z pole, smooth per-vertex normals. The geometry is compiled
// into a display list once and replayed every frame.
type Sphere struct {
	Radius   float32
	Slices   int
	Stacks   int
	Material SphereMaterial

	list uint32
}

// NewCandleSphere returns the marker sphere drawn above the candle.
func NewCandleSphere() *Sphere {
	return &Sphere{
		Radius: 5,
		Slices: 120,
		Stacks: 120,
		Material: SphereMaterial{
			Ambient:   mgl32.Vec4{1, 0, 0, 1},
			Diffuse:   mgl32.Vec4{1, 1, 1, 1},
			Shininess: 128,
		},
	}
}

// Rings returns the unit normals of the sphere, (Stacks+1) rings of
// (Slices+1) points each. Position is normal * Radius.
func (s *Sphere) Rings() [][]mgl32.Vec3 {
	rings := make([][]mgl32.Vec3, s.Stacks+1)
	for i := 0; i <= s.Stacks; i++ {
		rho := math.Pi * float64(i) / float64(s.Stacks)
		sinRho, cosRho := math.Sincos(rho)
		ring := make([]mgl32.Vec3, s.Slices+1)
		for j := 0; j <= s.Slices; j++ {
			theta := 2 * math.Pi * float64(j%s.Slices) / float64(s.Slices)
			sinTheta, cosTheta := math.Sincos(theta)
			ring[j] = mgl32.Vec3{
				float32(-sinTheta * sinRho),
				float32(cosTheta * sinRho),
				float32(cosRho),
			}
		}
		rings[i] = ring
	}
	return rings
}

// CreateInContext compiles the sphere into a display list.
func (s *Sphere) CreateInContext(ctx Context) {
	rings := s.Rings()
	s.list = ctx.GenList()
	ctx.BeginList(s.list)
	for i := 0; i < s.Stacks; i++ {
		ctx.Begin(QuadStrip)
		for j := 0; j <= s.Slices; j++ {
			for _, n := range [2]mgl32.Vec3{rings[i][j], rings[i+1][j]} {
				ctx.Normal3(n[0], n[1], n[2])
				p := n.Mul(s.Radius)
				ctx.Vertex3(p[0], p[1], p[2])
			}
		}
		ctx.End()
	}
	ctx.EndList()
}

func (s *Sphere) BindMaterial(ctx Context) {
	ctx.Material(MaterialAmbient, s.Material.Ambient)
	ctx.Material(MaterialDiffuse, s.Material.Diffuse)
	ctx.Materialf(MaterialShininess, s.Material.Shininess)
}

func (s *Sphere) Render(ctx Context) error {
	if s.list == 0 {
		return NewStateError("render sphere", ErrNotInitialized)
	}
	ctx.CallList(s.list)
	return nil
}

func (s *Sphere) Delete(ctx Context) {
	if s.list != 0 {
		ctx.DeleteList(s.list)
		s.list = 0
	}
}
