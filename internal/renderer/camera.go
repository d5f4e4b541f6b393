// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFov  float32 = 45.0
	DefaultNear float32 = 1.0
	DefaultFar  float32 = 20000.0
)

// Camera is a look-at camera with a perspective projection over a viewport.
type Camera struct {
	// HOT DATA - rebuilt every frame
	Position   mgl32.Vec3 // Eye position
	Target     mgl32.Vec3 // Point looked at
	Up         mgl32.Vec3 // Up direction vector
	Projection mgl32.Mat4 // Projection matrix

	// COLD DATA - changes on resize only
	Fov         float32 // Vertical field of view in degrees
	Near        float32 // Near clipping plane
	Far         float32 // Far clipping plane
	AspectRatio float32 // Viewport width / height
	Width       int32   // Viewport width in pixels, at least 1
	Height      int32   // Viewport height in pixels, at least 1
}

func NewPerspectiveCamera(width, height int32) *Camera {
	camera := Camera{
		Up:   mgl32.Vec3{0, 1, 0},
		Fov:  DefaultFov,
		Near: DefaultNear,
		Far:  DefaultFar,
	}
	camera.SetViewport(width, height)
	return &camera
}

// SetViewport stores the viewport size and recomputes the projection. Zero or
// negative dimensions are clamped to 1 so the aspect ratio stays finite.
func (c *Camera) SetViewport(width, height int32) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.Width = width
	c.Height = height
	c.AspectRatio = float32(width) / float32(height)
	c.UpdateProjection()
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) LookAt(eye, target mgl32.Vec3) {
	c.Position = eye
	c.Target = target
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

// ApplyProjection sets the viewport and loads the perspective matrix, leaving
// the modelview matrix selected and reset.
func (c *Camera) ApplyProjection(ctx Context) {
	ctx.Viewport(0, 0, c.Width, c.Height)
	ctx.MatrixMode(Projection)
	ctx.LoadIdentity()
	ctx.LoadMatrix(c.Projection)
	ctx.MatrixMode(ModelView)
	ctx.LoadIdentity()
}

// ApplyView multiplies the look-at matrix onto the current modelview matrix.
func (c *Camera) ApplyView(ctx Context) {
	ctx.MultMatrix(c.GetViewMatrix())
}

// IsFinite reports whether every entry of m is a finite number.
func IsFinite(m mgl32.Mat4) bool {
	for _, v := range m {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
