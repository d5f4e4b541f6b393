package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Capability int

const (
	DepthTest Capability = iota
	CullFace
	Texture2D
	Lighting
	ColorMaterial
	Normalize
	Light0
	Light1
)

type LightID int

const (
	LightZero LightID = iota
	LightOne
)

type LightParam int

const (
	LightAmbient LightParam = iota
	LightDiffuse
	LightSpecular
	LightPosition
	LightSpotCutoff
)

type MaterialParam int

const (
	MaterialAmbient MaterialParam = iota
	MaterialDiffuse
	MaterialSpecular
	MaterialEmission
	MaterialShininess
)

type MatrixMode int

const (
	Projection MatrixMode = iota
	ModelView
)

type Primitive int

const (
	Quads Primitive = iota
	QuadStrip
	Triangles
	Lines
	LineStrip
)

type TexEnvMode int

const (
	TexEnvModulate TexEnvMode = iota
	TexEnvAdd
	TexEnvReplace
)

type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmapLinear
)

type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
)

// TextureParams are applied to the currently bound 2D texture.
type TextureParams struct {
	MinFilter Filter
	MagFilter Filter
	WrapS     Wrap
	WrapT     Wrap
}

// Context is the slice of the fixed-function OpenGL pipeline the scene uses.
// Every method must be called on the thread owning the GL context.
type Context interface {
	ClearColor(r, g, b, a float32)
	// Clear clears the color and depth buffers.
	Clear()
	Enable(c Capability)
	Disable(c Capability)
	FrontFaceCCW()
	ShadeSmooth()
	Flush()

	Viewport(x, y, width, height int32)
	MatrixMode(mode MatrixMode)
	LoadIdentity()
	LoadMatrix(m mgl32.Mat4)
	MultMatrix(m mgl32.Mat4)
	PushMatrix()
	PopMatrix()
	Translate(x, y, z float32)
	// Rotate takes its angle in degrees, like glRotatef.
	Rotate(angle, x, y, z float32)
	Scale(x, y, z float32)

	Color3(r, g, b float32)
	LightModelAmbient(c mgl32.Vec4)
	Light(id LightID, param LightParam, v mgl32.Vec4)
	Lightf(id LightID, param LightParam, v float32)
	// ColorMaterialAmbientDiffuse makes the current color drive the front
	// ambient and diffuse material terms.
	ColorMaterialAmbientDiffuse()
	Material(param MaterialParam, v mgl32.Vec4)
	Materialf(param MaterialParam, v float32)

	TexEnv(mode TexEnvMode)
	GenTexture() uint32
	BindTexture(id uint32)
	// TexImageMipmapped uploads tightly packed RGBA rows, bottom row first,
	// and generates the full mipmap chain.
	TexImageMipmapped(width, height int32, rgba []uint8)
	TexParameters(p TextureParams)
	DeleteTexture(id uint32)

	Begin(p Primitive)
	End()
	Vertex3(x, y, z float32)
	Normal3(x, y, z float32)
	TexCoord2(s, t float32)

	GenList() uint32
	BeginList(id uint32)
	EndList()
	CallList(id uint32)
	DeleteList(id uint32)
}
