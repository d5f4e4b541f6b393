// Package opengl implements renderer.Context on the fixed-function
// OpenGL 2.1 pipeline.
package opengl

import (
	"fmt"

	"PlateCandle/internal/logger"
	"PlateCandle/internal/renderer"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Context issues GL calls on the thread that owns the current context.
type Context struct{}

// Init loads the GL entry points. A context must be current.
func Init() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl init: %w", err)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return &Context{}, nil
}

var capabilities = map[renderer.Capability]uint32{
	renderer.DepthTest:     gl.DEPTH_TEST,
	renderer.CullFace:      gl.CULL_FACE,
	renderer.Texture2D:     gl.TEXTURE_2D,
	renderer.Lighting:      gl.LIGHTING,
	renderer.ColorMaterial: gl.COLOR_MATERIAL,
	renderer.Normalize:     gl.NORMALIZE,
	renderer.Light0:        gl.LIGHT0,
	renderer.Light1:        gl.LIGHT1,
}

var lights = map[renderer.LightID]uint32{
	renderer.LightZero: gl.LIGHT0,
	renderer.LightOne:  gl.LIGHT1,
}

var lightParams = map[renderer.LightParam]uint32{
	renderer.LightAmbient:    gl.AMBIENT,
	renderer.LightDiffuse:    gl.DIFFUSE,
	renderer.LightSpecular:   gl.SPECULAR,
	renderer.LightPosition:   gl.POSITION,
	renderer.LightSpotCutoff: gl.SPOT_CUTOFF,
}

var materialParams = map[renderer.MaterialParam]uint32{
	renderer.MaterialAmbient:   gl.AMBIENT,
	renderer.MaterialDiffuse:   gl.DIFFUSE,
	renderer.MaterialSpecular:  gl.SPECULAR,
	renderer.MaterialEmission:  gl.EMISSION,
	renderer.MaterialShininess: gl.SHININESS,
}

var primitives = map[renderer.Primitive]uint32{
	renderer.Quads:     gl.QUADS,
	renderer.QuadStrip: gl.QUAD_STRIP,
	renderer.Triangles: gl.TRIANGLES,
	renderer.Lines:     gl.LINES,
	renderer.LineStrip: gl.LINE_STRIP,
}

var texEnvModes = map[renderer.TexEnvMode]int32{
	renderer.TexEnvModulate: gl.MODULATE,
	renderer.TexEnvAdd:      gl.ADD,
	renderer.TexEnvReplace:  gl.REPLACE,
}

var filters = map[renderer.Filter]int32{
	renderer.FilterNearest:            gl.NEAREST,
	renderer.FilterLinear:             gl.LINEAR,
	renderer.FilterLinearMipmapLinear: gl.LINEAR_MIPMAP_LINEAR,
}

var wraps = map[renderer.Wrap]int32{
	renderer.WrapRepeat:      gl.REPEAT,
	renderer.WrapClampToEdge: gl.CLAMP_TO_EDGE,
}

func (*Context) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (*Context) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }
func (*Context) Enable(c renderer.Capability) { gl.Enable(capabilities[c]) }
func (*Context) Disable(c renderer.Capability) { gl.Disable(capabilities[c]) }
func (*Context) FrontFaceCCW() { gl.FrontFace(gl.CCW) }
func (*Context) ShadeSmooth() { gl.ShadeModel(gl.SMOOTH) }
func (*Context) Flush() { gl.Flush() }

func (*Context) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (*Context) MatrixMode(mode renderer.MatrixMode) {
	if mode == renderer.Projection {
		gl.MatrixMode(gl.PROJECTION)
		return
	}
	gl.MatrixMode(gl.MODELVIEW)
}

func (*Context) LoadIdentity() { gl.LoadIdentity() }
func (*Context) LoadMatrix(m mgl32.Mat4) { gl.LoadMatrixf(&m[0]) }
func (*Context) MultMatrix(m mgl32.Mat4) { gl.MultMatrixf(&m[0]) }
func (*Context) PushMatrix() { gl.PushMatrix() }
func (*Context) PopMatrix() { gl.PopMatrix() }
func (*Context) Translate(x, y, z float32) { gl.Translatef(x, y, z) }
func (*Context) Rotate(angle, x, y, z float32) {
	gl.Rotatef(angle, x, y, z)
}
func (*Context) Scale(x, y, z float32) { gl.Scalef(x, y, z) }
func (*Context) Color3(r, g, b float32) { gl.Color3f(r, g, b) }

func (*Context) LightModelAmbient(c mgl32.Vec4) {
	gl.LightModelfv(gl.LIGHT_MODEL_AMBIENT, &c[0])
}

func (*Context) Light(id renderer.LightID, param renderer.LightParam, v mgl32.Vec4) {
	gl.Lightfv(lights[id], lightParams[param], &v[0])
}

func (*Context) Lightf(id renderer.LightID, param renderer.LightParam, v float32) {
	gl.Lightf(lights[id], lightParams[param], v)
}

func (*Context) ColorMaterialAmbientDiffuse() {
	gl.ColorMaterial(gl.FRONT, gl.AMBIENT_AND_DIFFUSE)
}

func (*Context) Material(param renderer.MaterialParam, v mgl32.Vec4) {
	gl.Materialfv(gl.FRONT, materialParams[param], &v[0])
}

func (*Context) Materialf(param renderer.MaterialParam, v float32) {
	gl.Materialf(gl.FRONT, materialParams[param], v)
}

func (*Context) TexEnv(mode renderer.TexEnvMode) {
	gl.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, texEnvModes[mode])
}

func (*Context) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (*Context) BindTexture(id uint32) { gl.BindTexture(gl.TEXTURE_2D, id) }

// TexImageMipmapped uploads to the bound texture and lets the driver build
// the mipmap chain.
func (*Context) TexImageMipmapped(width, height int32, rgba []uint8) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.GENERATE_MIPMAP, gl.TRUE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}

func (*Context) TexParameters(p renderer.TextureParams) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filters[p.MinFilter])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filters[p.MagFilter])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wraps[p.WrapS])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wraps[p.WrapT])
}

func (*Context) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (*Context) Begin(p renderer.Primitive) { gl.Begin(primitives[p]) }
func (*Context) End() { gl.End() }
func (*Context) Vertex3(x, y, z float32) { gl.Vertex3f(x, y, z) }
func (*Context) Normal3(x, y, z float32) { gl.Normal3f(x, y, z) }
func (*Context) TexCoord2(s, t float32) { gl.TexCoord2f(s, t) }

func (*Context) GenList() uint32 { return gl.GenLists(1) }
func (*Context) BeginList(id uint32) { gl.NewList(id, gl.COMPILE) }
func (*Context) EndList() { gl.EndList() }
func (*Context) CallList(id uint32) { gl.CallList(id) }
func (*Context) DeleteList(id uint32) { gl.DeleteLists(id, 1) }

var _ renderer.Context = (*Context)(nil)
