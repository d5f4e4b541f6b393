// Package gltest provides a renderer.Context that records calls and tracks
// the fixed-function state they would produce, for tests that run without a
// graphics context.
package gltest

import (
	"fmt"

	"PlateCandle/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Minimum stack depths an OpenGL implementation must provide.
const (
	MaxModelViewDepth  = 32
	MaxProjectionDepth = 2
)

type Call struct {
	Name string
	Args []any
}

type TextureUpload struct {
	Width, Height int32
	Pixels        []uint8
	Params        renderer.TextureParams
	Deleted       bool
}

type listEntry struct {
	call   Call
	effect func()
}

// Recorder implements renderer.Context. Calls issued while a display list is
// being compiled are stored in the list and take effect when it is called.
type Recorder struct {
	Calls      []Call
	Violations []string

	Enabled      map[renderer.Capability]bool
	Mode         renderer.MatrixMode
	ViewportRect [4]int32
	Color        mgl32.Vec3
	ClearedColor mgl32.Vec4
	TexEnvMode   renderer.TexEnvMode
	Lights       map[renderer.LightID]map[renderer.LightParam]mgl32.Vec4
	Materials    map[renderer.MaterialParam]mgl32.Vec4
	Textures     map[uint32]*TextureUpload
	BoundTexture uint32
	Vertices     int
	Clears       int
	Flushes      int

	stacks      map[renderer.MatrixMode][]mgl32.Mat4
	lists       map[uint32][]listEntry
	nextTexture uint32
	nextList    uint32
	compiling   uint32
	inBegin     bool
}

func NewRecorder() *Recorder {
	return &Recorder{
		Enabled:   make(map[renderer.Capability]bool),
		Lights:    make(map[renderer.LightID]map[renderer.LightParam]mgl32.Vec4),
		Materials: make(map[renderer.MaterialParam]mgl32.Vec4),
		Textures:  make(map[uint32]*TextureUpload),
		stacks: map[renderer.MatrixMode][]mgl32.Mat4{
			renderer.Projection: {mgl32.Ident4()},
			renderer.ModelView:  {mgl32.Ident4()},
		},
		lists:       make(map[uint32][]listEntry),
		nextTexture: 1,
		nextList:    1,
		Mode:        renderer.ModelView,
	}
}

func (r *Recorder) violate(format string, args ...any) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

func (r *Recorder) do(name string, effect func(), args ...any) {
	c := Call{Name: name, Args: args}
	if r.compiling != 0 {
		r.lists[r.compiling] = append(r.lists[r.compiling], listEntry{call: c, effect: effect})
		return
	}
	r.Calls = append(r.Calls, c)
	if effect != nil {
		effect()
	}
}

// immediate records calls that GL executes even during list compilation.
func (r *Recorder) immediate(name string, effect func(), args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
	if effect != nil {
		effect()
	}
}

func (r *Recorder) top(mode renderer.MatrixMode) *mgl32.Mat4 {
	s := r.stacks[mode]
	return &s[len(s)-1]
}

func (r *Recorder) mult(m mgl32.Mat4) {
	t := r.top(r.Mode)
	*t = t.Mul4(m)
}

func (r *Recorder) outsideBegin(name string) {
	if r.inBegin {
		r.violate("%s inside Begin/End", name)
	}
}

// Projection is the current projection matrix.
func (r *Recorder) Projection() mgl32.Mat4 { return *r.top(renderer.Projection) }

// ModelView is the current modelview matrix.
func (r *Recorder) ModelView() mgl32.Mat4 { return *r.top(renderer.ModelView) }

// Depth is the number of matrices on the given stack, 1 when balanced.
func (r *Recorder) Depth(mode renderer.MatrixMode) int { return len(r.stacks[mode]) }

// ListCount is the number of live display lists.
func (r *Recorder) ListCount() int { return len(r.lists) }

// LiveTextures counts textures generated and not deleted.
func (r *Recorder) LiveTextures() int {
	n := 0
	for _, t := range r.Textures {
		if !t.Deleted {
			n++
		}
	}
	return n
}

// Count returns how many recorded calls have the given name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Index returns the position of the first call with the given name at or
// after from, or -1.
func (r *Recorder) Index(name string, from int) int {
	for i := from; i < len(r.Calls); i++ {
		if r.Calls[i].Name == name {
			return i
		}
	}
	return -1
}

// Reset forgets recorded calls and violations but keeps GL state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Violations = nil
	r.Vertices = 0
}

func (r *Recorder) ClearColor(cr, g, b, a float32) {
	r.do("ClearColor", func() { r.ClearedColor = mgl32.Vec4{cr, g, b, a} }, cr, g, b, a)
}

func (r *Recorder) Clear() {
	r.do("Clear", func() { r.outsideBegin("Clear"); r.Clears++ })
}

func (r *Recorder) Enable(c renderer.Capability) {
	r.do("Enable", func() { r.outsideBegin("Enable"); r.Enabled[c] = true }, c)
}

func (r *Recorder) Disable(c renderer.Capability) {
	r.do("Disable", func() { r.outsideBegin("Disable"); r.Enabled[c] = false }, c)
}

func (r *Recorder) FrontFaceCCW() { r.do("FrontFaceCCW", nil) }
func (r *Recorder) ShadeSmooth()  { r.do("ShadeSmooth", nil) }

func (r *Recorder) Flush() {
	r.immediate("Flush", func() { r.Flushes++ })
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.do("Viewport", func() {
		if width < 0 || height < 0 {
			r.violate("negative viewport %dx%d", width, height)
		}
		r.ViewportRect = [4]int32{x, y, width, height}
	}, x, y, width, height)
}

func (r *Recorder) MatrixMode(mode renderer.MatrixMode) {
	r.do("MatrixMode", func() { r.outsideBegin("MatrixMode"); r.Mode = mode }, mode)
}

func (r *Recorder) LoadIdentity() {
	r.do("LoadIdentity", func() { *r.top(r.Mode) = mgl32.Ident4() })
}

func (r *Recorder) LoadMatrix(m mgl32.Mat4) {
	r.do("LoadMatrix", func() { *r.top(r.Mode) = m }, m)
}

func (r *Recorder) MultMatrix(m mgl32.Mat4) {
	r.do("MultMatrix", func() { r.mult(m) }, m)
}

func (r *Recorder) PushMatrix() {
	r.do("PushMatrix", func() {
		r.outsideBegin("PushMatrix")
		limit := MaxModelViewDepth
		if r.Mode == renderer.Projection {
			limit = MaxProjectionDepth
		}
		s := r.stacks[r.Mode]
		if len(s) >= limit {
			r.violate("matrix stack overflow in mode %d", r.Mode)
			return
		}
		r.stacks[r.Mode] = append(s, s[len(s)-1])
	})
}

func (r *Recorder) PopMatrix() {
	r.do("PopMatrix", func() {
		r.outsideBegin("PopMatrix")
		s := r.stacks[r.Mode]
		if len(s) <= 1 {
			r.violate("matrix stack underflow in mode %d", r.Mode)
			return
		}
		r.stacks[r.Mode] = s[:len(s)-1]
	})
}

func (r *Recorder) Translate(x, y, z float32) {
	r.do("Translate", func() { r.mult(mgl32.Translate3D(x, y, z)) }, x, y, z)
}

func (r *Recorder) Rotate(angle, x, y, z float32) {
	r.do("Rotate", func() {
		axis := mgl32.Vec3{x, y, z}
		if axis.Len() == 0 {
			return
		}
		r.mult(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
	}, angle, x, y, z)
}

func (r *Recorder) Scale(x, y, z float32) {
	r.do("Scale", func() { r.mult(mgl32.Scale3D(x, y, z)) }, x, y, z)
}

func (r *Recorder) Color3(cr, g, b float32) {
	r.do("Color3", func() { r.Color = mgl32.Vec3{cr, g, b} }, cr, g, b)
}

func (r *Recorder) LightModelAmbient(c mgl32.Vec4) { r.do("LightModelAmbient", nil, c) }

func (r *Recorder) setLight(id renderer.LightID, param renderer.LightParam, v mgl32.Vec4) {
	if r.Lights[id] == nil {
		r.Lights[id] = make(map[renderer.LightParam]mgl32.Vec4)
	}
	r.Lights[id][param] = v
}

func (r *Recorder) Light(id renderer.LightID, param renderer.LightParam, v mgl32.Vec4) {
	r.do("Light", func() { r.setLight(id, param, v) }, id, param, v)
}

func (r *Recorder) Lightf(id renderer.LightID, param renderer.LightParam, v float32) {
	r.do("Lightf", func() { r.setLight(id, param, mgl32.Vec4{v, 0, 0, 0}) }, id, param, v)
}

func (r *Recorder) ColorMaterialAmbientDiffuse() { r.do("ColorMaterialAmbientDiffuse", nil) }

func (r *Recorder) Material(param renderer.MaterialParam, v mgl32.Vec4) {
	r.do("Material", func() { r.Materials[param] = v }, param, v)
}

func (r *Recorder) Materialf(param renderer.MaterialParam, v float32) {
	r.do("Materialf", func() {
		if v < 0 || v > 128 {
			r.violate("material shininess %v outside [0,128]", v)
		}
		r.Materials[param] = mgl32.Vec4{v, 0, 0, 0}
	}, param, v)
}

func (r *Recorder) TexEnv(mode renderer.TexEnvMode) {
	r.do("TexEnv", func() { r.TexEnvMode = mode }, mode)
}

func (r *Recorder) GenTexture() uint32 {
	id := r.nextTexture
	r.nextTexture++
	r.immediate("GenTexture", func() { r.Textures[id] = &TextureUpload{} }, id)
	return id
}

func (r *Recorder) BindTexture(id uint32) {
	r.do("BindTexture", func() {
		if id != 0 {
			if t, ok := r.Textures[id]; !ok || t.Deleted {
				r.violate("bind of unknown texture %d", id)
			}
		}
		r.BoundTexture = id
	}, id)
}

func (r *Recorder) TexImageMipmapped(width, height int32, rgba []uint8) {
	r.do("TexImageMipmapped", func() {
		t, ok := r.Textures[r.BoundTexture]
		if !ok {
			r.violate("upload with no texture bound")
			return
		}
		if int(width*height*4) != len(rgba) {
			r.violate("upload of %d bytes for %dx%d RGBA", len(rgba), width, height)
		}
		t.Width, t.Height, t.Pixels = width, height, rgba
	}, width, height)
}

func (r *Recorder) TexParameters(p renderer.TextureParams) {
	r.do("TexParameters", func() {
		if t, ok := r.Textures[r.BoundTexture]; ok {
			t.Params = p
		}
	}, p)
}

func (r *Recorder) DeleteTexture(id uint32) {
	r.immediate("DeleteTexture", func() {
		t, ok := r.Textures[id]
		if !ok || t.Deleted {
			r.violate("delete of unknown texture %d", id)
			return
		}
		t.Deleted = true
	}, id)
}

func (r *Recorder) Begin(p renderer.Primitive) {
	r.do("Begin", func() {
		if r.inBegin {
			r.violate("nested Begin")
		}
		r.inBegin = true
	}, p)
}

func (r *Recorder) End() {
	r.do("End", func() {
		if !r.inBegin {
			r.violate("End without Begin")
		}
		r.inBegin = false
	})
}

func (r *Recorder) Vertex3(x, y, z float32) {
	r.do("Vertex3", func() {
		if !r.inBegin {
			r.violate("Vertex outside Begin/End")
		}
		r.Vertices++
	})
}

func (r *Recorder) Normal3(x, y, z float32) { r.do("Normal3", nil, x, y, z) }
func (r *Recorder) TexCoord2(s, t float32)  { r.do("TexCoord2", nil, s, t) }

func (r *Recorder) GenList() uint32 {
	id := r.nextList
	r.nextList++
	r.immediate("GenList", func() { r.lists[id] = nil }, id)
	return id
}

func (r *Recorder) BeginList(id uint32) {
	r.immediate("BeginList", func() {
		if r.compiling != 0 {
			r.violate("nested BeginList")
		}
		if _, ok := r.lists[id]; !ok {
			r.violate("BeginList of unknown list %d", id)
		}
		r.lists[id] = nil
		r.compiling = id
	}, id)
}

func (r *Recorder) EndList() {
	r.immediate("EndList", func() {
		if r.compiling == 0 {
			r.violate("EndList without BeginList")
		}
		r.compiling = 0
	})
}

func (r *Recorder) CallList(id uint32) {
	r.do("CallList", func() {
		entries, ok := r.lists[id]
		if !ok {
			r.violate("call of unknown list %d", id)
			return
		}
		for _, e := range entries {
			if e.effect != nil {
				e.effect()
			}
		}
	}, id)
}

func (r *Recorder) DeleteList(id uint32) {
	r.immediate("DeleteList", func() {
		if _, ok := r.lists[id]; !ok {
			r.violate("delete of unknown list %d", id)
		}
		delete(r.lists, id)
	}, id)
}

var _ renderer.Context = (*Recorder)(nil)
