package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Label is one line of overlay text, placed in overlay units.
type Label struct {
	Text  string
	X, Y  float32
	Scale float32
}

// OverlayLabels are the fixed course/student lines, each followed by its
// underline row.
var OverlayLabels = []Label{
	{"Predmet: Racunarska grafika", -1.5, -2.0, 0.5},
	{"____________________", -1.5, -2.1, 0.58},
	{"Sk.god: 2019/20", -1.5, -2.7, 0.5},
	{"___________", -1.5, -2.8, 0.6},
	{"Ime: Ivana", -1.5, -3.5, 0.5},
	{"_______", -1.5, -3.6, 0.61},
	{"Prezime: Brkic", -1.5, -4.2, 0.5},
	{"__________", -1.5, -4.3, 0.6},
	{"Sifra zad: 14.2", -1.5, -5.0, 0.5},
	{"__________", -1.5, -5.1, 0.58},
}

var (
	// OverlayProjection is the orthographic box the labels are laid out in.
	OverlayProjection = mgl32.Ortho2D(-30, 0, -8, 12)
	OverlayOrigin     = mgl32.Vec3{-4, -2, 0}

	// OverlayColor is cyan: the labels' (0,191,255) is clamped per channel.
	OverlayColor = mgl32.Vec3{0, 1, 1}
)

const (
	glyphPPEM     = 64
	curveSegments = 8
)

// Outline is a string traced as polylines, one per glyph contour, in em
// units with +Y up and the pen starting at the origin.
type Outline [][]mgl32.Vec2

// TraceString converts s into glyph contours using f.
func TraceString(f *sfnt.Font, s string) (Outline, error) {
	var (
		buf     sfnt.Buffer
		out     Outline
		penX    float32
		prev    sfnt.GlyphIndex
		hasPrev bool
	)
	ppem := fixed.I(glyphPPEM)
	toEm := func(p fixed.Point26_6) mgl32.Vec2 {
		return mgl32.Vec2{
			penX + float32(p.X)/64/glyphPPEM,
			-float32(p.Y) / 64 / glyphPPEM,
		}
	}

	for _, r := range s {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index %q: %w", r, err)
		}
		if hasPrev {
			if kern, err := f.Kern(&buf, prev, idx, ppem, font.HintingNone); err == nil {
				penX += float32(kern) / 64 / glyphPPEM
			}
		}

		segments, err := f.LoadGlyph(&buf, idx, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("load glyph %q: %w", r, err)
		}

		var contour []mgl32.Vec2
		flush := func() {
			if len(contour) > 1 {
				out = append(out, contour)
			}
			contour = nil
		}
		for _, seg := range segments {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				flush()
				contour = append(contour, toEm(seg.Args[0]))
			case sfnt.SegmentOpLineTo:
				contour = append(contour, toEm(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				contour = appendQuad(contour, toEm(seg.Args[0]), toEm(seg.Args[1]))
			case sfnt.SegmentOpCubeTo:
				contour = appendCube(contour, toEm(seg.Args[0]), toEm(seg.Args[1]), toEm(seg.Args[2]))
			}
		}
		flush()

		advance, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("glyph advance %q: %w", r, err)
		}
		penX += float32(advance) / 64 / glyphPPEM
		prev, hasPrev = idx, true
	}
	return out, nil
}

func appendQuad(c []mgl32.Vec2, ctrl, end mgl32.Vec2) []mgl32.Vec2 {
	if len(c) == 0 {
		return append(c, end)
	}
	start := c[len(c)-1]
	for i := 1; i <= curveSegments; i++ {
		t := float32(i) / curveSegments
		c = append(c, mgl32.QuadraticBezierCurve2D(t, start, ctrl, end))
	}
	return c
}

func appendCube(c []mgl32.Vec2, c1, c2, end mgl32.Vec2) []mgl32.Vec2 {
	if len(c) == 0 {
		return append(c, end)
	}
	start := c[len(c)-1]
	for i := 1; i <= curveSegments; i++ {
		t := float32(i) / curveSegments
		c = append(c, mgl32.CubicBezierCurve2D(t, start, c1, c2, end))
	}
	return c
}

// OverlayText draws the fixed labels in an orthographic pass.
type OverlayText struct {
	Labels []Label
	// Font is TrueType or OpenType data, Go Regular by default.
	Font     []byte
	FontName string
	list     uint32
}

func NewOverlayText() *OverlayText {
	return &OverlayText{Labels: OverlayLabels, Font: goregular.TTF, FontName: "goregular"}
}

// Bake traces every label with the overlay font and compiles the outlines
// into a display list.
func (o *OverlayText) Bake(ctx Context) error {
	f, err := sfnt.Parse(o.Font)
	if err != nil {
		return fmt.Errorf("parse overlay font: %w", err)
	}

	outlines := make([]Outline, len(o.Labels))
	for i, l := range o.Labels {
		if outlines[i], err = TraceString(f, l.Text); err != nil {
			return err
		}
	}

	o.list = ctx.GenList()
	ctx.BeginList(o.list)
	for i, l := range o.Labels {
		ctx.PushMatrix()
		ctx.Translate(l.X, l.Y, 0)
		ctx.Scale(l.Scale, l.Scale, l.Scale)
		for _, contour := range outlines[i] {
			ctx.Begin(LineStrip)
			for _, p := range contour {
				ctx.Vertex3(p[0], p[1], 0)
			}
			ctx.End()
		}
		ctx.PopMatrix()
	}
	ctx.EndList()
	return nil
}

// Draw replaces the projection with the overlay box and the modelview with
// identity. The caller must restore its perspective projection afterwards.
func (o *OverlayText) Draw(ctx Context) error {
	if o.list == 0 {
		return NewStateError("draw overlay text", ErrNotInitialized)
	}
	ctx.MatrixMode(Projection)
	ctx.LoadIdentity()
	ctx.LoadMatrix(OverlayProjection)
	ctx.MatrixMode(ModelView)
	ctx.LoadIdentity()

	ctx.Disable(Lighting)
	ctx.Color3(OverlayColor[0], OverlayColor[1], OverlayColor[2])
	ctx.Translate(OverlayOrigin[0], OverlayOrigin[1], OverlayOrigin[2])
	ctx.CallList(o.list)
	ctx.Enable(Lighting)
	return nil
}

func (o *OverlayText) Delete(ctx Context) {
	if o.list != 0 {
		ctx.DeleteList(o.list)
		o.list = 0
	}
}
