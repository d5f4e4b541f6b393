package renderer

import "github.com/go-gl/mathgl/mgl32"

var (
	GlobalAmbient  = mgl32.Vec4{0.2, 0.2, 0.2, 1.0}
	Light0Position = mgl32.Vec4{0.0, 1000.0, 0.0, 1.0}
	Light0Ambient  = mgl32.Vec4{0.1, 0.1, 0.1, 1.0}
	Light0Diffuse  = mgl32.Vec4{0.5, 0.5, 0.5, 1.0}

	// Light1Position sits above the sphere, in candle space.
	Light1Position = mgl32.Vec4{0.0, 120.0, 0.0, 1.0}
)

// OmniCutoff is the spot cutoff of a light that shines in every direction.
const OmniCutoff float32 = 180.0

// SetupLighting configures the two-light model once at initialization: the
// current color drives ambient and diffuse material, LIGHT0 is a dim white
// light high above the scene and LIGHT1 is the colored candle light whose
// position and diffuse are set per frame.
func SetupLighting(ctx Context) {
	ctx.Enable(ColorMaterial)
	ctx.ColorMaterialAmbientDiffuse()

	ctx.Enable(Normalize)
	ctx.ShadeSmooth()

	ctx.LightModelAmbient(GlobalAmbient)

	ctx.Light(LightZero, LightPosition, Light0Position)
	ctx.Light(LightZero, LightAmbient, Light0Ambient)
	ctx.Light(LightZero, LightDiffuse, Light0Diffuse)
	ctx.Lightf(LightZero, LightSpotCutoff, OmniCutoff)

	ctx.Lightf(LightOne, LightSpotCutoff, OmniCutoff)

	ctx.Enable(Lighting)
	ctx.Enable(Light0)
	ctx.Enable(Light1)
}

// SetCandleLight recolors LIGHT1 to match the current flat color.
func SetCandleLight(ctx Context, color mgl32.Vec3) {
	ctx.Light(LightOne, LightDiffuse, color.Vec4(1.0))
}
