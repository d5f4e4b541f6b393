package world

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"strconv"
	"testing"
	"time"

	"PlateCandle/internal/config"
	"PlateCandle/internal/mesh"
	"PlateCandle/internal/renderer"
	"PlateCandle/internal/renderer/gltest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMesh draws a single triangle and records its lifecycle.
type fakeMesh struct {
	loadErr  error
	loaded   bool
	list     uint32
	draws    int
	disposed int
}

func (m *fakeMesh) Load() error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = true
	return nil
}

func (m *fakeMesh) Initialize(ctx renderer.Context) error {
	m.list = ctx.GenList()
	ctx.BeginList(m.list)
	ctx.Begin(renderer.Triangles)
	ctx.Vertex3(0, 0, 0)
	ctx.Vertex3(1, 0, 0)
	ctx.Vertex3(0, 1, 0)
	ctx.End()
	ctx.EndList()
	return nil
}

func (m *fakeMesh) Draw(ctx renderer.Context) error {
	if m.list == 0 {
		return renderer.NewStateError("draw fake", renderer.ErrNotInitialized)
	}
	m.draws++
	ctx.CallList(m.list)
	return nil
}

func (m *fakeMesh) Dispose(ctx renderer.Context) {
	if m.list != 0 {
		ctx.DeleteList(m.list)
		m.list = 0
	}
	m.disposed++
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

// testAssets lays out the default asset tree under a temp dir with two
// generated textures and no meshes.
func testAssets(t *testing.T) config.AssetConfig {
	t.Helper()
	assets := config.Default().Assets.Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(assets.ImagesDir, 0o755))
	require.NoError(t, os.MkdirAll(assets.ModelDir, 0o755))
	writeJPEG(t, assets.BrickPath())
	writeJPEG(t, assets.FloorPath())
	return assets
}

func newTestWorld(t *testing.T) (*World, *fakeMesh, *fakeMesh) {
	plate, candle := &fakeMesh{}, &fakeMesh{}
	return New(testAssets(t), plate, candle, nil), plate, candle
}

func TestTiltStaysInRange(t *testing.T) {
	w, _, _ := newTestWorld(t)

	w.TiltBy(5)
	assert.Equal(t, MinTilt, w.State().RotationX, "first tilt from 0 lands on the lower bound")

	for i := 0; i < 20; i++ {
		w.TiltBy(5)
		assert.LessOrEqual(t, w.State().RotationX, MaxTilt)
	}
	assert.Equal(t, MaxTilt, w.State().RotationX)

	for i := 0; i < 20; i++ {
		w.TiltBy(-5)
		assert.GreaterOrEqual(t, w.State().RotationX, MinTilt)
	}
	assert.Equal(t, MinTilt, w.State().RotationX)

	w.SetRotationX(100)
	assert.Equal(t, MaxTilt, w.State().RotationX)
	w.SetRotationX(-100)
	assert.Equal(t, MinTilt, w.State().RotationX)
}

func TestDistanceSoftClamp(t *testing.T) {
	w, _, _ := newTestWorld(t)

	for _, start := range []float32{-2000, 0, 1000, 1200, 1499, 1500} {
		w.SetSceneDistance(start)
		w.IncreaseDistance(500)
		assert.LessOrEqual(t, w.State().SceneDistance, MaxIncreaseDistance, "start %v", start)
	}

	w.SetSceneDistance(1200)
	w.IncreaseDistance(500)
	assert.Equal(t, float32(1500), w.State().SceneDistance)

	// the default distance is already past the ceiling and is left alone
	w.SetSceneDistance(2000)
	w.IncreaseDistance(500)
	assert.Equal(t, float32(2000), w.State().SceneDistance)

	w.SetSceneDistance(0)
	for i := 0; i < 10; i++ {
		w.DecreaseDistance(500)
	}
	assert.Equal(t, float32(-5000), w.State().SceneDistance, "decrement has no floor")
}

func TestAnimationRoundTrip(t *testing.T) {
	w, _, _ := newTestWorld(t)
	w.TiltBy(20)
	w.YawBy(45)
	w.SetSceneDistance(500)

	w.BeginAnimation()
	s := w.State()
	assert.True(t, s.AnimationActive)
	assert.Zero(t, s.RotationX)
	assert.Zero(t, s.RotationY)
	assert.Equal(t, StartDistance, s.SceneDistance)

	for i := 1; i < 50; i++ {
		require.NoError(t, w.Tick())
		require.True(t, w.State().AnimationActive, "stopped early at tick %d", i)
		assert.Equal(t, -AnimationStep*float32(i), w.State().AnimationOffsetZ)
	}
	require.NoError(t, w.Tick())

	s = w.State()
	assert.False(t, s.AnimationActive)
	assert.False(t, w.Animator().Running())
	assert.Zero(t, s.AnimationOffsetX)
	assert.Zero(t, s.AnimationOffsetZ)
	assert.Zero(t, s.RotationX)
	assert.Zero(t, s.RotationY)
	assert.Equal(t, StartDistance, s.SceneDistance)

	require.NoError(t, w.Tick())
	assert.Zero(t, w.State().AnimationOffsetZ, "ticks while idle do nothing")
}

func TestAdvanceConvertsElapsedTime(t *testing.T) {
	w, _, _ := newTestWorld(t)

	n, err := w.Advance(time.Second)
	require.NoError(t, err)
	assert.Zero(t, n, "no ticks while idle")

	w.BeginAnimation()
	n, err = w.Advance(12 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, float32(-20), w.State().AnimationOffsetZ)

	n, err = w.Advance(3 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the remainder carries over")

	n, err = w.Advance(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 47, n, "stops at the travel limit")
	assert.False(t, w.State().AnimationActive)
}

func TestTickPanicResetsAnimation(t *testing.T) {
	w, _, _ := newTestWorld(t)
	w.Animator().OnTick = func(offsetZ float32) {
		if offsetZ <= -30 {
			panic("tick hook failed")
		}
	}

	w.BeginAnimation()
	require.NoError(t, w.Tick())
	require.NoError(t, w.Tick())
	err := w.Tick()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick hook failed")

	s := w.State()
	assert.False(t, s.AnimationActive)
	assert.Zero(t, s.AnimationOffsetZ)
	assert.False(t, w.Animator().Running())
}

func TestColorSelection(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, ColorForSelection("RED"))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, ColorForSelection("GREEN"))
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, ColorForSelection("BLUE"))
	assert.Equal(t, ColorForSelection("RED"), ColorForSelection("CRVENA"))
	assert.Equal(t, ColorForSelection("GREEN"), ColorForSelection("ZELENA"))
	assert.Equal(t, ColorForSelection("BLUE"), ColorForSelection("PLAVA"))

	for _, name := range []string{"", "purple", "ROT", "42"} {
		assert.Equal(t, Blue, ColorForSelection(name), "fallback for %q", name)
	}
	for _, name := range ColorChoices {
		assert.Equal(t, ColorForSelection(name), ColorForSelection(name))
	}
}

func TestScaleSelection(t *testing.T) {
	for _, want := range ScaleChoices {
		got, ok := ScaleForSelection(strconv.FormatFloat(float64(want), 'f', -1, 32))
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ScaleForSelection("3")
	assert.False(t, ok)
}

func TestLifecycleStateErrors(t *testing.T) {
	w, _, _ := newTestWorld(t)
	rec := gltest.NewRecorder()

	var stateErr *renderer.StateError
	assert.True(t, errors.As(w.Draw(rec), &stateErr))
	assert.True(t, errors.As(w.Resize(rec, 800, 600), &stateErr))
	assert.Empty(t, rec.Calls, "no GL calls before initialize")

	require.NoError(t, w.Initialize(rec))
	assert.ErrorIs(t, w.Initialize(rec), renderer.ErrAlreadyInitialized)

	w.Dispose(rec)
	w.Dispose(rec)
	rec.Reset()
	assert.ErrorIs(t, w.Draw(rec), renderer.ErrNotInitialized)
	assert.Empty(t, rec.Calls)
}

func TestInitializeFailureRollsBack(t *testing.T) {
	assets := testAssets(t)
	plate := &fakeMesh{}
	candle := &fakeMesh{loadErr: &renderer.ResourceLoadError{Kind: "mesh", Path: "candle.obj", Err: os.ErrNotExist}}
	w := New(assets, plate, candle, nil)
	rec := gltest.NewRecorder()

	err := w.Initialize(rec)
	var loadErr *renderer.ResourceLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "mesh", loadErr.Kind)

	assert.False(t, w.Initialized())
	assert.Zero(t, rec.ListCount(), "sphere, text and plate lists released")
	assert.Zero(t, rec.LiveTextures(), "textures released")
	assert.Equal(t, 1, plate.disposed)
	assert.Empty(t, rec.Violations)
}

func TestInitializeMissingTexture(t *testing.T) {
	assets := testAssets(t)
	require.NoError(t, os.Remove(assets.FloorPath()))
	plate, candle := &fakeMesh{}, &fakeMesh{}
	w := New(assets, plate, candle, nil)
	rec := gltest.NewRecorder()

	err := w.Initialize(rec)
	var loadErr *renderer.ResourceLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "texture", loadErr.Kind)
	assert.Equal(t, assets.FloorPath(), loadErr.Path)

	assert.Zero(t, rec.ListCount())
	assert.Zero(t, rec.LiveTextures())
	assert.False(t, plate.loaded, "meshes are not touched after a texture failure")
}

func TestInitializeFontFailure(t *testing.T) {
	w, plate, _ := newTestWorld(t)
	w.text.Font = []byte("not a font")
	rec := gltest.NewRecorder()

	err := w.Initialize(rec)
	var loadErr *renderer.ResourceLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "font", loadErr.Kind)
	assert.Equal(t, "goregular", loadErr.Path)

	assert.False(t, w.Initialized())
	assert.Zero(t, rec.ListCount(), "sphere list released")
	assert.Zero(t, rec.LiveTextures(), "textures released")
	assert.False(t, plate.loaded)
	assert.Empty(t, rec.Violations)
}

func TestDisposeTextureOwnership(t *testing.T) {
	assets := testAssets(t)
	rec := gltest.NewRecorder()

	owned := New(assets, &fakeMesh{}, &fakeMesh{}, nil)
	require.NoError(t, owned.Initialize(rec))
	owned.Dispose(rec)
	assert.Zero(t, rec.LiveTextures())
	assert.Zero(t, owned.textures.GetStats().ActiveTextures, "an owned manager is cleared")

	// a shared manager keeps textures the world did not load
	shared := renderer.NewTextureManager()
	other := assets.BrickPath() + ".other.jpg"
	writeJPEG(t, other)
	_, err := shared.LoadTexture(rec, other)
	require.NoError(t, err)

	w := New(assets, &fakeMesh{}, &fakeMesh{}, shared)
	require.NoError(t, w.Initialize(rec))
	assert.Equal(t, 3, rec.LiveTextures())
	w.Dispose(rec)
	assert.Equal(t, 1, rec.LiveTextures())
	assert.Empty(t, rec.Violations)

	require.NoError(t, owned.Initialize(rec), "an owned manager is reusable after clear")
	assert.Equal(t, 3, rec.LiveTextures())
}

func TestResizeClampsAndStaysFinite(t *testing.T) {
	w, _, _ := newTestWorld(t)
	rec := gltest.NewRecorder()
	require.NoError(t, w.Initialize(rec))

	for _, size := range [][2]int32{{800, 0}, {0, 0}, {640, -10}, {1024, 768}, {1, 0}} {
		require.NoError(t, w.Resize(rec, size[0], size[1]))
		s := w.State()
		assert.GreaterOrEqual(t, s.ViewportHeight, int32(1))
		assert.GreaterOrEqual(t, s.ViewportWidth, int32(1))
		assert.True(t, renderer.IsFinite(rec.Projection()), "size %v", size)
		require.NoError(t, w.Draw(rec))
		assert.True(t, renderer.IsFinite(rec.Projection()), "size %v after draw", size)
	}
	assert.Empty(t, rec.Violations)
}

func TestDrawDuringAnimationOffsetsMeshes(t *testing.T) {
	w, plate, candle := newTestWorld(t)
	rec := gltest.NewRecorder()
	require.NoError(t, w.Initialize(rec))
	require.NoError(t, w.Resize(rec, 800, 600))

	w.BeginAnimation()
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Tick())
	}
	rec.Reset()
	require.NoError(t, w.Draw(rec))

	assert.Equal(t, 1, plate.draws)
	assert.Equal(t, 1, candle.draws)
	offsets := 0
	for _, c := range rec.Calls {
		if c.Name == "Translate" && c.Args[0] == float32(0) && c.Args[2] == float32(-100) {
			offsets++
		}
	}
	assert.Equal(t, 2, offsets, "candle and plate both follow the dolly")
}

func TestEndToEndFrame(t *testing.T) {
	assets := testAssets(t)
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	require.NoError(t, os.WriteFile(assets.PlatePath(), []byte(obj), 0o644))
	require.NoError(t, os.WriteFile(assets.CandlePath(), []byte(obj), 0o644))

	plate := mesh.NewScene(assets.ModelDir, assets.PlateFile)
	candle := mesh.NewScene(assets.ModelDir, assets.CandleFile)
	w := New(assets, plate, candle, nil)
	rec := gltest.NewRecorder()

	require.NoError(t, w.Initialize(rec))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, rec.ClearedColor)
	assert.True(t, rec.Enabled[renderer.DepthTest])
	assert.True(t, rec.Enabled[renderer.CullFace])
	assert.Equal(t, renderer.TexEnvAdd, rec.TexEnvMode)
	assert.Equal(t, 2, rec.LiveTextures())
	assert.Equal(t, 4, rec.ListCount(), "sphere, text, plate and candle")

	require.NoError(t, w.Resize(rec, 800, 600))
	require.NoError(t, w.Draw(rec))
	require.Empty(t, rec.Violations)

	assert.Equal(t, [4]int32{0, 0, 800, 600}, rec.ViewportRect)
	want := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 1, 20000)
	assert.True(t, rec.Projection().ApproxEqual(want), "perspective restored after the text pass")
	assert.Equal(t, renderer.ModelView, rec.Mode)
	assert.Equal(t, mgl32.Ident4(), rec.ModelView())
	assert.Equal(t, 1, rec.Depth(renderer.ModelView))
	assert.Equal(t, 1, rec.Depth(renderer.Projection))
	assert.Equal(t, 1, rec.Clears)
	assert.Equal(t, 1, rec.Flushes)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, rec.Lights[renderer.LightOne][renderer.LightDiffuse])
	assert.False(t, rec.Enabled[renderer.Texture2D], "texturing is off after the floor")
	assert.True(t, rec.Enabled[renderer.Lighting])

	w.SetColor(ColorForSelection("GREEN"))
	require.NoError(t, w.Draw(rec))
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, rec.Lights[renderer.LightOne][renderer.LightDiffuse])
	assert.Equal(t, 2, rec.Clears)

	w.Dispose(rec)
	assert.Zero(t, rec.ListCount())
	assert.Zero(t, rec.LiveTextures())
	assert.Empty(t, rec.Violations)
}
