// Package world composes the plate and candle scene: it owns the render
// parameters, the GL resources created at initialization and the fixed
// per-frame draw sequence.
package world

import (
	"fmt"
	"time"

	"PlateCandle/internal/config"
	"PlateCandle/internal/logger"
	"PlateCandle/internal/mesh"
	"PlateCandle/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	sphereHeight  float32 = 120
	candleScale   float32 = 10
	candleUpright float32 = -90
	plateLift     float32 = 10
)

// World is the scene composer. All methods must be called on the thread that
// owns the graphics context.
type World struct {
	assets config.AssetConfig
	plate  mesh.Mesh
	candle mesh.Mesh

	state    RenderState
	camera   *renderer.Camera
	animator *Animator

	textures *renderer.TextureManager
	// ownsTextures is set when New created the manager, Dispose then clears it.
	ownsTextures bool

	brick     renderer.TextureSlot
	floor     renderer.TextureSlot
	sphere    *renderer.Sphere
	enclosure *renderer.Enclosure
	text      *renderer.OverlayText

	initialized bool
}

// New builds an uninitialized World. textures may be nil.
func New(assets config.AssetConfig, plate, candle mesh.Mesh, textures *renderer.TextureManager) *World {
	ownsTextures := textures == nil
	if ownsTextures {
		textures = renderer.NewTextureManager()
	}
	state := DefaultState()
	return &World{
		assets:       assets,
		plate:        plate,
		candle:       candle,
		state:        state,
		camera:       renderer.NewPerspectiveCamera(state.ViewportWidth, state.ViewportHeight),
		animator:     NewAnimator(),
		textures:     textures,
		ownsTextures: ownsTextures,
		sphere:       renderer.NewCandleSphere(),
		text:         renderer.NewOverlayText(),
	}
}

func (w *World) State() RenderState { return w.state }

func (w *World) Camera() *renderer.Camera { return w.camera }

func (w *World) Animator() *Animator { return w.animator }

func (w *World) Initialized() bool { return w.initialized }

// Initialize sets the fixed GL state and creates every GPU resource. On
// failure everything created so far is released and the error returned.
func (w *World) Initialize(ctx renderer.Context) (err error) {
	if w.initialized {
		return renderer.NewStateError("initialize world", renderer.ErrAlreadyInitialized)
	}

	var undo renderer.Unwind
	defer func() {
		if err != nil {
			undo.Unwind()
		}
	}()

	ctx.ClearColor(0, 0, 0, 1)
	ctx.Enable(renderer.DepthTest)
	ctx.Enable(renderer.CullFace)
	ctx.FrontFaceCCW()
	renderer.SetupLighting(ctx)

	w.sphere.CreateInContext(ctx)
	undo.Add(func() { w.sphere.Delete(ctx) })
	w.sphere.BindMaterial(ctx)

	ctx.Enable(renderer.Texture2D)
	ctx.TexEnv(renderer.TexEnvAdd)

	if w.brick, err = w.textures.LoadTexture(ctx, w.assets.BrickPath()); err != nil {
		return err
	}
	brickID := w.brick.ID
	undo.Add(func() { w.textures.ReleaseTexture(ctx, brickID) })

	if w.floor, err = w.textures.LoadTexture(ctx, w.assets.FloorPath()); err != nil {
		return err
	}
	floorID := w.floor.ID
	undo.Add(func() { w.textures.ReleaseTexture(ctx, floorID) })
	w.enclosure = renderer.NewEnclosure(w.brick, w.floor)

	if err = w.text.Bake(ctx); err != nil {
		return &renderer.ResourceLoadError{Kind: "font", Path: w.text.FontName, Err: err}
	}
	undo.Add(func() { w.text.Delete(ctx) })

	for _, m := range []struct {
		name string
		mesh mesh.Mesh
	}{{"plate", w.plate}, {"candle", w.candle}} {
		if err = m.mesh.Load(); err != nil {
			return err
		}
		if err = m.mesh.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize %s: %w", m.name, err)
		}
		mm := m.mesh
		undo.Add(func() { mm.Dispose(ctx) })
	}

	w.animator.Stop()
	undo.Discard()
	w.initialized = true
	w.textures.LogStats()
	logger.Log.Info("World initialized",
		zap.Uint32("brickTexture", w.brick.ID),
		zap.Uint32("floorTexture", w.floor.ID))
	return nil
}

// Resize stores the viewport size and loads the perspective projection.
// Dimensions below 1 are clamped to 1.
func (w *World) Resize(ctx renderer.Context, width, height int32) error {
	if !w.initialized {
		return renderer.NewStateError("resize world", renderer.ErrNotInitialized)
	}
	w.camera.SetViewport(width, height)
	w.state.ViewportWidth = w.camera.Width
	w.state.ViewportHeight = w.camera.Height
	w.camera.ApplyProjection(ctx)
	return nil
}

// Draw renders one frame. It leaves the perspective projection loaded and
// the modelview matrix reset, so the next frame starts from the same state.
func (w *World) Draw(ctx renderer.Context) error {
	if !w.initialized {
		return renderer.NewStateError("draw world", renderer.ErrNotInitialized)
	}
	s := w.state

	ctx.Clear()
	ctx.PushMatrix()

	w.camera.LookAt(s.Eye(), s.Center())
	w.camera.ApplyView(ctx)
	ctx.Translate(0, 0, worldDepth)
	ctx.Rotate(s.RotationX, 1, 0, 0)
	ctx.Rotate(s.RotationY, 0, 1, 0)

	ctx.Disable(renderer.Texture2D)
	ctx.Color3(s.Color[0], s.Color[1], s.Color[2])
	renderer.SetCandleLight(ctx, s.Color)

	err := w.drawCandle(ctx, s)
	if err == nil {
		err = w.drawPlate(ctx, s)
	}
	if err == nil {
		ctx.Enable(renderer.Texture2D)
		ctx.Color3(floorTint[0], floorTint[1], floorTint[2])
		w.enclosure.Draw(ctx)
		ctx.Disable(renderer.Texture2D)
		err = w.text.Draw(ctx)
	}

	ctx.PopMatrix()
	w.camera.ApplyProjection(ctx)
	ctx.Flush()
	return err
}

func (w *World) drawCandle(ctx renderer.Context, s RenderState) error {
	ctx.PushMatrix()
	defer ctx.PopMatrix()

	if s.AnimationActive {
		ctx.Translate(s.AnimationOffsetX, 0, s.AnimationOffsetZ)
	}
	ctx.Light(renderer.LightOne, renderer.LightPosition, renderer.Light1Position)

	w.sphere.BindMaterial(ctx)
	ctx.Translate(0, sphereHeight, 0)
	if err := w.sphere.Render(ctx); err != nil {
		return err
	}
	ctx.Translate(0, -sphereHeight, 0)

	ctx.Rotate(s.SecondaryRotation, 0, 1, 0)
	ctx.Scale(candleScale, candleScale, candleScale)
	ctx.Rotate(candleUpright, 1, 0, 0)
	return w.candle.Draw(ctx)
}

func (w *World) drawPlate(ctx renderer.Context, s RenderState) error {
	ctx.PushMatrix()
	defer ctx.PopMatrix()

	if s.AnimationActive {
		ctx.Translate(s.AnimationOffsetX, 0, s.AnimationOffsetZ)
	}
	ctx.Rotate(s.SecondaryRotation, 0, 1, 0)
	ctx.Scale(s.Scale, s.Scale, s.Scale)
	ctx.Translate(0, plateLift, 0)
	return w.plate.Draw(ctx)
}

// Dispose releases every GPU resource. It is safe to call more than once.
func (w *World) Dispose(ctx renderer.Context) {
	if !w.initialized {
		return
	}
	w.animator.Stop()
	w.plate.Dispose(ctx)
	w.candle.Dispose(ctx)
	if w.ownsTextures {
		w.textures.Clear(ctx)
	} else {
		w.textures.ReleaseTexture(ctx, w.brick.ID)
		w.textures.ReleaseTexture(ctx, w.floor.ID)
	}
	w.sphere.Delete(ctx)
	w.text.Delete(ctx)
	w.enclosure = nil
	w.initialized = false
	logger.Log.Info("World disposed")
}

// BeginAnimation resets the pose and (re)starts the camera dolly.
func (w *World) BeginAnimation() {
	w.state.RotationX = 0
	w.state.RotationY = 0
	w.state.SceneDistance = StartDistance
	w.state.AnimationOffsetX = 0
	w.state.AnimationOffsetZ = 0
	w.state.AnimationActive = true
	w.animator.Start()
}

// Tick advances the animation by one step. A panic during the step stops
// the animation, resets its state and is returned as an error.
func (w *World) Tick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.animator.reset(&w.state)
			err = fmt.Errorf("animation tick: %v", r)
			logger.Log.Error("Animation stopped", zap.Error(err))
		}
	}()
	w.animator.step(&w.state)
	return nil
}

// Advance delivers every tick due after elapsed wall time and returns how
// many were run.
func (w *World) Advance(elapsed time.Duration) (int, error) {
	due := w.animator.Due(elapsed)
	for i := 0; i < due; i++ {
		if !w.animator.Running() {
			return i, nil
		}
		if err := w.Tick(); err != nil {
			return i + 1, err
		}
	}
	return due, nil
}

// TiltBy changes the tilt by delta, keeping it within [MinTilt, MaxTilt].
func (w *World) TiltBy(delta float32) {
	w.state.RotationX = clampTilt(w.state.RotationX + delta)
}

func (w *World) SetRotationX(deg float32) {
	w.state.RotationX = clampTilt(deg)
}

func (w *World) YawBy(delta float32) {
	w.state.RotationY += delta
}

func (w *World) SetRotationY(deg float32) {
	w.state.RotationY = deg
}

func (w *World) RotateSecondaryBy(delta float32) {
	w.state.SecondaryRotation += delta
}

func (w *World) SetSecondaryRotation(deg float32) {
	w.state.SecondaryRotation = deg
}

// IncreaseDistance moves the camera back by step, never past
// MaxIncreaseDistance. A distance already beyond it is left alone.
func (w *World) IncreaseDistance(step float32) {
	if w.state.SceneDistance >= MaxIncreaseDistance {
		return
	}
	w.state.SceneDistance += step
	if w.state.SceneDistance > MaxIncreaseDistance {
		w.state.SceneDistance = MaxIncreaseDistance
	}
}

// DecreaseDistance has no lower bound.
func (w *World) DecreaseDistance(step float32) {
	w.state.SceneDistance -= step
}

func (w *World) SetSceneDistance(d float32) {
	w.state.SceneDistance = d
}

func (w *World) SetScale(scale float32) {
	w.state.Scale = scale
}

func (w *World) SetColor(c mgl32.Vec3) {
	w.state.Color = c
}

// SetAnimationActive only flips the flag; use BeginAnimation to run the dolly.
func (w *World) SetAnimationActive(active bool) {
	w.state.AnimationActive = active
}
