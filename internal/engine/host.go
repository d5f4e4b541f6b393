// Package engine hosts the World in a glfw window: it owns the GL context,
// forwards window events and pumps animation ticks between frames.
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"PlateCandle/internal/config"
	"PlateCandle/internal/input"
	"PlateCandle/internal/logger"
	"PlateCandle/internal/renderer"
	"PlateCandle/internal/renderer/opengl"
	"PlateCandle/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

// Host runs one World on the calling OS thread.
type Host struct {
	Window config.WindowConfig
	World  *world.World

	controller *input.Controller
	window     *glfw.Window
	ctx        *opengl.Context
}

func NewHost(cfg config.WindowConfig, w *world.World) *Host {
	return &Host{
		Window:     cfg,
		World:      w,
		controller: input.NewController(w),
	}
}

// Run opens the window, initializes the world and renders until the window
// is closed. It blocks and must be called from the main goroutine.
func (h *Host) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	win, err := glfw.CreateWindow(int(h.Window.Width), int(h.Window.Height), h.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	h.window = win
	defer win.Destroy()

	win.MakeContextCurrent()
	glfw.SwapInterval(1)
	if h.Window.PosX >= 0 && h.Window.PosY >= 0 {
		win.SetPos(h.Window.PosX, h.Window.PosY)
	}

	if h.ctx, err = opengl.Init(); err != nil {
		showError(err)
		return err
	}

	if err := h.World.Initialize(h.ctx); err != nil {
		logger.Log.Error("Scene initialization failed", zap.Error(err))
		showError(err)
		return err
	}
	defer h.World.Dispose(h.ctx)

	fbw, fbh := win.GetFramebufferSize()
	h.resize(fbw, fbh)

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		h.resize(width, height)
	})
	win.SetKeyCallback(h.keyCallback)

	h.loop()
	return nil
}

func (h *Host) loop() {
	last := time.Now()
	for !h.window.ShouldClose() {
		now := time.Now()
		if _, err := h.World.Advance(now.Sub(last)); err != nil {
			logger.Log.Error("Animation tick failed", zap.Error(err))
		}
		last = now

		if err := h.World.Draw(h.ctx); err != nil {
			logFrameError("draw", err)
		}
		h.window.SwapBuffers()
		glfw.PollEvents()
	}
	logger.Log.Info("Window closed")
}

func (h *Host) resize(width, height int) {
	if err := h.World.Resize(h.ctx, int32(width), int32(height)); err != nil {
		logFrameError("resize", err)
	}
}

func (h *Host) keyCallback(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	k := translateKey(key)
	if k == input.KeyUnknown {
		return
	}
	if h.controller.KeyPressed(k) == input.ActionClose {
		w.SetShouldClose(true)
	}
}

// StateErrors are contract violations that should not stop rendering.
func logFrameError(op string, err error) {
	var stateErr *renderer.StateError
	if errors.As(err, &stateErr) {
		logger.Log.Warn("Scene call out of order", zap.String("op", op), zap.Error(err))
		return
	}
	logger.Log.Error("Frame failed", zap.String("op", op), zap.Error(err))
}

func showError(err error) {
	dialog.Message("Scene could not be created.\n\n%v", err).Title("Plate & Candle").Error()
}

var keyMap = map[glfw.Key]input.Key{
	glfw.KeyF5:         input.KeyF5,
	glfw.KeyEscape:     input.KeyEscape,
	glfw.KeyT:          input.KeyT,
	glfw.KeyG:          input.KeyG,
	glfw.KeyF:          input.KeyF,
	glfw.KeyH:          input.KeyH,
	glfw.KeyA:          input.KeyA,
	glfw.KeyD:          input.KeyD,
	glfw.KeyC:          input.KeyC,
	glfw.KeyR:          input.KeyR,
	glfw.KeyKPAdd:      input.KeyAdd,
	glfw.KeyEqual:      input.KeyAdd,
	glfw.KeyKPSubtract: input.KeySubtract,
	glfw.KeyMinus:      input.KeySubtract,
	glfw.Key1:          input.Key1,
	glfw.Key2:          input.Key2,
	glfw.Key3:          input.Key3,
	glfw.Key4:          input.Key4,
	glfw.Key5:          input.Key5,
	glfw.Key6:          input.Key6,
	glfw.Key7:          input.Key7,
	glfw.Key8:          input.Key8,
	glfw.Key9:          input.Key9,
}

func translateKey(k glfw.Key) input.Key {
	if mapped, ok := keyMap[k]; ok {
		return mapped
	}
	return input.KeyUnknown
}
