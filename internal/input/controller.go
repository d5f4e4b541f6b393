// Package input maps key presses and selections onto World mutators.
package input

import (
	"strconv"

	"PlateCandle/internal/logger"
	"PlateCandle/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyF5
	KeyEscape
	KeyT
	KeyG
	KeyF
	KeyH
	KeyA
	KeyD
	KeyC
	KeyR
	KeyAdd
	KeySubtract
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

const (
	RotationStep float32 = 5
	DistanceStep float32 = 500
)

// Scene is the part of World the controller drives.
type Scene interface {
	State() world.RenderState
	TiltBy(delta float32)
	YawBy(delta float32)
	RotateSecondaryBy(delta float32)
	IncreaseDistance(step float32)
	DecreaseDistance(step float32)
	SetScale(scale float32)
	SetColor(c mgl32.Vec3)
	BeginAnimation()
}

// Action is what a key press asks of the host beyond scene changes.
type Action int

const (
	ActionNone Action = iota
	ActionClose
)

// Controller holds the UI-side state that has no place in the scene: the
// secondary rotation gate and the current selections.
type Controller struct {
	scene Scene

	// SecondaryRotationEnabled gates both secondary rotation keys.
	SecondaryRotationEnabled bool
	ColorSelection           string
	ScaleSelection           string
}

func NewController(scene Scene) *Controller {
	return &Controller{
		scene:                    scene,
		SecondaryRotationEnabled: true,
		ColorSelection:           world.ColorChoices[0],
		ScaleSelection:           "2",
	}
}

// KeyPressed applies a key. While an animation runs every key is ignored,
// including close.
func (c *Controller) KeyPressed(k Key) Action {
	if c.scene.State().AnimationActive {
		logger.Log.Debug("Key ignored during animation", zap.Int("key", int(k)))
		return ActionNone
	}

	switch k {
	case KeyF5, KeyEscape:
		return ActionClose
	case KeyT:
		c.scene.TiltBy(RotationStep)
	case KeyG:
		c.scene.TiltBy(-RotationStep)
	case KeyF:
		c.scene.YawBy(-RotationStep)
	case KeyH:
		c.scene.YawBy(RotationStep)
	case KeyA:
		if c.SecondaryRotationEnabled {
			c.scene.RotateSecondaryBy(-RotationStep)
		}
	case KeyD:
		if c.SecondaryRotationEnabled {
			c.scene.RotateSecondaryBy(RotationStep)
		}
	case KeyAdd:
		c.scene.IncreaseDistance(DistanceStep)
	case KeySubtract:
		c.scene.DecreaseDistance(DistanceStep)
	case KeyC:
		c.scene.BeginAnimation()
	case KeyR:
		c.ToggleSecondaryRotation()
	case Key1, Key2, Key3:
		c.SelectColor(world.ColorChoices[k-Key1])
	case Key4, Key5, Key6, Key7, Key8, Key9:
		c.SelectScale(formatScale(world.ScaleChoices[k-Key4]))
	}
	return ActionNone
}

// SelectColor applies a color selection; unknown names select blue.
func (c *Controller) SelectColor(name string) {
	c.ColorSelection = name
	c.scene.SetColor(world.ColorForSelection(name))
}

// SelectScale applies a scale selection. Unknown values leave the scale as
// it was and report false.
func (c *Controller) SelectScale(name string) bool {
	scale, ok := world.ScaleForSelection(name)
	if !ok {
		logger.Log.Warn("Unknown scale selection", zap.String("selection", name))
		return false
	}
	c.ScaleSelection = name
	c.scene.SetScale(scale)
	return true
}

// ToggleSecondaryRotation flips the gate, shown to the user as DA/NE.
func (c *Controller) ToggleSecondaryRotation() {
	c.SecondaryRotationEnabled = !c.SecondaryRotationEnabled
	logger.Log.Info("Secondary rotation", zap.String("enabled", c.GateLabel()))
}

func (c *Controller) GateLabel() string {
	if c.SecondaryRotationEnabled {
		return "DA"
	}
	return "NE"
}

func formatScale(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

var _ Scene = (*world.World)(nil)
