package world

import "github.com/go-gl/mathgl/mgl32"

const (
	MinTilt float32 = 15
	MaxTilt float32 = 40

	// MaxIncreaseDistance is the soft ceiling applied by IncreaseDistance.
	MaxIncreaseDistance float32 = 1500

	StartDistance float32 = 2000
	DefaultScale  float32 = 2

	// worldDepth pushes the whole scene away from the eye.
	worldDepth float32 = -2000
)

var (
	Red   = mgl32.Vec3{1, 0, 0}
	Green = mgl32.Vec3{0, 1, 0}
	Blue  = mgl32.Vec3{0, 0, 1}

	// floorTint is the flat color the enclosure textures are added to.
	floorTint = mgl32.Vec3{0.5, 0.5, 0.5}
)

// RenderState is every parameter the draw sequence reads.
type RenderState struct {
	RotationX         float32 // scene tilt, degrees
	RotationY         float32 // scene yaw, degrees
	SecondaryRotation float32 // yaw of the candle and plate only
	SceneDistance     float32
	Scale             float32 // plate scale
	Color             mgl32.Vec3

	AnimationActive  bool
	AnimationOffsetX float32
	AnimationOffsetZ float32

	ViewportWidth  int32
	ViewportHeight int32
}

func DefaultState() RenderState {
	return RenderState{
		SceneDistance:  StartDistance,
		Scale:          DefaultScale,
		Color:          Red,
		ViewportWidth:  800,
		ViewportHeight: 600,
	}
}

// Eye is the camera position for the current distance and dolly offset.
func (s RenderState) Eye() mgl32.Vec3 {
	return mgl32.Vec3{0, 200, -s.SceneDistance + s.AnimationOffsetZ + 180}
}

// Center is the point the camera looks at; it travels with the dolly.
func (s RenderState) Center() mgl32.Vec3 {
	return mgl32.Vec3{s.AnimationOffsetX, 100, worldDepth + s.AnimationOffsetZ}
}

func clampTilt(v float32) float32 {
	return mgl32.Clamp(v, MinTilt, MaxTilt)
}
