package world

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ScaleChoices are the plate scales offered to the user, in display order.
var ScaleChoices = []float32{0.5, 2, 5, 10, 15, 20}

// ColorChoices are the color selections offered to the user.
var ColorChoices = []string{"RED", "GREEN", "BLUE"}

// ColorForSelection maps a color selection to its RGB triple. The Serbian
// labels CRVENA and ZELENA are accepted too; anything unrecognized is blue.
func ColorForSelection(name string) mgl32.Vec3 {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "RED", "CRVENA":
		return Red
	case "GREEN", "ZELENA":
		return Green
	default:
		return Blue
	}
}

// ScaleForSelection parses a scale selection such as "0.5" or "10". ok is
// false for anything outside ScaleChoices.
func ScaleForSelection(name string) (scale float32, ok bool) {
	switch strings.TrimSpace(name) {
	case "0.5":
		return 0.5, true
	case "2":
		return 2, true
	case "5":
		return 5, true
	case "10":
		return 10, true
	case "15":
		return 15, true
	case "20":
		return 20, true
	}
	return 0, false
}
