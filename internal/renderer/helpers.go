package renderer

import "github.com/go-gl/mathgl/mgl32"

// Unwind collects cleanups for resources created during a multi-step setup.
// On failure Unwind releases them in reverse order; on success Discard drops
// them so ownership stays with the caller.
type Unwind []func()

func (u *Unwind) Add(cleanup func()) {
	*u = append(*u, cleanup)
}

func (u *Unwind) Unwind() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = (*u)[:0]
}

func (u *Unwind) Discard() {
	if len(*u) > 0 {
		*u = (*u)[:0]
	}
}

// FaceNormal returns the unit normal of the plane through three points,
// (p2-p1) x (p3-p1). Counter-clockwise points give a front-facing normal.
// Degenerate (collinear) points give the zero vector.
func FaceNormal(p1, p2, p3 mgl32.Vec3) mgl32.Vec3 {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}
