package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUnwindRunsInReverse(t *testing.T) {
	var order []int
	var u Unwind
	for i := 1; i <= 3; i++ {
		i := i
		u.Add(func() { order = append(order, i) })
	}
	u.Unwind()

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("cleanups ran as %v, want [3 2 1]", order)
	}

	u.Unwind()
	if len(order) != 3 {
		t.Error("second Unwind should not run cleanups again")
	}
}

func TestUnwindDiscard(t *testing.T) {
	ran := false
	var u Unwind
	u.Add(func() { ran = true })
	u.Discard()
	u.Unwind()
	if ran {
		t.Error("discarded cleanup ran")
	}
}

func TestFaceNormal(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2, p3 mgl32.Vec3
		want       mgl32.Vec3
	}{
		{"xy plane ccw", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{"xy plane cw", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{"scaled", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 40}, mgl32.Vec3{40, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{"collinear", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FaceNormal(tt.p1, tt.p2, tt.p3)
			if !got.ApproxEqual(tt.want) {
				t.Errorf("FaceNormal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnclosureQuads(t *testing.T) {
	quads := EnclosureQuads()
	if len(quads) != 5 {
		t.Fatalf("got %d quads, want floor and four walls", len(quads))
	}

	floor := quads[0]
	if floor.Slot != SlotFloor || floor.Normal != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("first quad should be the floor facing up, got slot %d normal %v", floor.Slot, floor.Normal)
	}
	if floor.Vertices[2].UV != (mgl32.Vec2{3, 3}) {
		t.Errorf("floor texture should tile three times, got %v", floor.Vertices[2].UV)
	}

	for i, q := range quads[1:] {
		if q.Slot != SlotBrick {
			t.Errorf("wall %d uses slot %d", i, q.Slot)
		}
		if l := q.Normal.Len(); l < 0.999 || l > 1.001 {
			t.Errorf("wall %d normal %v is not unit length", i, q.Normal)
		}
		if q.Normal[1] != 0 {
			t.Errorf("wall %d normal %v is not horizontal", i, q.Normal)
		}
		// every corner lies in the plane the normal describes
		d := q.Normal.Dot(q.Vertices[0].Position)
		for _, v := range q.Vertices[1:] {
			if diff := q.Normal.Dot(v.Position) - d; diff > 1e-3 || diff < -1e-3 {
				t.Errorf("wall %d is not planar", i)
			}
		}
	}
}

func TestSphereRings(t *testing.T) {
	s := &Sphere{Radius: 5, Slices: 8, Stacks: 4}
	rings := s.Rings()
	if len(rings) != 5 {
		t.Fatalf("got %d rings, want stacks+1", len(rings))
	}
	for i, ring := range rings {
		if len(ring) != 9 {
			t.Fatalf("ring %d has %d points, want slices+1", i, len(ring))
		}
		for _, n := range ring {
			if l := n.Len(); l < 0.999 || l > 1.001 {
				t.Fatalf("ring %d normal %v not unit length", i, n)
			}
		}
		if ring[0] != ring[len(ring)-1] {
			t.Errorf("ring %d is not closed", i)
		}
	}
	north, south := rings[0][0], rings[4][0]
	if !north.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6) || !south.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("poles should be on the Z axis, got %v and %v", north, south)
	}
}

func TestClampShininess(t *testing.T) {
	for in, want := range map[float32]float32{-1: 0, 0: 0, 64: 64, 128: 128, 900: 128} {
		if got := clampShininess(in); got != want {
			t.Errorf("clampShininess(%v) = %v, want %v", in, got, want)
		}
	}
}
