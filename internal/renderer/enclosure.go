package renderer

import "github.com/go-gl/mathgl/mgl32"

const (
	EnclosureScale   float32 = 30
	enclosureHalf    float32 = 20
	enclosureHeight  float32 = 20
	enclosureDrop    float32 = -3
	floorTextureTile float32 = 3
)

type SlotName int

const (
	SlotBrick SlotName = iota
	SlotFloor
)

type TexturedVertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
}

// Quad is one textured face of the enclosure.
type Quad struct {
	Slot     SlotName
	Normal   mgl32.Vec3
	Vertices [4]TexturedVertex
}

// EnclosureQuads returns the wooden floor followed by the right, left, front
// and back brick walls, in enclosure units (before the x30 scale).
func EnclosureQuads() []Quad {
	h, y := enclosureHalf, enclosureHeight
	wall := func(a, b, c, d mgl32.Vec3) Quad {
		return Quad{
			Slot:   SlotBrick,
			Normal: FaceNormal(a, b, c),
			Vertices: [4]TexturedVertex{
				{a, mgl32.Vec2{0, 0}},
				{b, mgl32.Vec2{1, 0}},
				{c, mgl32.Vec2{1, 1}},
				{d, mgl32.Vec2{0, 1}},
			},
		}
	}

	floor := Quad{
		Slot:   SlotFloor,
		Normal: mgl32.Vec3{0, 1, 0},
		Vertices: [4]TexturedVertex{
			{mgl32.Vec3{-h, 0, h}, mgl32.Vec2{0, 0}},
			{mgl32.Vec3{-h, 0, -h}, mgl32.Vec2{0, floorTextureTile}},
			{mgl32.Vec3{h, 0, -h}, mgl32.Vec2{floorTextureTile, floorTextureTile}},
			{mgl32.Vec3{h, 0, h}, mgl32.Vec2{floorTextureTile, 0}},
		},
	}

	return []Quad{
		floor,
		wall(mgl32.Vec3{h, y, -h}, mgl32.Vec3{h, y, h}, mgl32.Vec3{h, 0, h}, mgl32.Vec3{h, 0, -h}),
		wall(mgl32.Vec3{-h, y, h}, mgl32.Vec3{-h, y, -h}, mgl32.Vec3{-h, 0, -h}, mgl32.Vec3{-h, 0, h}),
		wall(mgl32.Vec3{h, y, h}, mgl32.Vec3{-h, y, h}, mgl32.Vec3{-h, 0, h}, mgl32.Vec3{h, 0, h}),
		wall(mgl32.Vec3{-h, y, -h}, mgl32.Vec3{h, y, -h}, mgl32.Vec3{h, 0, -h}, mgl32.Vec3{-h, 0, -h}),
	}
}

// Enclosure draws the floor and walls from the two texture slots.
type Enclosure struct {
	quads    []Quad
	textures map[SlotName]uint32
}

func NewEnclosure(brick, floor TextureSlot) *Enclosure {
	return &Enclosure{
		quads: EnclosureQuads(),
		textures: map[SlotName]uint32{
			SlotBrick: brick.ID,
			SlotFloor: floor.ID,
		},
	}
}

// Draw scales the current modelview matrix by EnclosureScale and leaves it
// scaled; only the drop below the origin is pushed and popped.
func (e *Enclosure) Draw(ctx Context) {
	ctx.MatrixMode(ModelView)
	ctx.Scale(EnclosureScale, EnclosureScale, EnclosureScale)

	ctx.PushMatrix()
	ctx.Translate(0, enclosureDrop, 0)

	bound := SlotName(-1)
	open := false
	for _, q := range e.quads {
		if q.Slot != bound {
			if open {
				ctx.End()
			}
			ctx.BindTexture(e.textures[q.Slot])
			ctx.Begin(Quads)
			bound, open = q.Slot, true
		}
		ctx.Normal3(q.Normal[0], q.Normal[1], q.Normal[2])
		for _, v := range q.Vertices {
			ctx.TexCoord2(v.UV[0], v.UV[1])
			ctx.Vertex3(v.Position[0], v.Position[1], v.Position[2])
		}
	}
	if open {
		ctx.End()
	}

	ctx.PopMatrix()
}
