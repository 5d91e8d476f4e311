// Package entity places a textured model in the world.
package entity

import (
	gomath "math"

	"github.com/Faultbox/objbatch/internal/engine/model"
	"github.com/Faultbox/objbatch/pkg/math"
)

// Entity is one drawn instance of a TexturedModel.
type Entity struct {
	model        *model.TexturedModel
	position     math.Vec3
	rotX         float32
	rotY         float32
	rotZ         float32
	scale        float32
	textureIndex uint32
}

// New places m at position with Euler rotation (radians, XYZ order), uniform
// scale and atlas cell textureIndex.
func New(m *model.TexturedModel, position math.Vec3, rx, ry, rz, scale float32, textureIndex uint32) *Entity {
	return &Entity{
		model:        m,
		position:     position,
		rotX:         rx,
		rotY:         ry,
		rotZ:         rz,
		scale:        scale,
		textureIndex: textureIndex,
	}
}

func (e *Entity) Model() *model.TexturedModel { return e.model }
func (e *Entity) Position() math.Vec3 { return e.position }
func (e *Entity) Scale() float32 { return e.scale }
func (e *Entity) TextureIndex() uint32 { return e.textureIndex }

// Rotation returns the Euler angles in radians.
func (e *Entity) Rotation() (x, y, z float32) {
	return e.rotX, e.rotY, e.rotZ
}

// IncreasePosition moves the entity by (dx, dy, dz).
func (e *Entity) IncreasePosition(dx, dy, dz float32) {
	e.position = e.position.Add(math.Vec3{X: dx, Y: dy, Z: dz})
}

// IncreaseRotation adds to the Euler angles.
func (e *Entity) IncreaseRotation(dx, dy, dz float32) {
	e.rotX += dx
	e.rotY += dy
	e.rotZ += dz
}

// SetPosition moves the entity to p.
func (e *Entity) SetPosition(p math.Vec3) { e.position = p }

// SetScale sets the uniform scale.
func (e *Entity) SetScale(s float32) { e.scale = s }

// SetTextureIndex selects the atlas cell.
func (e *Entity) SetTextureIndex(i uint32) { e.textureIndex = i }

// TransformationMatrix returns translate * rotate(XYZ) * scale.
func (e *Entity) TransformationMatrix() math.Mat4 {
	return math.FromScaleRotationTranslation(
		math.Splat(e.scale),
		math.QuatFromEulerXYZ(e.rotX, e.rotY, e.rotZ),
		e.position,
	)
}

// TextureOffset returns the UV offset of the entity's atlas cell. The atlas
// is a rows x rows grid filled row by row; indices past the last cell wrap.
// Both components stay in [0, 1) for any row count.
func (e *Entity) TextureOffset() math.Vec2 {
	rows := e.model.Texture().NumberOfRows()
	if rows == 0 {
		rows = 1
	}
	column := e.textureIndex % rows
	row := (e.textureIndex / rows) % rows
	return math.Vec2{
		X: cellFraction(column, rows),
		Y: cellFraction(row, rows),
	}
}

// cellFraction returns n/rows, rounded down below 1 when float32 cannot
// represent the gap.
func cellFraction(n, rows uint32) float32 {
	f := float32(float64(n) / float64(rows))
	if f >= 1 {
		return gomath.Nextafter32(1, 0)
	}
	return f
}
