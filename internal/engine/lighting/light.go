// Package lighting holds the scene light record.
package lighting

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/objbatch/pkg/math"
)

// UniformSize is the std140 size of Light: two vec3s, each padded to 16 bytes.
const UniformSize = 32

// Light is a point light. The renderer accepts it every frame but does not
// shade with it yet.
type Light struct {
	Position math.Vec3
	Colour   math.Vec3
}

// New returns a white light at position.
func New(position math.Vec3) Light {
	return Light{Position: position, Colour: math.Splat(1)}
}

// Bytes returns the uniform form: position, pad, colour, pad.
func (l Light) Bytes() []byte {
	buf := make([]byte, UniformSize)
	put := func(off int, v math.Vec3) {
		binary.LittleEndian.PutUint32(buf[off:], gomath.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[off+4:], gomath.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(buf[off+8:], gomath.Float32bits(v.Z))
	}
	put(0, l.Position)
	put(16, l.Colour)
	return buf
}
