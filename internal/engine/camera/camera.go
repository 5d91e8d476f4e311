// Package camera provides the free-flying view camera.
package camera

import (
	"github.com/Faultbox/objbatch/pkg/math"
)

// Camera is a position plus pitch/yaw/roll (radians, applied X then Y then Z).
type Camera struct {
	Position math.Vec3
	Pitch    float32
	Yaw      float32
	Roll     float32
}

// New returns a camera at position looking down -Z.
func New(position math.Vec3) *Camera {
	return &Camera{Position: position}
}

// Rotation returns the camera orientation.
func (c *Camera) Rotation() math.Quat {
	return math.QuatFromEulerXYZ(c.Pitch, c.Yaw, c.Roll)
}

// ViewMatrix returns the inverse of the camera's world transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.FromRotationTranslation(c.Rotation(), c.Position).Inverse()
}

// Move translates the camera by delta in world space.
func (c *Camera) Move(delta math.Vec3) {
	c.Position = c.Position.Add(delta)
}

// Rotate adds to pitch, yaw and roll.
func (c *Camera) Rotate(dPitch, dYaw, dRoll float32) {
	c.Pitch += dPitch
	c.Yaw += dYaw
	c.Roll += dRoll
}
