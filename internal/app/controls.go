package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objbatch/pkg/math"
)

// Rotation applied to every entity per press of the rotate key (radians).
const (
	rotateStepX = 0.05
	rotateStepY = 0.0872665
	rotateStepZ = 0.05
)

// Key bindings.
const (
	KeyQuit       = sdl.SCANCODE_ESCAPE
	KeyRotate     = sdl.SCANCODE_A
	KeyScreenshot = sdl.SCANCODE_F12
)

// moveBindings maps held keys to camera directions.
var moveBindings = []struct {
	key sdl.Scancode
	dir math.Vec3
}{
	{sdl.SCANCODE_UP, math.Vec3{Z: -1}},
	{sdl.SCANCODE_DOWN, math.Vec3{Z: 1}},
	{sdl.SCANCODE_LEFT, math.Vec3{X: -1}},
	{sdl.SCANCODE_RIGHT, math.Vec3{X: 1}},
	{sdl.SCANCODE_PAGEUP, math.Vec3{Y: 1}},
	{sdl.SCANCODE_PAGEDOWN, math.Vec3{Y: -1}},
}

// Keys reports keyboard state for one frame.
type Keys interface {
	IsKeyPressed(sdl.Scancode) bool
	IsKeyHeld(sdl.Scancode) bool
}

// HandleInput applies one frame of keyboard state: the rotate key turns every
// entity, held movement keys move the camera at speed units per second.
func (s *Scene) HandleInput(keys Keys, speed, dt float32) {
	if keys.IsKeyPressed(KeyRotate) {
		for _, e := range s.Entities {
			e.IncreaseRotation(rotateStepX, rotateStepY, rotateStepZ)
		}
	}

	var dir math.Vec3
	for _, b := range moveBindings {
		if keys.IsKeyHeld(b.key) {
			dir = dir.Add(b.dir)
		}
	}
	if dir != (math.Vec3{}) {
		s.Camera.Move(dir.Normalize().Scale(speed * dt))
	}
}
