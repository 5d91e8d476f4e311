package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/engine/renderer"
	"github.com/Faultbox/objbatch/internal/engine/screenshot"
	"github.com/Faultbox/objbatch/internal/logger"
)

// Surface is the presentation target.
type Surface interface {
	// Acquire returns the target size, gpu.ErrSurfaceHidden or
	// gpu.ErrSurfaceLost.
	Acquire() (int, int, error)
	// Reconfigure adopts the current target size.
	Reconfigure() (int, int)
	Present()
}

// Backend opens and closes a frame's draw pass.
type Backend interface {
	BeginFrame(width, height int) gpu.Pass
	EndFrame() error
	// ReadPixels returns the finished frame as bottom-up RGBA rows.
	ReadPixels(width, height int) []byte
}

// Frame draws the scene once per call.
type Frame struct {
	surface Surface
	backend Backend
	queue   gpu.Queue
	master  *renderer.MasterRenderer
	scene   *Scene
	log     *zap.Logger

	capture     *screenshot.Capturer
	captureNext bool
	hidden      bool
}

// NewFrame wires a frame renderer.
func NewFrame(surface Surface, backend Backend, queue gpu.Queue, master *renderer.MasterRenderer, scene *Scene) *Frame {
	return &Frame{
		surface: surface,
		backend: backend,
		queue:   queue,
		master:  master,
		scene:   scene,
		log:     logger.Named("frame"),
	}
}

// SetCapturer enables screenshots through c.
func (f *Frame) SetCapturer(c *screenshot.Capturer) { f.capture = c }

// RequestScreenshot captures the next successfully drawn frame.
func (f *Frame) RequestScreenshot() {
	if f.capture == nil {
		f.log.Warn("screenshot requested but capture is disabled")
		return
	}
	f.captureNext = true
}

// Render resubmits every entity and draws one frame. gpu.ErrSurfaceLost
// means nothing was drawn and Recover should be called.
func (f *Frame) Render() error {
	f.master.Clear()
	for _, e := range f.scene.Entities {
		f.master.AddEntity(e)
	}

	width, height, err := f.surface.Acquire()
	if err != nil {
		return err
	}

	pass := f.backend.BeginFrame(width, height)
	renderErr := f.master.Render(pass, f.queue, f.scene.Light, f.scene.Camera)
	endErr := f.backend.EndFrame()
	if err := errors.Join(renderErr, endErr); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	if f.captureNext {
		f.captureNext = false
		f.saveScreenshot(width, height)
	}
	f.surface.Present()
	return nil
}

func (f *Frame) saveScreenshot(width, height int) {
	path, err := f.capture.FromPixels(f.backend.ReadPixels(width, height), width, height)
	if err != nil {
		f.log.Error("screenshot failed", zap.Error(err))
		return
	}
	f.log.Info("screenshot saved", zap.String("path", path))
}

// Recover reconfigures the surface and updates the projection aspect.
func (f *Frame) Recover() (int, int) {
	width, height := f.surface.Reconfigure()
	f.master.Renderer().SetAspect(width, height)
	return width, height
}

// Hidden reports whether the last Step found the surface with zero area.
func (f *Frame) Hidden() bool { return f.hidden }

// Step renders one frame and sorts its error: a hidden surface skips the
// frame quietly, a lost surface is reconfigured and the frame skipped,
// out-of-memory is returned as fatal, anything else is logged and the loop
// continues.
func (f *Frame) Step() error {
	err := f.Render()
	if errors.Is(err, gpu.ErrSurfaceHidden) {
		if !f.hidden {
			f.log.Debug("surface hidden, skipping frames")
		}
		f.hidden = true
		return nil
	}
	if f.hidden {
		f.log.Debug("surface visible again")
	}
	f.hidden = false

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gpu.ErrSurfaceLost):
		w, h := f.Recover()
		f.log.Warn("surface lost, reconfigured", zap.Int("width", w), zap.Int("height", h))
		return nil
	case errors.Is(err, gpu.ErrOutOfMemory):
		return err
	default:
		f.log.Error("frame failed", zap.Error(err))
		return nil
	}
}
