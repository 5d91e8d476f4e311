// Package app runs the viewer: it builds the scene from config and drives the
// per-frame input, resubmission and render loop.
package app

import (
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/assets"
	"github.com/Faultbox/objbatch/internal/config"
	"github.com/Faultbox/objbatch/internal/engine/gpu/glgpu"
	"github.com/Faultbox/objbatch/internal/engine/input"
	"github.com/Faultbox/objbatch/internal/engine/loader"
	"github.com/Faultbox/objbatch/internal/engine/model"
	"github.com/Faultbox/objbatch/internal/engine/renderer"
	"github.com/Faultbox/objbatch/internal/engine/screenshot"
	"github.com/Faultbox/objbatch/internal/engine/window"
	"github.com/Faultbox/objbatch/internal/logger"
)

// Title is the window title.
const Title = "objbatch"

// hiddenPoll is how long the loop idles per iteration while minimised.
const hiddenPoll = 50 * time.Millisecond

// App is the viewer instance.
type App struct {
	config  *config.Config
	running bool
	window  *window.Window
	device  *glgpu.Device
	input   *input.Input
	assets  *assets.Manager
	master  *renderer.MasterRenderer
	scene   *Scene
	frame   *Frame
	log     *zap.Logger
}

// New opens the window, builds the pipeline and loads the scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config: cfg,
		input:  input.New(),
		assets: assets.NewManager(),
		log:    logger.Named("app"),
	}
	a.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("projection", cfg.Render.Projection),
		zap.String("batch_key", cfg.Render.BatchKey))

	opts, err := MasterOptions(cfg.Render, cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return nil, err
	}
	for _, dir := range cfg.Scene.AssetDirs {
		if err := a.assets.AddDir(dir); err != nil {
			return nil, err
		}
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create device (AFTER window, since OpenGL context must exist)
	a.device, err = glgpu.New(glgpu.Options{ClearColor: cfg.Render.ClearColor})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	opts.Projection.SetAspect(a.window.Size())
	a.master, err = renderer.NewMaster(a.device, opts)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.scene, err = LoadScene(loader.New(a.device), a.assets, cfg.Scene, cfg.Camera)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.frame = NewFrame(a.window, a.device, a.device.Queue(), a.master, a.scene)
	if cfg.Capture.Enabled {
		a.frame.SetCapturer(screenshot.New(cfg.Capture.Dir, cfg.Capture.Prefix))
	}
	a.log.Info("viewer initialized")
	return a, nil
}

// MasterOptions converts render config to renderer options. width and height
// seed the aspect ratio.
func MasterOptions(rc config.RenderConfig, width, height int) (renderer.MasterOptions, error) {
	kind, err := renderer.ParseProjectionKind(rc.Projection)
	if err != nil {
		return renderer.MasterOptions{}, err
	}
	mode, err := model.ParseBatchKeyMode(rc.BatchKey)
	if err != nil {
		return renderer.MasterOptions{}, err
	}
	proj := renderer.Projection{
		Kind:        kind,
		FovY:        rc.FOVDegrees * gomath.Pi / 180,
		Aspect:      1,
		Near:        rc.Near,
		Far:         rc.Far,
		OrthoHeight: rc.OrthoHeight,
	}
	proj.SetAspect(width, height)
	return renderer.MasterOptions{Projection: proj, BatchKey: mode}, nil
}

// Run drives the frame loop until the window closes, Escape is pressed or a
// fatal device error occurs.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if a.input.Update() || a.input.IsKeyPressed(KeyQuit) {
			a.running = false
			break
		}
		a.scene.HandleInput(a.input, a.config.Camera.MoveSpeed, float32(dt))
		if a.input.IsKeyPressed(KeyScreenshot) {
			a.frame.RequestScreenshot()
		}

		// 2. Render
		if err := a.frame.Step(); err != nil {
			return err
		}
		if a.frame.Hidden() {
			time.Sleep(hiddenPoll)
			continue
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := a.master.Stats()
			a.log.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Int("buckets", st.Buckets),
				zap.Int("binds", st.Binds),
				zap.Int("draws", st.Draws))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases GPU resources and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.scene != nil {
		a.scene.Release()
	}
	if a.master != nil {
		a.master.Release()
	}
	if a.device != nil {
		a.device.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.assets.Close()
}
