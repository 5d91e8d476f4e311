package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objbatch/internal/assets"
	"github.com/Faultbox/objbatch/internal/config"
	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/engine/gpu/gputest"
	"github.com/Faultbox/objbatch/internal/engine/loader"
	"github.com/Faultbox/objbatch/internal/engine/model"
	"github.com/Faultbox/objbatch/internal/engine/renderer"
	"github.com/Faultbox/objbatch/internal/engine/screenshot"
	"github.com/Faultbox/objbatch/pkg/formats"
	"github.com/Faultbox/objbatch/pkg/math"
)

func loadDefaultScene(t *testing.T, dev *gputest.Device, mod func(*config.Config)) *Scene {
	t.Helper()
	cfg := config.Default()
	if mod != nil {
		mod(cfg)
	}
	s, err := LoadScene(loader.New(dev), assets.NewManager(), cfg.Scene, cfg.Camera)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	return s
}

func TestLoadSceneDefaults(t *testing.T) {
	dev := gputest.NewDevice()
	s := loadDefaultScene(t, dev, nil)

	if got := s.Model.RawModel().IndexCount(); got != uint32(len(model.TriangleIndices)) {
		t.Errorf("index count = %d, want built-in triangle", got)
	}
	if s.Model.Texture().ID() != 1 {
		t.Errorf("texture id = %d, want 1", s.Model.Texture().ID())
	}
	if len(s.Entities) != 1 {
		t.Fatalf("entities = %d, want 1", len(s.Entities))
	}
	if s.Camera.Position != (math.Vec3{Z: 10}) {
		t.Errorf("camera = %+v", s.Camera.Position)
	}
	if s.Light.Colour != math.Splat(1) {
		t.Errorf("light colour = %+v", s.Light.Colour)
	}

	s.Release()
	if !dev.Buffers[0].Released || !dev.Textures[0].Released {
		t.Error("scene resources not released")
	}
}

func TestLoadSceneFromOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n"
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	s := loadDefaultScene(t, gputest.NewDevice(), func(c *config.Config) {
		c.Scene.Model = path
		c.Scene.AtlasRows = 2
		c.Scene.Entities = []config.EntityConfig{
			{Position: [3]float32{1, 0, 0}, Scale: 1, TextureIndex: 1},
			{Position: [3]float32{-1, 0, 0}, Scale: 2, TextureIndex: 2},
		}
	})

	if s.Model.RawModel().IndexCount() != 3 {
		t.Errorf("index count = %d, want 3", s.Model.RawModel().IndexCount())
	}
	if len(s.Entities) != 2 || s.Entities[1].Scale() != 2 {
		t.Fatalf("entities not placed from config")
	}
	if off := s.Entities[0].TextureOffset(); off != (math.Vec2{X: 0.5}) {
		t.Errorf("atlas offset = %+v", off)
	}
}

func TestLoadSceneMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Model = filepath.Join(t.TempDir(), "missing.obj")
	_, err := LoadScene(loader.New(gputest.NewDevice()), assets.NewManager(), cfg.Scene, cfg.Camera)
	if !errors.Is(err, formats.ErrModelFileMissing) {
		t.Errorf("err = %v, want ErrModelFileMissing", err)
	}
}

func TestLoadSceneMissingTexture(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Texture = "nope.png"
	_, err := LoadScene(loader.New(gputest.NewDevice()), assets.NewManager(), cfg.Scene, cfg.Camera)
	if !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// keys is a scripted keyboard.
type keys struct {
	pressed map[sdl.Scancode]bool
	held    map[sdl.Scancode]bool
}

func (k keys) IsKeyPressed(c sdl.Scancode) bool { return k.pressed[c] }
func (k keys) IsKeyHeld(c sdl.Scancode) bool { return k.held[c] }

func TestHandleInputRotate(t *testing.T) {
	s := loadDefaultScene(t, gputest.NewDevice(), nil)
	s.HandleInput(keys{pressed: map[sdl.Scancode]bool{KeyRotate: true}}, 1, 0.016)

	x, y, z := s.Entities[0].Rotation()
	if x != rotateStepX || y != rotateStepY || z != rotateStepZ {
		t.Errorf("rotation = %v %v %v", x, y, z)
	}
}

func TestHandleInputMove(t *testing.T) {
	s := loadDefaultScene(t, gputest.NewDevice(), nil)
	s.HandleInput(keys{held: map[sdl.Scancode]bool{sdl.SCANCODE_UP: true}}, 2, 0.5)

	if s.Camera.Position != (math.Vec3{Z: 9}) {
		t.Errorf("camera = %+v, want z=9", s.Camera.Position)
	}

	// Opposite keys cancel.
	s.HandleInput(keys{held: map[sdl.Scancode]bool{sdl.SCANCODE_LEFT: true, sdl.SCANCODE_RIGHT: true}}, 2, 0.5)
	if s.Camera.Position != (math.Vec3{Z: 9}) {
		t.Errorf("camera moved with cancelling keys: %+v", s.Camera.Position)
	}
}

func TestMasterOptions(t *testing.T) {
	rc := config.Default().Render
	opts, err := MasterOptions(rc, 1600, 800)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Projection.Kind != renderer.ProjectionPerspective || opts.Projection.Aspect != 2 {
		t.Errorf("projection = %+v", opts.Projection)
	}
	if opts.BatchKey != model.BatchByMeshAndTexture {
		t.Errorf("batch key = %v", opts.BatchKey)
	}

	rc.Projection = "cabinet"
	if _, err := MasterOptions(rc, 1, 1); !errors.Is(err, renderer.ErrInvalidProjection) {
		t.Errorf("err = %v, want ErrInvalidProjection", err)
	}
}

// surface is a scripted presentation target.
type surface struct {
	w, h        int
	hidden      bool
	lost        bool
	presents    int
	reconfigure int
}

func (s *surface) Acquire() (int, int, error) {
	if s.hidden {
		return 0, 0, gpu.ErrSurfaceHidden
	}
	if s.lost {
		return 0, 0, gpu.ErrSurfaceLost
	}
	return s.w, s.h, nil
}

func (s *surface) Reconfigure() (int, int) {
	s.lost = false
	s.reconfigure++
	return s.w, s.h
}

func (s *surface) Present() { s.presents++ }

// backend hands out recording passes.
type backend struct {
	passes []*gputest.Pass
	endErr error
	reads  int
}

func (b *backend) BeginFrame(width, height int) gpu.Pass {
	p := &gputest.Pass{}
	b.passes = append(b.passes, p)
	return p
}

func (b *backend) EndFrame() error { return b.endErr }

func (b *backend) ReadPixels(width, height int) []byte {
	b.reads++
	return make([]byte, width*height*4)
}

func newTestFrame(t *testing.T) (*Frame, *surface, *backend) {
	t.Helper()
	dev := gputest.NewDevice()
	s := loadDefaultScene(t, dev, func(c *config.Config) {
		c.Scene.Entities = append(c.Scene.Entities, config.EntityConfig{Scale: 1, Position: [3]float32{2, 0, 0}})
	})
	opts, err := MasterOptions(config.Default().Render, 1280, 720)
	if err != nil {
		t.Fatal(err)
	}
	master, err := renderer.NewMaster(dev, opts)
	if err != nil {
		t.Fatal(err)
	}
	surf := &surface{w: 1280, h: 720}
	be := &backend{}
	return NewFrame(surf, be, &gputest.Queue{}, master, s), surf, be
}

func TestFrameRendersEveryEntity(t *testing.T) {
	f, surf, be := newTestFrame(t)

	for i := 0; i < 3; i++ {
		if err := f.Step(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	if surf.presents != 3 || len(be.passes) != 3 {
		t.Fatalf("presents = %d, passes = %d", surf.presents, len(be.passes))
	}
	// Resubmission each frame must not accumulate entities.
	last := be.passes[2]
	if last.Count(gputest.OpDrawIndexed) != 2 || last.Count(gputest.OpSetVertexBuffer) != 1 {
		t.Errorf("last frame: %d draws, %d binds", last.Count(gputest.OpDrawIndexed), last.Count(gputest.OpSetVertexBuffer))
	}
}

func TestFrameSurfaceLost(t *testing.T) {
	f, surf, be := newTestFrame(t)
	surf.lost = true
	surf.w, surf.h = 800, 800

	if err := f.Step(); err != nil {
		t.Fatalf("lost surface should be recovered, got %v", err)
	}
	if surf.reconfigure != 1 || surf.presents != 0 || len(be.passes) != 0 {
		t.Errorf("reconfigure = %d, presents = %d, passes = %d", surf.reconfigure, surf.presents, len(be.passes))
	}
	if got := f.master.Renderer().Projection().Aspect; got != 1 {
		t.Errorf("aspect after recovery = %v, want 1", got)
	}

	if err := f.Step(); err != nil {
		t.Fatal(err)
	}
	if surf.presents != 1 {
		t.Error("frame after recovery not presented")
	}
}

func TestFrameHiddenSurfaceSkipsQuietly(t *testing.T) {
	f, surf, be := newTestFrame(t)
	surf.hidden = true

	for i := 0; i < 5; i++ {
		if err := f.Step(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if !f.Hidden() {
		t.Error("Hidden() = false while minimised")
	}
	if surf.reconfigure != 0 || surf.presents != 0 || len(be.passes) != 0 {
		t.Errorf("reconfigure = %d, presents = %d, passes = %d", surf.reconfigure, surf.presents, len(be.passes))
	}

	surf.hidden = false
	if err := f.Step(); err != nil {
		t.Fatal(err)
	}
	if f.Hidden() || surf.presents != 1 {
		t.Errorf("after restore: hidden = %v, presents = %d", f.Hidden(), surf.presents)
	}
}

func TestFrameOutOfMemoryIsFatal(t *testing.T) {
	f, _, be := newTestFrame(t)
	be.endErr = gpu.ErrOutOfMemory

	if err := f.Step(); !errors.Is(err, gpu.ErrOutOfMemory) {
		t.Errorf("err = %v, want ErrOutOfMemory", err)
	}
}

func TestFrameOtherErrorsContinue(t *testing.T) {
	f, surf, be := newTestFrame(t)
	be.endErr = errors.New("gl error 0x0502")

	if err := f.Step(); err != nil {
		t.Errorf("non-fatal error returned: %v", err)
	}
	if surf.presents != 0 {
		t.Error("failed frame was presented")
	}
}

func TestFrameScreenshot(t *testing.T) {
	f, surf, be := newTestFrame(t)
	surf.w, surf.h = 4, 2

	f.RequestScreenshot()
	if err := f.Step(); err != nil {
		t.Fatal(err)
	}
	if be.reads != 0 {
		t.Fatal("pixels read without a capturer")
	}

	dir := t.TempDir()
	f.SetCapturer(screenshot.New(dir, "test"))
	f.RequestScreenshot()
	for i := 0; i < 2; i++ {
		if err := f.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if be.reads != 1 {
		t.Errorf("reads = %d, want 1", be.reads)
	}
	files, err := filepath.Glob(filepath.Join(dir, "test_*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("screenshots = %v, want one file", files)
	}
}
