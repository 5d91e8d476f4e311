package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Test render defaults
	if cfg.Render.Projection != "perspective" {
		t.Errorf("expected perspective projection, got %s", cfg.Render.Projection)
	}
	if cfg.Render.BatchKey != "mesh_and_texture" {
		t.Errorf("expected mesh_and_texture batch key, got %s", cfg.Render.BatchKey)
	}
	if cfg.Render.ClearColor != [4]float32{0.1, 0.2, 0.3, 1.0} {
		t.Errorf("unexpected clear colour %v", cfg.Render.ClearColor)
	}

	// Test scene defaults
	if cfg.Scene.Model != "" {
		t.Errorf("expected built-in model, got %s", cfg.Scene.Model)
	}
	if len(cfg.Scene.Entities) != 1 || cfg.Scene.Entities[0].Scale != 1 {
		t.Errorf("expected one unit-scale entity, got %+v", cfg.Scene.Entities)
	}
	if cfg.Camera.Position != [3]float32{0, 0, 10} {
		t.Errorf("expected camera at z=10, got %v", cfg.Camera.Position)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

render:
  projection: orthographic
  ortho_height: 4
  batch_key: texture
  clear_color: [0, 0, 0, 1]

scene:
  model: models/cube.obj
  texture: textures/maze.png
  atlas_rows: 2
  entities:
    - position: [1, 2, 3]
      texture_index: 3
    - position: [-1, 0, 0]
      scale: 0.5

camera:
  position: [0, 1, 5]
  yaw: 0.5

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Render.Projection != "orthographic" || cfg.Render.OrthoHeight != 4 {
		t.Errorf("unexpected render config %+v", cfg.Render)
	}
	if cfg.Render.FOVDegrees != 70 {
		t.Errorf("expected default fov to survive, got %v", cfg.Render.FOVDegrees)
	}
	if cfg.Render.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("unexpected clear colour %v", cfg.Render.ClearColor)
	}

	if cfg.Scene.Model != "models/cube.obj" || cfg.Scene.AtlasRows != 2 {
		t.Errorf("unexpected scene %+v", cfg.Scene)
	}
	if len(cfg.Scene.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(cfg.Scene.Entities))
	}
	first := cfg.Scene.Entities[0]
	if first.Position != [3]float32{1, 2, 3} || first.Scale != 1 || first.TextureIndex != 3 {
		t.Errorf("unexpected first entity %+v", first)
	}
	if cfg.Scene.Entities[1].Scale != 0.5 {
		t.Errorf("expected scale 0.5, got %v", cfg.Scene.Entities[1].Scale)
	}

	if cfg.Camera.Yaw != 0.5 || cfg.Camera.MoveSpeed != 2 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*Config)
		wantErr string
	}{
		{"unknown projection", func(c *Config) { c.Render.Projection = "fisheye" }, "unknown projection"},
		{"empty projection", func(c *Config) { c.Render.Projection = "" }, "unknown projection"},
		{"unknown batch key", func(c *Config) { c.Render.BatchKey = "mesh" }, "unknown batch_key"},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "must be positive"},
		{"bad fov", func(c *Config) { c.Render.FOVDegrees = 180 }, "fov_degrees"},
		{"far before near", func(c *Config) { c.Render.Far = 0.001 }, "must exceed near"},
		{"ortho height", func(c *Config) {
			c.Render.Projection = "orthographic"
			c.Render.OrthoHeight = 0
		}, "ortho_height"},
		{"no texture", func(c *Config) { c.Scene.Texture = "" }, "texture is required"},
		{"zero scale", func(c *Config) { c.Scene.Entities[0].Scale = 0 }, "zero scale"},
		{"atlas rows", func(c *Config) { c.Scene.AtlasRows = MaxAtlasRows + 1 }, "atlas_rows"},
		{"capture prefix", func(c *Config) { c.Capture.Prefix = "" }, "prefix is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "model and texture flags",
			setup: func() {
				*flagModel = "cube.obj"
				*flagTexture = "maze.png"
			},
			verify: func(cfg *Config) {
				if cfg.Scene.Model != "cube.obj" {
					t.Errorf("expected model cube.obj, got %s", cfg.Scene.Model)
				}
				if cfg.Scene.Texture != "maze.png" {
					t.Errorf("expected texture maze.png, got %s", cfg.Scene.Texture)
				}
			},
			teardown: func() {
				*flagModel = ""
				*flagTexture = ""
			},
		},
		{
			name: "projection flag",
			setup: func() {
				*flagProjection = "orthographic"
			},
			verify: func(cfg *Config) {
				if cfg.Render.Projection != "orthographic" {
					t.Errorf("expected orthographic, got %s", cfg.Render.Projection)
				}
			},
			teardown: func() {
				*flagProjection = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
render:
  projection: orthographic
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	*flagProjection = "perspective"
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagProjection = ""
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}

	if cfg.Render.Projection != "perspective" {
		t.Errorf("expected projection from flag, got %s", cfg.Render.Projection)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  projection: isometric\n"), 0644); err != nil {
		t.Fatal(err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected unknown projection to be rejected")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scene.Model = "cube.obj"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Scene.Model != "cube.obj" || len(loaded.Scene.Entities) != 1 {
		t.Errorf("round trip lost data: %+v", loaded.Scene)
	}
}
