// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// RenderConfig holds projection and batching settings.
type RenderConfig struct {
	Projection  string     `yaml:"projection"`   // orthographic | perspective
	FOVDegrees  float32    `yaml:"fov_degrees"`  // perspective only
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	OrthoHeight float32    `yaml:"ortho_height"` // orthographic only
	BatchKey    string     `yaml:"batch_key"`    // mesh_and_texture | texture
	ClearColor  [4]float32 `yaml:"clear_color"`
}

// SceneConfig describes what is loaded and where it is placed.
type SceneConfig struct {
	Model        string         `yaml:"model"`      // empty = built-in triangle
	Texture      string         `yaml:"texture"`    // path or builtin:checker
	AssetDirs    []string       `yaml:"asset_dirs"` // searched last-first for relative paths
	AtlasRows    uint32         `yaml:"atlas_rows"`
	ShineDamper  float32        `yaml:"shine_damper"`
	Reflectivity float32        `yaml:"reflectivity"`
	Entities     []EntityConfig `yaml:"entities"`
}

// EntityConfig places one entity.
type EntityConfig struct {
	Position     [3]float32 `yaml:"position"`
	Rotation     [3]float32 `yaml:"rotation"` // radians, XYZ order
	Scale        float32    `yaml:"scale"`
	TextureIndex uint32     `yaml:"texture_index"`
}

// UnmarshalYAML defaults an omitted scale to 1.
func (e *EntityConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain EntityConfig
	p := plain{Scale: 1}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = EntityConfig(p)
	return nil
}

// CameraConfig holds the starting camera.
type CameraConfig struct {
	Position  [3]float32 `yaml:"position"`
	Pitch     float32    `yaml:"pitch"`
	Yaw       float32    `yaml:"yaw"`
	Roll      float32    `yaml:"roll"`
	MoveSpeed float32    `yaml:"move_speed"` // units per second
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MaxAtlasRows is the largest accepted scene.atlas_rows.
const MaxAtlasRows = 4096

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			Projection:  "perspective",
			FOVDegrees:  70,
			Near:        0.01,
			Far:         50,
			OrthoHeight: 2,
			BatchKey:    "mesh_and_texture",
			ClearColor:  [4]float32{0.1, 0.2, 0.3, 1.0},
		},
		Scene: SceneConfig{
			Model:        "",
			Texture:      "builtin:checker",
			AtlasRows:    1,
			ShineDamper:  1,
			Reflectivity: 0,
			Entities: []EntityConfig{
				{Scale: 1},
			},
		},
		Camera: CameraConfig{
			Position:  [3]float32{0, 0, 10},
			MoveSpeed: 2,
		},
		Capture: CaptureConfig{
			Enabled: true,
			Dir:     "screenshots",
			Prefix:  "objbatch",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects settings the renderer cannot honour.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	switch c.Render.Projection {
	case "orthographic":
		if c.Render.OrthoHeight <= 0 {
			errs = append(errs, fmt.Errorf("render: ortho_height must be positive"))
		}
	case "perspective":
		if c.Render.FOVDegrees <= 0 || c.Render.FOVDegrees >= 180 {
			errs = append(errs, fmt.Errorf("render: fov_degrees %v outside (0, 180)", c.Render.FOVDegrees))
		}
		if c.Render.Near <= 0 {
			errs = append(errs, fmt.Errorf("render: perspective near plane must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("render: unknown projection %q (want orthographic or perspective)", c.Render.Projection))
	}
	if c.Render.Far <= c.Render.Near {
		errs = append(errs, fmt.Errorf("render: far %v must exceed near %v", c.Render.Far, c.Render.Near))
	}
	switch c.Render.BatchKey {
	case "mesh_and_texture", "texture":
	default:
		errs = append(errs, fmt.Errorf("render: unknown batch_key %q (want mesh_and_texture or texture)", c.Render.BatchKey))
	}
	if c.Scene.Texture == "" {
		errs = append(errs, fmt.Errorf("scene: texture is required"))
	}
	if c.Scene.AtlasRows > MaxAtlasRows {
		errs = append(errs, fmt.Errorf("scene: atlas_rows %d exceeds %d", c.Scene.AtlasRows, MaxAtlasRows))
	}
	if c.Capture.Enabled && c.Capture.Prefix == "" {
		errs = append(errs, fmt.Errorf("capture: prefix is required"))
	}
	for i, e := range c.Scene.Entities {
		if e.Scale == 0 {
			errs = append(errs, fmt.Errorf("scene: entity %d has zero scale", i))
		}
	}
	return errors.Join(errs...)
}
