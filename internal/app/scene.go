package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/assets"
	"github.com/Faultbox/objbatch/internal/config"
	"github.com/Faultbox/objbatch/internal/engine/camera"
	"github.com/Faultbox/objbatch/internal/engine/entity"
	"github.com/Faultbox/objbatch/internal/engine/lighting"
	"github.com/Faultbox/objbatch/internal/engine/loader"
	"github.com/Faultbox/objbatch/internal/engine/model"
	"github.com/Faultbox/objbatch/internal/engine/texture"
	"github.com/Faultbox/objbatch/internal/logger"
	"github.com/Faultbox/objbatch/pkg/math"
)

// Scene is everything drawn each frame.
type Scene struct {
	Model    *model.TexturedModel
	Entities []*entity.Entity
	Camera   *camera.Camera
	Light    lighting.Light
}

// LoadScene uploads the configured model and texture and places the
// configured entities. An empty model path selects the built-in triangle.
func LoadScene(ld *loader.Loader, am *assets.Manager, sc config.SceneConfig, cc config.CameraConfig) (*Scene, error) {
	var (
		raw *model.RawModel
		err error
	)
	if sc.Model == "" {
		raw, err = ld.Triangle()
	} else {
		raw, err = ld.LoadModel(sc.Model)
	}
	if err != nil {
		return nil, err
	}
	// The textured model takes its own reference.
	defer raw.Release()

	data, err := am.Load(sc.Texture)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", sc.Texture, err)
	}
	shine, refl := sc.ShineDamper, sc.Reflectivity
	tex, err := ld.LoadTexture(data, texture.Options{
		ShineDamper:  &shine,
		Reflectivity: &refl,
		NumberOfRows: sc.AtlasRows,
	})
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", sc.Texture, err)
	}

	s := &Scene{
		Model: model.NewTexturedModel(raw, tex),
		Camera: &camera.Camera{
			Position: vec3(cc.Position),
			Pitch:    cc.Pitch,
			Yaw:      cc.Yaw,
			Roll:     cc.Roll,
		},
		Light: lighting.New(math.Vec3{}),
	}
	for _, ec := range sc.Entities {
		s.Entities = append(s.Entities, entity.New(s.Model,
			vec3(ec.Position), ec.Rotation[0], ec.Rotation[1], ec.Rotation[2],
			ec.Scale, ec.TextureIndex))
	}

	logger.Info("scene loaded",
		zap.String("model", modelName(sc.Model)),
		zap.String("texture", sc.Texture),
		zap.Uint32("mesh_id", raw.ID()),
		zap.Uint32("texture_id", tex.ID()),
		zap.Int("entities", len(s.Entities)))
	return s, nil
}

// Release frees the scene's GPU resources.
func (s *Scene) Release() {
	s.Model.Release()
	s.Model.Texture().Release()
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func modelName(path string) string {
	if path == "" {
		return "builtin:triangle"
	}
	return path
}
